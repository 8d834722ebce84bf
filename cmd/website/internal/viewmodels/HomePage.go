package viewmodels

import (
	"html/template"

	"github.com/adampresley/digitalpaintings/pkg/models"
)

type HomePage struct {
	BaseViewModel

	SiteTitle        string
	Meta             models.SharingMetadata
	LoadingIndicator template.HTML
}
