package viewer

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/adampresley/digitalpaintings/pkg/models"
	"github.com/google/uuid"
)

//go:embed templates
var templateFS embed.FS

const (
	FadeInDelayMs = 10
	FadeOutMs     = 300
)

/*
Overlay is one fullscreen viewer instance. Every card click gets its own
overlay with its own ID. The browser removes exactly that element once its
fade out finishes, so overlays never share state.
*/
type Overlay struct {
	models.ImageDescriptor

	ID        string
	Index     int
	FadeInMs  int
	FadeOutMs int
}

type ViewerConfig struct {
	Catalog []models.ImageDescriptor
}

type Viewer struct {
	catalog   []models.ImageDescriptor
	templates *template.Template
}

func NewViewer(config ViewerConfig) (Viewer, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")

	if err != nil {
		return Viewer{}, fmt.Errorf("error parsing viewer templates: %w", err)
	}

	return Viewer{
		catalog:   config.Catalog,
		templates: templates,
	}, nil
}

func (v Viewer) Open(index int) (Overlay, error) {
	if index < 0 || index >= len(v.catalog) {
		return Overlay{}, fmt.Errorf("%w: %d", models.ErrNoSuchImage, index)
	}

	return Overlay{
		ImageDescriptor: v.catalog[index],
		ID:              uuid.NewString(),
		Index:           index,
		FadeInMs:        FadeInDelayMs,
		FadeOutMs:       FadeOutMs,
	}, nil
}

func (v Viewer) RenderOverlay(w io.Writer, overlay Overlay) error {
	if err := v.templates.ExecuteTemplate(w, "overlay", overlay); err != nil {
		return fmt.Errorf("error rendering overlay for image %d: %w", overlay.Index, err)
	}

	return nil
}
