package services

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/adampresley/digitalpaintings/pkg/models"
)

type MetadataPublisher interface {
	Publish(pageURL *url.URL, catalog []models.ImageDescriptor) (models.SharingMetadata, error)
}

type MetadataServiceConfig struct {
	SiteTitle string
}

type MetadataService struct {
	siteTitle string
}

func NewMetadataService(config MetadataServiceConfig) MetadataService {
	siteTitle := config.SiteTitle

	if siteTitle == "" {
		siteTitle = models.DefaultSiteTitle
	}

	return MetadataService{
		siteTitle: siteTitle,
	}
}

/*
Publish builds the Open Graph and Twitter Card fields for a page view from
the first catalog entry. It only looks at the raw catalog, so it never
waits on an image. When the first entry has no caption the titles keep
the site default.
*/
func (s MetadataService) Publish(pageURL *url.URL, catalog []models.ImageDescriptor) (models.SharingMetadata, error) {
	var (
		err error
		ref *url.URL
	)

	result := models.SharingMetadata{
		OpenGraph: models.OpenGraph{
			URL:   pageURL.String(),
			Title: s.siteTitle,
		},
		Twitter: models.TwitterCard{
			Title: s.siteTitle,
		},
	}

	if len(catalog) == 0 {
		return result, nil
	}

	first := catalog[0]

	if ref, err = url.Parse(first.Source); err != nil {
		return result, fmt.Errorf("error parsing image source '%s': %w", first.Source, err)
	}

	imageURL := pageURL.ResolveReference(ref).String()

	result.OpenGraph.Image = imageURL
	result.Twitter.Image = imageURL

	if first.Caption != "" {
		title := fmt.Sprintf("%s | %s", first.Caption, s.siteTitle)
		result.OpenGraph.Title = title
		result.Twitter.Title = title
	}

	return result, nil
}

/*
PageURL reconstructs the absolute URL of the page being viewed. When
publicURL is set it is used as the origin. Otherwise the request decides,
and X-Forwarded-Proto/X-Forwarded-Host are only read when trustProxyHeaders
is set, since any client can send them.
*/
func PageURL(r *http.Request, publicURL string, trustProxyHeaders bool) (*url.URL, error) {
	var (
		err  error
		base *url.URL
	)

	path := &url.URL{
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
	}

	if publicURL != "" {
		if base, err = url.Parse(publicURL); err != nil {
			return nil, fmt.Errorf("error parsing public URL '%s': %w", publicURL, err)
		}

		return base.ResolveReference(path), nil
	}

	scheme := "http"

	if r.TLS != nil {
		scheme = "https"
	}

	host := r.Host

	if trustProxyHeaders {
		if forwarded := firstForwardedValue(r, "X-Forwarded-Proto"); forwarded != "" {
			scheme = forwarded
		}

		if forwarded := firstForwardedValue(r, "X-Forwarded-Host"); forwarded != "" {
			host = forwarded
		}
	}

	base = &url.URL{
		Scheme: scheme,
		Host:   host,
	}

	return base.ResolveReference(path), nil
}

func firstForwardedValue(r *http.Request, header string) string {
	return strings.TrimSpace(strings.Split(r.Header.Get(header), ",")[0])
}
