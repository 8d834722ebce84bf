package gallery

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/adampresley/adamgokit/slices"
	"github.com/adampresley/digitalpaintings/pkg/models"
)

//go:embed templates
var templateFS embed.FS

const (
	fadeBaseDelayMs = 50
	fadeStaggerMs   = 75
)

/*
ThumbnailLookup reports whether a smaller rendition exists for the image at
a catalog position.
*/
type ThumbnailLookup interface {
	HasThumbnail(index int) bool
}

// Card is one rendered gallery unit.
type Card struct {
	models.LoadedImage

	Index    int
	ImageURL string

	// PaddingBottomPercent reserves the image box height as a percentage of its width.
	PaddingBottomPercent float64
	FadeDelayMs          int
}

func (c Card) BoxStyle() template.CSS {
	return template.CSS("padding-bottom: " + strconv.FormatFloat(c.PaddingBottomPercent, 'f', -1, 64) + "%")
}

type Renderer struct {
	templates *template.Template
}

func NewRenderer() (Renderer, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")

	if err != nil {
		return Renderer{}, fmt.Errorf("error parsing gallery templates: %w", err)
	}

	return Renderer{
		templates: templates,
	}, nil
}

/*
Cards turns loaded images into cards, keeping their order. The image box
reserves 1/aspectRatio of its width so the layout doesn't shift when the
image paints. thumbnails may be nil.
*/
func (r Renderer) Cards(images []models.LoadedImage, thumbnails ThumbnailLookup) []Card {
	return slices.Map(images, func(input models.LoadedImage, index int) Card {
		imageURL := input.Source

		if thumbnails != nil && thumbnails.HasThumbnail(index) {
			imageURL = fmt.Sprintf("/thumbnails/%d", index)
		}

		return Card{
			LoadedImage:          input,
			Index:                index,
			ImageURL:             imageURL,
			PaddingBottomPercent: (1 / input.AspectRatio()) * 100,
			FadeDelayMs:          fadeBaseDelayMs + index*fadeStaggerMs,
		}
	})
}

// RenderGallery writes the cards. The result replaces whatever the gallery container held.
func (r Renderer) RenderGallery(w io.Writer, cards []Card) error {
	return r.execute(w, "gallery", cards)
}

func (r Renderer) RenderLoading(w io.Writer) error {
	return r.execute(w, "loading", nil)
}

func (r Renderer) RenderError(w io.Writer) error {
	return r.execute(w, "error", nil)
}

func (r Renderer) execute(w io.Writer, name string, data any) error {
	if err := r.templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("error rendering gallery template '%s': %w", name, err)
	}

	return nil
}
