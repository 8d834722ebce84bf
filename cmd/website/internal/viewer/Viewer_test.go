package viewer

import (
	"bytes"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/adampresley/digitalpaintings/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCatalog = []models.ImageDescriptor{
	{Source: "paintings/cave-1.png", Caption: "The Path Revealed", Date: "Aug 4, 2024"},
	{Source: "paintings/trees-1.png", Caption: "Shared Roots, Dancing Leaves"},
}

func newTestViewer(t *testing.T) Viewer {
	t.Helper()

	v, err := NewViewer(ViewerConfig{Catalog: testCatalog})
	require.NoError(t, err)
	return v
}

func render(t *testing.T, v Viewer, overlay Overlay) *goquery.Document {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, v.RenderOverlay(&buf, overlay))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestOverlayWithDate(t *testing.T) {
	v := newTestViewer(t)

	overlay, err := v.Open(0)
	require.NoError(t, err)

	doc := render(t, v, overlay)
	overlays := doc.Find("[data-overlay]")
	require.Equal(t, 1, overlays.Length())

	id, _ := overlays.Attr("id")
	assert.Equal(t, "overlay-"+overlay.ID, id)

	src, _ := overlays.Find("img").Attr("src")
	assert.Equal(t, "paintings/cave-1.png", src)
	assert.Equal(t, "The Path Revealed", overlays.Find(".overlay-caption").Text())
	assert.Equal(t, "Aug 4, 2024", overlays.Find(".overlay-date").Text())

	fadeOut, _ := overlays.Attr("data-fade-out")
	assert.Equal(t, "300", fadeOut)
}

func TestOverlayWithoutDate(t *testing.T) {
	v := newTestViewer(t)

	overlay, err := v.Open(1)
	require.NoError(t, err)

	doc := render(t, v, overlay)
	assert.Equal(t, "Shared Roots, Dancing Leaves", doc.Find(".overlay-caption").Text())
	assert.Equal(t, 0, doc.Find(".overlay-date").Length())
}

func TestEachOpenIsAnIndependentOverlay(t *testing.T) {
	v := newTestViewer(t)

	first, err := v.Open(0)
	require.NoError(t, err)

	second, err := v.Open(0)
	require.NoError(t, err)

	third, err := v.Open(1)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, second.ID, third.ID)
}

func TestOpenOutOfRange(t *testing.T) {
	v := newTestViewer(t)

	for _, index := range []int{-1, len(testCatalog)} {
		_, err := v.Open(index)
		assert.ErrorIs(t, err, models.ErrNoSuchImage)
	}
}

func TestEveryOverlayCarriesItsFadeTimings(t *testing.T) {
	v := newTestViewer(t)

	for index := range testCatalog {
		overlay, err := v.Open(index)
		require.NoError(t, err)

		element := render(t, v, overlay).Find("[data-overlay]")
		require.Equal(t, 1, element.Length())

		fadeIn, ok := element.Attr("data-fade-in")
		require.True(t, ok)
		assert.Equal(t, "10", fadeIn)

		fadeOut, ok := element.Attr("data-fade-out")
		require.True(t, ok)
		assert.Equal(t, "300", fadeOut)
	}
}
