package services

import (
	"context"
	"crypto/tls"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/adampresley/digitalpaintings/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()

	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestPublishUsesFirstCatalogEntry(t *testing.T) {
	service := NewMetadataService(MetadataServiceConfig{})
	catalog := []models.ImageDescriptor{
		{Source: "paintings/cave-1.png", Caption: "The Path Revealed", Date: "Aug 4, 2024"},
		{Source: "paintings/waves-1.png", Caption: "The Descent to Stillness"},
	}

	meta, err := service.Publish(mustParseURL(t, "https://example.com/?ref=share"), catalog)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/paintings/cave-1.png", meta.OpenGraph.Image)
	assert.Equal(t, "https://example.com/?ref=share", meta.OpenGraph.URL)
	assert.Equal(t, "The Path Revealed | Digital Paintings Gallery", meta.OpenGraph.Title)
	assert.Equal(t, meta.OpenGraph.Image, meta.Twitter.Image)
	assert.Equal(t, meta.OpenGraph.Title, meta.Twitter.Title)
}

func TestPublishResolvesAgainstNestedPage(t *testing.T) {
	service := NewMetadataService(MetadataServiceConfig{})

	meta, err := service.Publish(
		mustParseURL(t, "http://localhost:8081/rev/ise/index.html"),
		[]models.ImageDescriptor{{Source: "cave-1.png", Caption: "Cave"}},
	)

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8081/rev/ise/cave-1.png", meta.OpenGraph.Image)
}

func TestPublishKeepsDefaultTitleWithoutCaption(t *testing.T) {
	service := NewMetadataService(MetadataServiceConfig{SiteTitle: "Paintings"})

	meta, err := service.Publish(
		mustParseURL(t, "https://example.com/"),
		[]models.ImageDescriptor{{Source: "a.png"}},
	)

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a.png", meta.OpenGraph.Image)
	assert.Equal(t, "Paintings", meta.OpenGraph.Title)
	assert.Equal(t, "Paintings", meta.Twitter.Title)
}

func TestPublishEmptyCatalog(t *testing.T) {
	meta, err := NewMetadataService(MetadataServiceConfig{}).Publish(mustParseURL(t, "https://example.com/"), nil)

	require.NoError(t, err)
	assert.Empty(t, meta.OpenGraph.Image)
	assert.Equal(t, "https://example.com/", meta.OpenGraph.URL)
	assert.Equal(t, models.DefaultSiteTitle, meta.Twitter.Title)
}

func TestPublishDoesNotTouchImages(t *testing.T) {
	gate := make(chan struct{})
	t.Cleanup(func() { close(gate) })

	fetcher := &gatedFetcher{
		inner: NewDirectoryImageFetcher(DirectoryImageFetcherConfig{Root: imageRoot(t, map[string][2]int{"a.png": {2, 1}})}),
		gates: map[string]chan struct{}{"a.png": gate},
	}

	// A load that can never finish.
	go func() {
		_, _ = newTestLoader(fetcher).Load(context.Background(), descriptors("a.png"))
	}()

	meta, err := NewMetadataService(MetadataServiceConfig{}).Publish(mustParseURL(t, "https://example.com/"), descriptors("a.png"))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a.png", meta.OpenGraph.Image)

	require.Eventually(t, func() bool { return len(fetcher.Opened()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestPageURL(t *testing.T) {
	t.Run("plain request", func(t *testing.T) {
		r := httptest.NewRequest("GET", "http://gallery.local:8081/?a=b", nil)

		u, err := PageURL(r, "", false)
		require.NoError(t, err)
		assert.Equal(t, "http://gallery.local:8081/?a=b", u.String())
	})

	t.Run("tls request", func(t *testing.T) {
		r := httptest.NewRequest("GET", "http://gallery.local/", nil)
		r.TLS = &tls.ConnectionState{}

		u, err := PageURL(r, "", false)
		require.NoError(t, err)
		assert.Equal(t, "https://gallery.local/", u.String())
	})

	t.Run("behind a trusted proxy", func(t *testing.T) {
		r := httptest.NewRequest("GET", "http://10.0.0.5:8081/", nil)
		r.Header.Set("X-Forwarded-Proto", "https, http")
		r.Header.Set("X-Forwarded-Host", "paintings.example.com")

		u, err := PageURL(r, "", true)
		require.NoError(t, err)
		assert.Equal(t, "https://paintings.example.com/", u.String())
	})

	t.Run("forwarding headers ignored unless trusted", func(t *testing.T) {
		r := httptest.NewRequest("GET", "http://gallery.local/", nil)
		r.Header.Set("X-Forwarded-Proto", "https")
		r.Header.Set("X-Forwarded-Host", "attacker.test")

		u, err := PageURL(r, "", false)
		require.NoError(t, err)
		assert.Equal(t, "http://gallery.local/", u.String())
	})

	t.Run("configured public URL", func(t *testing.T) {
		r := httptest.NewRequest("GET", "http://10.0.0.5:8081/", nil)

		u, err := PageURL(r, "https://paintings.example.com", false)
		require.NoError(t, err)
		assert.Equal(t, "https://paintings.example.com/", u.String())
	})
}
