package services

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/adampresley/digitalpaintings/pkg/models"
)

func encodePNG(t testing.TB, width, height int) []byte {
	t.Helper()

	var buf bytes.Buffer

	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	return buf.Bytes()
}

func imageRoot(t testing.TB, files map[string][2]int) fstest.MapFS {
	t.Helper()

	root := fstest.MapFS{}

	for name, size := range files {
		root[name] = &fstest.MapFile{Data: encodePNG(t, size[0], size[1])}
	}

	return root
}

/*
gatedFetcher wraps another fetcher and holds back the sources listed in
gates until the matching channel is closed.
*/
type gatedFetcher struct {
	inner ImageFetcher
	gates map[string]chan struct{}

	mu     sync.Mutex
	opened []string
}

func (f *gatedFetcher) Open(ctx context.Context, source string) (io.ReadCloser, error) {
	f.mu.Lock()
	f.opened = append(f.opened, source)
	f.mu.Unlock()

	if gate, ok := f.gates[source]; ok {
		<-gate
	}

	return f.inner.Open(ctx, source)
}

func (f *gatedFetcher) Opened() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string{}, f.opened...)
}

func descriptors(sources ...string) []models.ImageDescriptor {
	result := make([]models.ImageDescriptor, 0, len(sources))

	for _, source := range sources {
		result = append(result, models.ImageDescriptor{Source: source, Caption: source})
	}

	return result
}
