package cache

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/adampresley/digitalpaintings/pkg/models"
	"github.com/adampresley/digitalpaintings/pkg/services"
	"github.com/alitto/pond/v2"
	"github.com/nfnt/resize"
)

type ThumbnailCache interface {
	CreateCache()
	HasThumbnail(index int) bool
	Thumbnail(index int) ([]byte, bool)
}

type ThumbnailCacheConfig struct {
	Catalog         []models.ImageDescriptor
	Fetcher         services.ImageFetcher
	MaxCacheWorkers int
	MaxSize         uint
	ShutdownCtx     context.Context
}

type ThumbnailCacheService struct {
	catalog         []models.ImageDescriptor
	fetcher         services.ImageFetcher
	maxCacheWorkers int
	maxSize         uint
	shutdownCtx     context.Context
	store           *thumbnailStore
}

type thumbnailStore struct {
	sync.RWMutex
	thumbnails map[int][]byte
}

func NewThumbnailCacheService(config ThumbnailCacheConfig) ThumbnailCacheService {
	if config.MaxSize == 0 {
		config.MaxSize = 600
	}

	if config.MaxCacheWorkers <= 0 {
		config.MaxCacheWorkers = 4
	}

	if config.ShutdownCtx == nil {
		config.ShutdownCtx = context.Background()
	}

	return ThumbnailCacheService{
		catalog:         config.Catalog,
		fetcher:         config.Fetcher,
		maxCacheWorkers: config.MaxCacheWorkers,
		maxSize:         config.MaxSize,
		shutdownCtx:     config.ShutdownCtx,
		store: &thumbnailStore{
			thumbnails: map[int][]byte{},
		},
	}
}

/*
CreateCache builds a thumbnail for every catalog entry. A painting that
fails keeps whatever thumbnail it had before, or none, and the gallery
falls back to the full image for it.
*/
func (c ThumbnailCacheService) CreateCache() {
	slog.Info("starting thumbnail cache creation...", "numImages", len(c.catalog))

	pool := pond.NewPool(c.maxCacheWorkers, pond.WithContext(c.shutdownCtx))

	for index, descriptor := range c.catalog {
		pool.Submit(func() {
			var (
				err       error
				thumbnail []byte
			)

			if thumbnail, err = c.createThumbnail(descriptor); err != nil {
				slog.Error("error creating thumbnail", "source", descriptor.Source, "error", err)
				return
			}

			c.store.Lock()
			c.store.thumbnails[index] = thumbnail
			c.store.Unlock()

			slog.Debug("updated thumbnail", "source", descriptor.Source, "bytes", len(thumbnail))
		})
	}

	_ = pool.Stop().Wait()
}

func (c ThumbnailCacheService) HasThumbnail(index int) bool {
	_, ok := c.Thumbnail(index)
	return ok
}

func (c ThumbnailCacheService) Thumbnail(index int) ([]byte, bool) {
	c.store.RLock()
	defer c.store.RUnlock()

	result, ok := c.store.thumbnails[index]
	return result, ok
}

func (c ThumbnailCacheService) createThumbnail(descriptor models.ImageDescriptor) ([]byte, error) {
	var (
		err  error
		body io.ReadCloser
		img  image.Image
		buf  bytes.Buffer
	)

	if body, err = c.fetcher.Open(c.shutdownCtx, descriptor.Source); err != nil {
		return nil, fmt.Errorf("error retrieving original image %s: %w", descriptor.Source, err)
	}

	defer body.Close()

	if img, _, err = image.Decode(body); err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}

	if err = jpeg.Encode(&buf, c.resize(img), &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("error encoding image for thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}

func (c ThumbnailCacheService) resize(img image.Image) image.Image {
	/*
	 * Determine which dimension to resize based on the longest edge
	 */
	bounds := img.Bounds()
	width := uint(bounds.Dx())
	height := uint(bounds.Dy())

	if width <= c.maxSize && height <= c.maxSize {
		return img
	}

	var newWidth, newHeight uint
	if width > height {
		// Landscape orientation
		newWidth = c.maxSize
		newHeight = uint(math.Round(float64(height) * (float64(c.maxSize) / float64(width))))
	} else {
		// Portrait orientation or square
		newHeight = c.maxSize
		newWidth = uint(math.Round(float64(width) * (float64(c.maxSize) / float64(height))))
	}

	return resize.Resize(newWidth, newHeight, img, resize.Lanczos3)
}
