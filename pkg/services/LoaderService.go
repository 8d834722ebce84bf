package services

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"

	"github.com/adampresley/digitalpaintings/pkg/models"
	"github.com/alitto/pond/v2"
)

type Loader interface {
	Load(ctx context.Context, catalog []models.ImageDescriptor) ([]models.LoadedImage, error)
}

type LoaderServiceConfig struct {
	Fetcher     ImageFetcher
	ShutdownCtx context.Context
}

type LoaderService struct {
	fetcher     ImageFetcher
	shutdownCtx context.Context
}

type measurement struct {
	index int
	image models.LoadedImage
	err   error
}

func NewLoaderService(config LoaderServiceConfig) LoaderService {
	ctx := config.ShutdownCtx

	if ctx == nil {
		ctx = context.Background()
	}

	return LoaderService{
		fetcher:     config.Fetcher,
		shutdownCtx: ctx,
	}
}

/*
Load measures every descriptor in the catalog concurrently. Each call gets
its own pool, one worker per image, so every image is requested at once no
matter how many other page views are loading. The result keeps catalog
order. The first failure fails the whole load and no partial result is
returned. Loads still in flight at that point are left to finish on their
own and their results are discarded.
*/
func (s LoaderService) Load(ctx context.Context, catalog []models.ImageDescriptor) ([]models.LoadedImage, error) {
	if len(catalog) == 0 {
		return []models.LoadedImage{}, nil
	}

	pool := pond.NewPool(len(catalog), pond.WithContext(ctx))
	defer pool.Stop()

	/*
	 * Buffered so workers whose result is no longer wanted can still
	 * hand it over and exit.
	 */
	results := make(chan measurement, len(catalog))

	for index, descriptor := range catalog {
		pool.Submit(func() {
			loaded, err := s.measure(ctx, descriptor)
			results <- measurement{index: index, image: loaded, err: err}
		})
	}

	loaded := make([]models.LoadedImage, len(catalog))

	for range catalog {
		select {
		case result := <-results:
			if result.err != nil {
				return nil, fmt.Errorf("error loading gallery images: %w", result.err)
			}

			loaded[result.index] = result.image

		case <-ctx.Done():
			return nil, fmt.Errorf("error loading gallery images: %w", ctx.Err())

		case <-s.shutdownCtx.Done():
			return nil, fmt.Errorf("error loading gallery images: %w", s.shutdownCtx.Err())
		}
	}

	return loaded, nil
}

func (s LoaderService) measure(ctx context.Context, descriptor models.ImageDescriptor) (models.LoadedImage, error) {
	var (
		err    error
		body   io.ReadCloser
		config image.Config
	)

	if body, err = s.fetcher.Open(ctx, descriptor.Source); err != nil {
		return models.LoadedImage{}, fmt.Errorf("error fetching image '%s': %w", descriptor.Source, err)
	}

	defer body.Close()

	if config, _, err = image.DecodeConfig(body); err != nil {
		return models.LoadedImage{}, fmt.Errorf("error decoding image '%s': %w", descriptor.Source, err)
	}

	if config.Width <= 0 || config.Height <= 0 {
		return models.LoadedImage{}, fmt.Errorf("%w: '%s' is %dx%d", models.ErrInvalidDimensions, descriptor.Source, config.Width, config.Height)
	}

	slog.Debug("measured image", "source", descriptor.Source, "width", config.Width, "height", config.Height)

	return models.LoadedImage{
		ImageDescriptor: descriptor,
		Width:           config.Width,
		Height:          config.Height,
	}, nil
}
