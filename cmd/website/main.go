package main

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sync/atomic"
	"time"

	"github.com/adampresley/adamgokit/awsconfig"
	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/retrier"
	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/slices"
	"github.com/adampresley/digitalpaintings/cmd/website/internal/cache"
	"github.com/adampresley/digitalpaintings/cmd/website/internal/configuration"
	"github.com/adampresley/digitalpaintings/cmd/website/internal/gallery"
	"github.com/adampresley/digitalpaintings/cmd/website/internal/home"
	"github.com/adampresley/digitalpaintings/cmd/website/internal/viewer"
	"github.com/adampresley/digitalpaintings/pkg/catalog"
	"github.com/adampresley/digitalpaintings/pkg/models"
	"github.com/adampresley/digitalpaintings/pkg/services"
)

var (
	Version string = "development"
	appName string = "digitalpaintings"

	//go:embed app
	appFS embed.FS

	config configuration.Config

	/* Services */
	galleryRenderer  gallery.Renderer
	imageFetcher     services.ImageFetcher
	loaderService    services.Loader
	metadataService  services.MetadataPublisher
	renderer         rendering.TemplateRenderer
	thumbnailService cache.ThumbnailCache
	viewerService    viewer.Viewer

	/* Controllers */
	homeController home.HomeHandlers
)

func main() {
	var (
		err error
	)

	config = configuration.LoadConfig()
	setupLogger(&config, Version)

	slog.Info("configuration loaded",
		slog.String("app", appName),
		slog.String("version", Version),
		slog.String("loglevel", config.LogLevel),
		slog.String("host", config.Host),
		slog.String("imageBackend", config.ImageBackend),
		slog.String("publicURL", config.PublicURL),
	)

	slog.Debug("setting up...")

	shutdownCtx, cancel := context.WithCancel(context.Background())
	paintings := catalog.Paintings()

	/*
	 * Setup services
	 */
	if imageFetcher, err = setupImageFetcher(); err != nil {
		panic(err)
	}

	renderer, err = rendering.NewGoTemplateRenderer(rendering.GoTemplateRendererConfig{
		TemplateDir:       "app",
		TemplateExtension: ".html",
		TemplateFS:        appFS,
		PagesDir:          "pages",
	})

	if err != nil {
		panic(err)
	}

	if galleryRenderer, err = gallery.NewRenderer(); err != nil {
		panic(err)
	}

	viewerService, err = viewer.NewViewer(viewer.ViewerConfig{
		Catalog: paintings,
	})

	if err != nil {
		panic(err)
	}

	loaderService = services.NewLoaderService(services.LoaderServiceConfig{
		Fetcher:     imageFetcher,
		ShutdownCtx: shutdownCtx,
	})

	metadataService = services.NewMetadataService(services.MetadataServiceConfig{
		SiteTitle: models.DefaultSiteTitle,
	})

	thumbnailService = cache.NewThumbnailCacheService(cache.ThumbnailCacheConfig{
		Catalog:         paintings,
		Fetcher:         imageFetcher,
		MaxCacheWorkers: config.MaxCacheWorkers,
		MaxSize:         uint(max(config.ThumbnailSize, 0)),
		ShutdownCtx:     shutdownCtx,
	})

	/*
	 * Setup controllers
	 */
	homeController = home.NewHomeController(home.HomeControllerConfig{
		Catalog:         paintings,
		Config:          &config,
		Fetcher:         imageFetcher,
		GalleryRenderer: galleryRenderer,
		Loader:          loaderService,
		MetadataService: metadataService,
		Renderer:        renderer,
		ThumbnailCache:  thumbnailService,
		Viewer:          viewerService,
	})

	/*
	 * Setup router and http server
	 */
	slog.Debug("setting up routes...")

	requestLogger := newRequestLoggerMiddleware(
		[]string{
			"/static",
			"/heartbeat",
		},
	)

	routes := []mux.Route{
		{Path: "GET /heartbeat", HandlerFunc: heartbeat},
		{Path: "GET /", HandlerFunc: homeController.HomePage, Middlewares: []mux.MiddlewareFunc{requestLogger}},
		{Path: "GET /gallery", HandlerFunc: homeController.GalleryFragment, Middlewares: []mux.MiddlewareFunc{requestLogger}},
		{Path: "GET /viewer/{index}", HandlerFunc: homeController.ViewerFragment, Middlewares: []mux.MiddlewareFunc{requestLogger}},
		{Path: "GET /paintings/{file...}", HandlerFunc: homeController.Painting},
		{Path: "GET /thumbnails/{index}", HandlerFunc: homeController.ThumbnailImage},
	}

	routerConfig := mux.RouterConfig{
		Address:              config.Host,
		Debug:                Version == "development",
		ServeStaticContent:   true,
		StaticContentRootDir: "app",
		StaticContentPrefix:  "/static/",
		StaticFS:             appFS,
		HttpWriteTimeout:     60,
	}

	m := mux.SetupRouter(routerConfig, routes)
	httpServer, quit := mux.SetupServer(routerConfig, m)

	/*
	 * Start the thumbnail job
	 */
	setupThumbnailCreator(quit)

	/*
	 * Wait for graceful shutdown
	 */
	slog.Info("server started")

	<-quit

	cancel()
	mux.Shutdown(httpServer)
	slog.Info("server stopped")
}

func heartbeat(w http.ResponseWriter, r *http.Request) {
	httphelpers.TextOK(w, "OK")
}

func setupImageFetcher() (services.ImageFetcher, error) {
	var (
		err     error
		baseURL *url.URL
	)

	validBackends := []string{
		configuration.ImageBackendFilesystem,
		configuration.ImageBackendHttp,
		configuration.ImageBackendS3,
	}

	if !slices.IsInSlice(config.ImageBackend, validBackends) {
		return nil, fmt.Errorf("unknown image backend '%s'", config.ImageBackend)
	}

	switch config.ImageBackend {
	case configuration.ImageBackendHttp:
		if baseURL, err = url.Parse(config.ImageBaseURL); err != nil {
			return nil, fmt.Errorf("error parsing image base URL '%s': %w", config.ImageBaseURL, err)
		}

		return services.NewHttpImageFetcher(services.HttpImageFetcherConfig{
			BaseURL: baseURL,
		}), nil

	case configuration.ImageBackendS3:
		awsConfig := &awsconfig.Config{
			Endpoint:        config.AwsEndpointUrl,
			Region:          config.AwsRegion,
			AccessKeyID:     config.AwsAccessKeyId,
			SecretAccessKey: config.AwsSecretAccessKey,
		}

		retrier.Retry(func() error {
			if err = awsConfig.Load(); err != nil {
				slog.Error("failed to load AWS config. trying again", "error", err)
				return err
			}

			return nil
		})

		if err != nil {
			return nil, err
		}

		s3Client, err := s3.NewClient(awsConfig)

		if err != nil {
			return nil, err
		}

		return services.NewS3ImageFetcher(services.S3ImageFetcherConfig{
			Bucket:   config.AwsBucket,
			Prefix:   config.AwsPrefix,
			S3Client: s3Client,
		}), nil
	}

	return services.NewDirectoryImageFetcher(services.DirectoryImageFetcherConfig{
		Root: os.DirFS(config.ImageRoot),
	}), nil
}

func setupThumbnailCreator(quit chan os.Signal) {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		running := &atomic.Bool{}

		runner := func() {
			thumbnailService.CreateCache()
			slog.Info("thumbnail creator finished.")
		}

		runExclusive(running, runner)

		for {
			select {
			case <-quit:
				ticker.Stop()
				return

			case <-ticker.C:
				if !runExclusive(running, runner) {
					slog.Info("thumbnail creator already running. skipping...")
				}
			}
		}
	}()
}

/*
runExclusive starts job in the background unless a previous run is still
going. It reports whether the job was started.
*/
func runExclusive(running *atomic.Bool, job func()) bool {
	if !running.CompareAndSwap(false, true) {
		return false
	}

	go func() {
		defer running.Store(false)
		job()
	}()

	return true
}
