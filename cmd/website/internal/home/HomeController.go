package home

import (
	"errors"
	"html/template"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/slices"
	"github.com/adampresley/digitalpaintings/cmd/website/internal/cache"
	"github.com/adampresley/digitalpaintings/cmd/website/internal/configuration"
	"github.com/adampresley/digitalpaintings/cmd/website/internal/gallery"
	"github.com/adampresley/digitalpaintings/cmd/website/internal/viewer"
	"github.com/adampresley/digitalpaintings/cmd/website/internal/viewmodels"
	"github.com/adampresley/digitalpaintings/pkg/models"
	"github.com/adampresley/digitalpaintings/pkg/services"
)

type HomeHandlers interface {
	HomePage(w http.ResponseWriter, r *http.Request)
	GalleryFragment(w http.ResponseWriter, r *http.Request)
	ViewerFragment(w http.ResponseWriter, r *http.Request)
	Painting(w http.ResponseWriter, r *http.Request)
	ThumbnailImage(w http.ResponseWriter, r *http.Request)
}

type HomeControllerConfig struct {
	Catalog         []models.ImageDescriptor
	Config          *configuration.Config
	Fetcher         services.ImageFetcher
	GalleryRenderer gallery.Renderer
	Loader          services.Loader
	MetadataService services.MetadataPublisher
	Renderer        rendering.TemplateRenderer
	ThumbnailCache  cache.ThumbnailCache
	Viewer          viewer.Viewer
}

type HomeController struct {
	catalog         []models.ImageDescriptor
	fetcher         services.ImageFetcher
	galleryRenderer gallery.Renderer
	loader          services.Loader
	metadataService services.MetadataPublisher
	publicURL       string
	trustProxy      bool
	renderer        rendering.TemplateRenderer
	sources         []string
	thumbnailCache  cache.ThumbnailCache
	viewer          viewer.Viewer
}

func NewHomeController(config HomeControllerConfig) HomeController {
	publicURL := ""
	trustProxy := false

	if config.Config != nil {
		publicURL = config.Config.PublicURL
		trustProxy = config.Config.TrustProxyHeaders
	}

	return HomeController{
		catalog:         config.Catalog,
		fetcher:         config.Fetcher,
		galleryRenderer: config.GalleryRenderer,
		loader:          config.Loader,
		metadataService: config.MetadataService,
		publicURL:       publicURL,
		trustProxy:      trustProxy,
		renderer:        config.Renderer,
		sources: slices.Map(config.Catalog, func(input models.ImageDescriptor, index int) string {
			return path.Clean(input.Source)
		}),
		thumbnailCache: config.ThumbnailCache,
		viewer:         config.Viewer,
	}
}

/*
GET /
*/
func (c HomeController) HomePage(w http.ResponseWriter, r *http.Request) {
	pageName := "pages/home"
	viewData := c.homePageViewModel(r)

	c.renderer.Render(pageName, viewData, w)
}

/*
homePageViewModel publishes the sharing metadata and the loading indicator.
Images are not touched here; the page asks for /gallery once it is up.
*/
func (c HomeController) homePageViewModel(r *http.Request) viewmodels.HomePage {
	var (
		err     error
		pageURL *url.URL
		loading strings.Builder
	)

	viewData := viewmodels.HomePage{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx: httphelpers.IsHtmx(r),
			JavascriptIncludes: []rendering.JavascriptInclude{
				{Type: "module", Src: "/static/js/gallery.js"},
			},
		},
		SiteTitle: models.DefaultSiteTitle,
		Meta:      models.DefaultSharingMetadata(),
	}

	if pageURL, err = services.PageURL(r, c.publicURL, c.trustProxy); err != nil {
		slog.Error("error building page URL", "error", err, "publicURL", c.publicURL)
	} else if viewData.Meta, err = c.metadataService.Publish(pageURL, c.catalog); err != nil {
		slog.Error("error publishing sharing metadata", "error", err, "pageURL", pageURL.String())
	}

	if err = c.galleryRenderer.RenderLoading(&loading); err != nil {
		slog.Error("error rendering loading indicator", "error", err)
	}

	viewData.LoadingIndicator = template.HTML(loading.String())
	return viewData
}

/*
GET /gallery
*/
func (c HomeController) GalleryFragment(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		loaded []models.LoadedImage
		markup strings.Builder
	)

	if loaded, err = c.loader.Load(r.Context(), c.catalog); err != nil {
		slog.Error("error loading gallery images", "error", err)
		c.galleryError(w)
		return
	}

	cards := c.galleryRenderer.Cards(loaded, c.thumbnailCache)

	if err = c.galleryRenderer.RenderGallery(&markup, cards); err != nil {
		slog.Error("error rendering gallery", "error", err)
		c.galleryError(w)
		return
	}

	httphelpers.WriteHtml(w, http.StatusOK, markup.String())
}

/*
galleryError replaces the gallery with the error message. It answers 200 so
htmx swaps it into the page.
*/
func (c HomeController) galleryError(w http.ResponseWriter) {
	markup := strings.Builder{}

	if err := c.galleryRenderer.RenderError(&markup); err != nil {
		slog.Error("error rendering gallery error message", "error", err)
		httphelpers.TextInternalServerError(w, "Error loading images. Please refresh the page.")
		return
	}

	httphelpers.WriteHtml(w, http.StatusOK, markup.String())
}

/*
GET /viewer/{index}
*/
func (c HomeController) ViewerFragment(w http.ResponseWriter, r *http.Request) {
	var (
		err     error
		index   int
		overlay viewer.Overlay
		markup  strings.Builder
	)

	if index, err = indexFromRequest(r); err != nil {
		httphelpers.WriteText(w, http.StatusBadRequest, "invalid image index")
		return
	}

	if overlay, err = c.viewer.Open(index); err != nil {
		if errors.Is(err, models.ErrNoSuchImage) {
			httphelpers.WriteText(w, http.StatusNotFound, "image not found")
			return
		}

		slog.Error("error opening viewer", "error", err, "index", index)
		httphelpers.TextInternalServerError(w, "Error opening image")
		return
	}

	if err = c.viewer.RenderOverlay(&markup, overlay); err != nil {
		slog.Error("error rendering viewer", "error", err, "index", index)
		httphelpers.TextInternalServerError(w, "Error opening image")
		return
	}

	httphelpers.WriteHtml(w, http.StatusOK, markup.String())
}

/*
GET /paintings/{file...}
*/
func (c HomeController) Painting(w http.ResponseWriter, r *http.Request) {
	var (
		err  error
		body io.ReadCloser
	)

	source := path.Join("paintings", httphelpers.GetFromRequest[string](r, "file"))

	/*
	 * Only paintings in the catalog are served, whatever else lives
	 * next to them in the backend.
	 */
	if !slices.IsInSlice(source, c.sources) {
		httphelpers.WriteText(w, http.StatusNotFound, "painting not found")
		return
	}

	if body, err = c.fetcher.Open(r.Context(), source); err != nil {
		if errors.Is(err, models.ErrImageNotFound) {
			slog.Warn("catalog painting is missing from the image backend", "source", source)
			httphelpers.WriteText(w, http.StatusNotFound, "painting not found")
			return
		}

		slog.Error("error opening painting", "error", err, "source", source)
		httphelpers.TextInternalServerError(w, "Failed to load painting")
		return
	}

	defer body.Close()

	if contentType := mime.TypeByExtension(path.Ext(source)); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")

	if _, err = io.Copy(w, body); err != nil {
		slog.Error("error streaming painting", "error", err, "source", source)
	}
}

/*
GET /thumbnails/{index}
*/
func (c HomeController) ThumbnailImage(w http.ResponseWriter, r *http.Request) {
	index, err := indexFromRequest(r)

	if err != nil {
		httphelpers.WriteText(w, http.StatusBadRequest, "invalid image index")
		return
	}

	thumbnail, ok := c.thumbnailCache.Thumbnail(index)

	if !ok {
		httphelpers.WriteText(w, http.StatusNotFound, "thumbnail not found")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(thumbnail)))
	w.Header().Set("Cache-Control", "public, max-age=3600")

	_, _ = w.Write(thumbnail)
}

func indexFromRequest(r *http.Request) (int, error) {
	return strconv.Atoi(httphelpers.GetFromRequest[string](r, "index"))
}
