package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/adampresley/digitalpaintings/pkg/models"
)

/*
ImageFetcher opens the bytes of an image source. Sources are paths relative
to the gallery page, such as "paintings/cave-1.png".
*/
type ImageFetcher interface {
	Open(ctx context.Context, source string) (io.ReadCloser, error)
}

type DirectoryImageFetcherConfig struct {
	Root fs.FS
}

// DirectoryImageFetcher reads sources from a directory tree.
type DirectoryImageFetcher struct {
	root fs.FS
}

func NewDirectoryImageFetcher(config DirectoryImageFetcherConfig) DirectoryImageFetcher {
	return DirectoryImageFetcher{
		root: config.Root,
	}
}

func (f DirectoryImageFetcher) Open(ctx context.Context, source string) (io.ReadCloser, error) {
	var (
		err  error
		file fs.File
		stat fs.FileInfo
	)

	name := cleanSource(source)

	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("%w: '%s'", models.ErrImageNotFound, source)
	}

	if file, err = f.root.Open(name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: '%s'", models.ErrImageNotFound, source)
		}

		return nil, fmt.Errorf("error opening image '%s': %w", source, err)
	}

	if stat, err = file.Stat(); err == nil && stat.IsDir() {
		_ = file.Close()
		return nil, fmt.Errorf("%w: '%s' is a directory", models.ErrImageNotFound, source)
	}

	return file, nil
}

type HttpImageFetcherConfig struct {
	BaseURL    *url.URL
	HttpClient *http.Client
}

// HttpImageFetcher resolves sources against a base URL and downloads them.
type HttpImageFetcher struct {
	baseURL    *url.URL
	httpClient *http.Client
}

func NewHttpImageFetcher(config HttpImageFetcherConfig) HttpImageFetcher {
	client := config.HttpClient

	if client == nil {
		client = http.DefaultClient
	}

	return HttpImageFetcher{
		baseURL:    config.BaseURL,
		httpClient: client,
	}
}

func (f HttpImageFetcher) Open(ctx context.Context, source string) (io.ReadCloser, error) {
	var (
		err      error
		ref      *url.URL
		request  *http.Request
		response *http.Response
	)

	if ref, err = url.Parse(source); err != nil {
		return nil, fmt.Errorf("error parsing image source '%s': %w", source, err)
	}

	u := f.baseURL.ResolveReference(ref).String()

	if request, err = http.NewRequestWithContext(ctx, http.MethodGet, u, nil); err != nil {
		return nil, fmt.Errorf("error building request for '%s': %w", u, err)
	}

	if response, err = f.httpClient.Do(request); err != nil {
		return nil, fmt.Errorf("error downloading image from '%s': %w", u, err)
	}

	if response.StatusCode == http.StatusNotFound {
		_ = response.Body.Close()
		return nil, fmt.Errorf("%w: '%s'", models.ErrImageNotFound, u)
	}

	if response.StatusCode != http.StatusOK {
		_ = response.Body.Close()
		return nil, fmt.Errorf("error downloading image from '%s', status: %s", u, response.Status)
	}

	return response.Body, nil
}

func cleanSource(source string) string {
	return path.Clean(strings.TrimPrefix(source, "/"))
}
