package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/s3/getoptions"
	"github.com/adampresley/digitalpaintings/pkg/models"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3ImageFetcherConfig struct {
	Bucket   string
	Prefix   string
	S3Client s3.S3Client
}

// S3ImageFetcher reads sources from a bucket, under an optional key prefix.
type S3ImageFetcher struct {
	bucket   string
	prefix   string
	s3Client s3.S3Client
}

func NewS3ImageFetcher(config S3ImageFetcherConfig) S3ImageFetcher {
	return S3ImageFetcher{
		bucket:   config.Bucket,
		prefix:   config.Prefix,
		s3Client: config.S3Client,
	}
}

func (f S3ImageFetcher) Open(ctx context.Context, source string) (io.ReadCloser, error) {
	var (
		err    error
		object s3.GetObjectResponse
	)

	key := path.Join(f.prefix, cleanSource(source))

	object, err = f.s3Client.Get(
		f.bucket,
		key,
		getoptions.WithContext(ctx),
	)

	if err != nil {
		var noSuchKey *types.NoSuchKey

		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: '%s'", models.ErrImageNotFound, key)
		}

		return nil, fmt.Errorf("error retrieving image '%s' from bucket '%s': %w", key, f.bucket, err)
	}

	return object.Body, nil
}
