package configuration

import "github.com/adampresley/configinator"

const (
	ImageBackendFilesystem = "filesystem"
	ImageBackendHttp       = "http"
	ImageBackendS3         = "s3"
)

type Config struct {
	AwsEndpointUrl     string `flag:"awsep" env:"AWS_ENDPOINT_URL" default:"http://localhost:4566" description:"AWS endpoint URL"`
	AwsRegion          string `flag:"awsregion" env:"AWS_REGION" default:"us-central-1" description:"AWS region"`
	AwsAccessKeyId     string `flag:"awsaccesskeyid" env:"AWS_ACCESS_KEY_ID" default:"" description:"AWS access key ID"`
	AwsSecretAccessKey string `flag:"awssecretaccesskey" env:"AWS_SECRET_ACCESS_KEY" default:"" description:"AWS secret access key"`
	AwsBucket          string `flag:"awsbucket" env:"AWS_BUCKET" default:"digitalpaintings" description:"S3 bucket"`
	AwsPrefix          string `flag:"awsprefix" env:"AWS_PREFIX" default:"" description:"Key prefix for paintings in the S3 bucket"`
	Host               string `flag:"host" env:"HOST" default:"localhost:8081" description:"The address and port to bind the HTTP server to"`
	ImageBackend       string `flag:"imagebackend" env:"IMAGE_BACKEND" default:"filesystem" description:"Where paintings are read from. Valid values are 'filesystem', 'http', and 's3'"`
	ImageBaseURL       string `flag:"imagebaseurl" env:"IMAGE_BASE_URL" default:"" description:"Base URL paintings are downloaded from when the image backend is 'http'"`
	ImageRoot          string `flag:"imageroot" env:"IMAGE_ROOT" default:"./www" description:"Directory paintings are read from when the image backend is 'filesystem'"`
	LogLevel           string `flag:"loglevel" env:"LOG_LEVEL" default:"debug" description:"The log level to use. Valid values are 'debug', 'info', 'warn', and 'error'"`
	MaxCacheWorkers    int    `flag:"mcc" env:"MAX_CACHE_WORKERS" default:"4" description:"Maximum number of concurrent thumbnail workers"`
	PublicURL          string `flag:"publicurl" env:"PUBLIC_URL" default:"" description:"Public origin of the site, used for sharing links. Derived from the request when empty"`
	ThumbnailSize      int    `flag:"thumbnailsize" env:"THUMBNAIL_SIZE" default:"600" description:"Longest edge of card thumbnails, in pixels"`
	TrustProxyHeaders  bool   `flag:"trustproxyheaders" env:"TRUST_PROXY_HEADERS" default:"false" description:"Build sharing links from X-Forwarded-Proto and X-Forwarded-Host. Only enable behind a proxy that sets them"`
}

func LoadConfig() Config {
	config := Config{}
	configinator.Behold(&config)
	return config
}
