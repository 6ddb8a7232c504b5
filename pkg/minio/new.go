package minio

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	maxIdleConns        = 100
	maxIdleConnsPerHost = 100
	idleConnTimeout     = 90 * time.Second
	defaultPort         = ":9000"
)

// MinIO is the subset of object storage the service needs: one bucket,
// write-only objects.
type MinIO interface {
	// Connect verifies credentials and makes sure the configured bucket exists.
	Connect(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	PutObject(ctx context.Context, key string, r io.Reader, size int64, contentType string) (ObjectInfo, error)
	Bucket() string
	Close() error
}

type implMinIO struct {
	minioClient *minio.Client
	config      Config
	mu          sync.RWMutex
	connected   bool
}

func validateConfig(cfg *Config) error {
	switch {
	case cfg.Endpoint == "":
		return NewInvalidInputError("endpoint is required")
	case cfg.AccessKey == "":
		return NewInvalidInputError("access key is required")
	case cfg.SecretKey == "":
		return NewInvalidInputError("secret key is required")
	case cfg.Bucket == "":
		return NewInvalidInputError("bucket is required")
	}
	if !strings.Contains(cfg.Endpoint, ":") {
		cfg.Endpoint += defaultPort
	}
	return nil
}

// New builds a client. Call Connect before use.
func New(cfg Config) (MinIO, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
		Transport: &http.Transport{
			MaxIdleConns:        maxIdleConns,
			MaxIdleConnsPerHost: maxIdleConnsPerHost,
			IdleConnTimeout:     idleConnTimeout,
		},
	})
	if err != nil {
		return nil, NewConnectionError(err)
	}

	return &implMinIO{minioClient: client, config: cfg}, nil
}
