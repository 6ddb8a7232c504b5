package minio

import (
	"context"
	"fmt"
	"time"

	"station-alert-srv/config"
	miniopkg "station-alert-srv/pkg/minio"
)

const (
	defaultConnectTimeout = 5 * time.Second
	defaultMaxRetries     = 3
)

// ConnectWithRetry builds the archive client and waits for the bucket,
// retrying with exponential backoff.
func ConnectWithRetry(ctx context.Context, cfg config.MinIOConfig, maxRetries int) (miniopkg.MinIO, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	client, err := miniopkg.New(miniopkg.Config{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		UseSSL:    cfg.UseSSL,
		Region:    cfg.Region,
		Bucket:    cfg.Bucket,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		connectCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
		lastErr = client.Connect(connectCtx)
		cancel()
		if lastErr == nil {
			return client, nil
		}
		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(1<<uint(i)) * time.Second):
			}
		}
	}
	return nil, fmt.Errorf("failed to connect to MinIO after %d retries: %w", maxRetries, lastErr)
}
