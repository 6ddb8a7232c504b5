package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
)

func (m *implMinIO) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	exists, err := m.minioClient.BucketExists(ctx, m.config.Bucket)
	if err != nil {
		m.connected = false
		return handleMinIOError(err, "connect")
	}
	if !exists {
		if err := m.minioClient.MakeBucket(ctx, m.config.Bucket, minio.MakeBucketOptions{Region: m.config.Region}); err != nil {
			m.connected = false
			return handleMinIOError(err, "create_bucket")
		}
	}

	m.connected = true
	return nil
}

func (m *implMinIO) HealthCheck(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.connected {
		return NewConnectionError(errors.New("not connected"))
	}
	if _, err := m.minioClient.BucketExists(ctx, m.config.Bucket); err != nil {
		return handleMinIOError(err, "health_check")
	}
	return nil
}

func (m *implMinIO) Bucket() string {
	return m.config.Bucket
}

// Close marks the client disconnected. The underlying pool needs no shutdown.
func (m *implMinIO) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	return nil
}

func (m *implMinIO) PutObject(ctx context.Context, key string, r io.Reader, size int64, contentType string) (ObjectInfo, error) {
	if key == "" || strings.HasPrefix(key, "/") {
		return ObjectInfo{}, NewInvalidInputError(fmt.Sprintf("invalid object key %q", key))
	}
	if r == nil {
		return ObjectInfo{}, NewInvalidInputError("reader is required")
	}

	info, err := m.minioClient.PutObject(ctx, m.config.Bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return ObjectInfo{}, handleMinIOError(err, "put_object")
	}

	return ObjectInfo{
		Bucket:       info.Bucket,
		Key:          info.Key,
		Size:         info.Size,
		ETag:         info.ETag,
		LastModified: info.LastModified,
	}, nil
}

// handleMinIOError converts minio-go errors to StorageError.
func handleMinIOError(err error, operation string) *StorageError {
	if err == nil {
		return nil
	}

	var minioErr minio.ErrorResponse
	if errors.As(err, &minioErr) {
		switch minioErr.Code {
		case "NoSuchBucket":
			return NewBucketNotFoundError(minioErr.BucketName)
		case "NoSuchKey":
			return NewObjectNotFoundError(minioErr.Key)
		case "AccessDenied":
			return &StorageError{Code: ErrCodePermission, Message: "Access denied", Operation: operation, Cause: err}
		default:
			return &StorageError{
				Code:      ErrCodeConnection,
				Message:   fmt.Sprintf("MinIO operation failed: %s", minioErr.Code),
				Operation: operation,
				Cause:     err,
			}
		}
	}

	se := NewConnectionError(err)
	se.Operation = operation
	return se
}
