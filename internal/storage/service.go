// Package storage provides S3-compatible object storage for card photos
// and other lead attachments.
package storage

import (
	"context"
	"io"
	"time"
)

// PresignedURL contains the URL and metadata for a presigned download.
type PresignedURL struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ObjectStore defines the object storage operations the modules need.
type ObjectStore interface {
	// UploadCardImage stores a scanned card photo and returns its file key.
	UploadCardImage(ctx context.Context, data []byte, contentType string) (string, error)

	// GenerateDownloadURL creates a short-lived presigned URL for a stored object.
	GenerateDownloadURL(ctx context.Context, fileKey string) (*PresignedURL, error)

	// DownloadObject streams a stored object. The caller closes the reader.
	DownloadObject(ctx context.Context, fileKey string) (io.ReadCloser, error)

	// DeleteObject removes a stored object.
	DeleteObject(ctx context.Context, fileKey string) error

	// EnsureBucketExists creates the configured bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context) error
}
