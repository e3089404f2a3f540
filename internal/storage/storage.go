package storage

import (
	"context"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// PhotoStorage defines the object storage operations the challenge
// check-in flow needs. Photos never pass through the API server: clients
// upload and download directly against presigned URLs.
type PhotoStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows a PUT
	// request uploading the photo directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows a GET
	// request viewing the photo directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes a photo from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}
