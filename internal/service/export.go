package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pageza/recipe-buddy/backend/internal/types"
)

// ExportURLExpiry is how long a presigned export link stays valid.
const ExportURLExpiry = 15 * time.Minute

// ObjectStorage is the subset of the S3 configuration used for exports.
type ObjectStorage interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
	GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error)
}

// S3Exporter writes suggestions as JSON objects and hands out presigned links.
type S3Exporter struct {
	storage ObjectStorage
	expiry  time.Duration
}

// NewS3Exporter creates an exporter on top of storage.
func NewS3Exporter(storage ObjectStorage) *S3Exporter {
	return &S3Exporter{storage: storage, expiry: ExportURLExpiry}
}

func exportKey(username string, s *types.Suggestion) string {
	return fmt.Sprintf("exports/%s/%s.json", username, s.ID)
}

// Export uploads s and returns a presigned GET URL for it.
func (e *S3Exporter) Export(ctx context.Context, username string, s *types.Suggestion) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal suggestion: %w", err)
	}

	key := exportKey(username, s)
	if err := e.storage.PutObject(ctx, key, data, "application/json"); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	url, err := e.storage.GeneratePresignedURL(ctx, key, e.expiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return url, nil
}
