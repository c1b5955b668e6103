package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// ProductKeyPrefix is the key namespace for product images.
const ProductKeyPrefix = "products"

// Storage defines the interface for blob storage operations.
type Storage interface {
	// Upload stores a file and returns the result with key and URL.
	Upload(ctx context.Context, input *UploadInput) (*UploadResult, error)

	// Delete removes a file by its key.
	Delete(ctx context.Context, key string) error

	// List returns the keys of all stored files under the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// GetURL returns the public URL for the given key.
	GetURL(ctx context.Context, key string) (string, error)
}

// UploadInput holds the parameters for uploading a file.
type UploadInput struct {
	Key         string
	ContentType string
	Size        int64
	Data        io.Reader
}

// UploadResult holds the result of a successful upload.
type UploadResult struct {
	Key string
	URL string
}

// NewProductImageKey generates a unique storage key for a product image.
// Keys are namespaced by product and owner so stale blobs can be traced
// back to their product.
func NewProductImageKey(productID, ownerID string) string {
	return fmt.Sprintf("%s/%s/%s/%s", ProductKeyPrefix, productID, ownerID, uuid.New().String())
}
