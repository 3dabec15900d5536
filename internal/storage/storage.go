package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage defines the interface for photo object storage
type Storage interface {
	// Save stores an object at the given path
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error

	// Get retrieves an object from the given path
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes an object at the given path
	Delete(ctx context.Context, path string) error

	// Exists checks if an object exists at the given path
	Exists(ctx context.Context, path string) (bool, error)

	// GetURL returns a publicly resolvable URL for the object
	GetURL(ctx context.Context, path string) (string, error)

	// GetSize returns the size of an object in bytes
	GetSize(ctx context.Context, path string) (int64, error)
}

// Config holds storage configuration
type Config struct {
	Type       string // local, s3, cloudflare_r2
	BasePath   string // For local storage
	BaseURL    string // Public URL base
	Bucket     string // For S3/R2
	Region     string // For S3
	AccessKey  string // For S3/R2
	SecretKey  string // For S3/R2
	Endpoint   string // For R2 or custom S3
	PublicRead bool   // Make objects public
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg)
	case "s3", "cloudflare_r2":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
