package blob

import (
	"context"
	"fmt"

	"nanoeln/internal/infra/blob/fs"
	memorystore "nanoeln/internal/infra/blob/memory"
	miniostore "nanoeln/internal/infra/blob/minio"
	s3store "nanoeln/internal/infra/blob/s3"
)

// S3Config configures the s3 driver.
type S3Config = s3store.Config

// MinIOConfig configures the minio driver.
type MinIOConfig = miniostore.Config

// Config selects and configures a blob driver.
type Config struct {
	Driver Driver
	// Root is the directory used by the fs driver.
	Root  string
	S3    S3Config
	MinIO MinIOConfig
}

// Open constructs the Store named by cfg.Driver (default fs).
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverFilesystem
	}
	switch driver {
	case DriverFilesystem:
		return NewFilesystem(cfg.Root)
	case DriverS3:
		return s3store.New(ctx, cfg.S3)
	case DriverMinIO:
		return miniostore.New(ctx, cfg.MinIO)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %q", driver)
	}
}

// NewFilesystem constructs a filesystem-backed Store rooted at root.
func NewFilesystem(root string) (Store, error) {
	return fs.New(root)
}

// NewMemory returns an in-memory Store suitable for tests.
func NewMemory() Store { return memorystore.New() }
