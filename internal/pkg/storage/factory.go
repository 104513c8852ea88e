package storage

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/config"
)

// NewFromConfig returns the configured storage and, for local storage, the
// directory holding its files.
func NewFromConfig(ctx context.Context, cfg config.StorageConfig) (FileStorage, string, error) {
	switch cfg.Type {
	case config.StorageLocal:
		fileStorage, err := NewLocalStorage(cfg.BasePath, cfg.BaseURL)
		if err != nil {
			return nil, "", fmt.Errorf("failed to initialize local storage: %w", err)
		}
		return fileStorage, fileStorage.basePath, nil
	case config.StorageS3:
		fileStorage, err := NewS3Storage(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Prefix:    cfg.S3Prefix,
		})
		if err != nil {
			return nil, "", fmt.Errorf("failed to initialize s3 storage: %w", err)
		}
		return fileStorage, "", nil
	}
	return nil, "", fmt.Errorf("unsupported storage type: %s", cfg.Type)
}
