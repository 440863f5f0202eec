package storage

import (
	"fmt"

	appaccounting "github.com/azalscore/backend/internal/application/accounting"
	infraconfig "github.com/azalscore/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewObjectStorage creates a storage driver from configuration
func NewObjectStorage(cfg infraconfig.StorageConfig, logger *zap.Logger) (appaccounting.ObjectStorage, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3Storage(cfg, logger)
	case "local", "":
		return NewLocalStorage(cfg.LocalPath)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}
