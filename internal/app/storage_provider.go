package app

import (
	"fmt"
	"strings"

	"github.com/poojapi/ullekhanam/internal/clients/gcp"
	"github.com/poojapi/ullekhanam/internal/filestore"
	"github.com/poojapi/ullekhanam/internal/pkg/logger"
)

const (
	FileStorageModeLocal = "local"
	FileStorageModeGCS   = "gcs"
)

// resolveFileStore selects the page-file backend by configured mode.
// The local store is the default; GCS needs GCS_BUCKET set.
func resolveFileStore(log *logger.Logger, cfg Config) (filestore.Store, error) {
	mode := strings.TrimSpace(strings.ToLower(cfg.FileStorageMode))
	if mode == "" {
		mode = FileStorageModeLocal
	}
	log.Info("Selecting file storage provider", "mode", mode)

	switch mode {
	case FileStorageModeLocal:
		return filestore.NewLocal(cfg.BooksPath, log)
	case FileStorageModeGCS:
		if cfg.GCSBucket == "" {
			return nil, fmt.Errorf("file storage mode %q requires GCS_BUCKET", mode)
		}
		return gcp.NewBucketStore(log, cfg.GCSBucket)
	default:
		return nil, fmt.Errorf("unsupported file storage mode %q", mode)
	}
}
