package app

import (
	"github.com/poojapi/ullekhanam/internal/pkg/logger"
	"github.com/poojapi/ullekhanam/internal/utils"
)

type Config struct {
	JWTSecretKey string

	// "local" or "gcs"
	FileStorageMode string
	BooksPath       string
	GCSBucket       string

	// "nop" or "gcp_vision"
	RegionDetector string

	// In-memory budget for multipart book uploads, in MiB.
	UploadMaxMB int
	AutoMigrate bool
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		JWTSecretKey:    utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		FileStorageMode: utils.GetEnv("FILE_STORAGE_MODE", "local", log),
		BooksPath:       utils.GetEnv("BOOKS_PATH", "data/books", log),
		GCSBucket:       utils.GetEnv("GCS_BUCKET", "", log),
		RegionDetector:  utils.GetEnv("REGION_DETECTOR", "nop", log),
		UploadMaxMB:     utils.GetEnvAsInt("UPLOAD_MAX_MB", 32, log),
		AutoMigrate:     utils.GetEnvAsBool("STORE_AUTO_MIGRATE", true, log),
	}
}
