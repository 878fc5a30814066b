package services

import (
	"context"
	"io"
	"mime"
	"path/filepath"

	"github.com/poojapi/ullekhanam/internal/domain"
	"github.com/poojapi/ullekhanam/internal/filestore"
	"github.com/poojapi/ullekhanam/internal/pkg/logger"
)

// FileService exposes the files stored under an entity's directory.
type FileService interface {
	List(ctx context.Context, e *domain.Entity, pattern string) ([]string, error)
	// Open returns the file contents and a best-effort content type.
	Open(ctx context.Context, e *domain.Entity, name string) (io.ReadCloser, string, error)
}

type fileService struct {
	files filestore.Store
	log   *logger.Logger
}

func NewFileService(files filestore.Store, log *logger.Logger) FileService {
	return &fileService{files: files, log: log.With("service", "FileService")}
}

func (s *fileService) List(ctx context.Context, e *domain.Entity, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}
	return s.files.List(ctx, PathFor(e), pattern)
}

func (s *fileService) Open(ctx context.Context, e *domain.Entity, name string) (io.ReadCloser, string, error) {
	name = SanitizeFilename(name)
	rc, err := s.files.Open(ctx, PathFor(e)+"/"+name)
	if err != nil {
		return nil, "", err
	}
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return rc, contentType, nil
}
