package filestore

import (
	"context"
	"io"
)

// Store persists the files attached to an entity (page images and their
// derived variants). Keys are "<entity-id>/<filename>".
type Store interface {
	Save(ctx context.Context, key string, r io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// List returns the file names under prefix whose base name matches
	// the glob pattern.
	List(ctx context.Context, prefix string, pattern string) ([]string, error)
	DeletePrefix(ctx context.Context, prefix string) error
}
