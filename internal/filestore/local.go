package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/poojapi/ullekhanam/internal/pkg/logger"
)

// localStore keeps entity files on the local filesystem under a root
// directory, one subdirectory per entity.
type localStore struct {
	root string
	log  *logger.Logger
}

func NewLocal(root string, log *logger.Logger) (Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("local file store root required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create file store root: %w", err)
	}
	return &localStore{root: root, log: log.With("service", "filestore.Local")}, nil
}

func (s *localStore) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	full := filepath.Join(s.root, clean)
	if !strings.HasPrefix(full, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("key %q escapes store root", key)
	}
	return full, nil
}

func (s *localStore) Save(ctx context.Context, key string, r io.Reader) error {
	full, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create dir for %q: %w", key, err)
	}
	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("create %q: %w", key, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %q: %w", key, err)
	}
	return f.Close()
}

func (s *localStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	full, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *localStore) List(ctx context.Context, prefix string, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}
	dir, err := s.path(prefix)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", prefix, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ok, err := filepath.Match(pattern, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if ok {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func (s *localStore) DeletePrefix(ctx context.Context, prefix string) error {
	dir, err := s.path(prefix)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}
