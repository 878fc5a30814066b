package gcp

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/poojapi/ullekhanam/internal/filestore"
	"github.com/poojapi/ullekhanam/internal/pkg/ctxutil"
	"github.com/poojapi/ullekhanam/internal/pkg/logger"
)

// bucketStore implements filestore.Store on a GCS bucket.
type bucketStore struct {
	log    *logger.Logger
	client *storage.Client
	bucket string
}

func NewBucketStore(log *logger.Logger, bucketName string) (filestore.Store, error) {
	serviceLog := log.With("service", "gcp.BucketStore")
	if strings.TrimSpace(bucketName) == "" {
		return nil, fmt.Errorf("bucket name required")
	}

	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	if os.Getenv("STORAGE_EMULATOR_HOST") != "" {
		opts = []option.ClientOption{option.WithoutAuthentication()}
	}
	client, err := storage.NewClient(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &bucketStore{log: serviceLog, client: client, bucket: bucketName}, nil
}

func (s *bucketStore) Save(ctx context.Context, key string, r io.Reader) error {
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

// readCloserWithCancel keeps the read context alive until the caller
// closes the reader. Cancelling before return would abort every
// subsequent Read with context canceled.
type readCloserWithCancel struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *readCloserWithCancel) Close() error {
	err := r.ReadCloser.Close()
	if r.cancel != nil {
		r.cancel()
	}
	return err
}

func (s *bucketStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), 2*time.Minute)

	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	return &readCloserWithCancel{ReadCloser: r, cancel: cancel}, nil
}

func (s *bucketStore) List(ctx context.Context, prefix string, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), time.Minute)
	defer cancel()

	p := strings.TrimSuffix(prefix, "/") + "/"
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: p})
	var names []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list %q: %w", prefix, err)
		}
		name := path.Base(attrs.Name)
		ok, err := path.Match(pattern, name)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if ok {
			names = append(names, name)
		}
	}
	return names, nil
}

func (s *bucketStore) DeletePrefix(ctx context.Context, prefix string) error {
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), 2*time.Minute)
	defer cancel()

	p := strings.TrimSuffix(prefix, "/") + "/"
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: p})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("list %q for delete: %w", prefix, err)
		}
		if err := s.client.Bucket(s.bucket).Object(attrs.Name).Delete(ctx); err != nil {
			s.log.Warn("failed to delete object (ignored)", "object", attrs.Name, "error", err)
		}
	}
	return nil
}
