package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/poojapi/ullekhanam/internal/data/repos/testutil"
	"github.com/poojapi/ullekhanam/internal/domain"
	"github.com/poojapi/ullekhanam/internal/inference"
	"github.com/poojapi/ullekhanam/internal/pkg/dbctx"
	apperr "github.com/poojapi/ullekhanam/internal/pkg/errors"
	"github.com/poojapi/ullekhanam/internal/pkg/logger"
)

func testLogger(tb testing.TB) *logger.Logger {
	return testutil.Logger(tb)
}

func testDBC() dbctx.Context {
	return dbctx.Context{Ctx: context.Background()}
}

// memRepo is an in-memory EntityRepo with insertion-ordered targetter
// listings, used to test service behavior without a database.
type memRepo struct {
	mu       sync.Mutex
	order    []uuid.UUID
	entities map[uuid.UUID]*domain.Entity
	deleted  map[uuid.UUID]bool
}

func newMemRepo() *memRepo {
	return &memRepo{
		entities: make(map[uuid.UUID]*domain.Entity),
		deleted:  make(map[uuid.UUID]bool),
	}
}

func cloneEntity(e *domain.Entity) *domain.Entity {
	c := *e
	c.Targets = append([]domain.Target(nil), e.Targets...)
	if e.Source != nil {
		src := *e.Source
		c.Source = &src
	}
	return &c
}

func (r *memRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entities[id]
	if !ok || r.deleted[id] {
		return nil, apperr.ErrNotFound
	}
	return cloneEntity(e), nil
}

func (r *memRepo) Upsert(dbc dbctx.Context, e *domain.Entity) (*domain.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
		r.order = append(r.order, e.ID)
	} else if _, ok := r.entities[e.ID]; !ok {
		r.order = append(r.order, e.ID)
	}
	for i := range e.Targets {
		e.Targets[i].EntityID = e.ID
		e.Targets[i].Ordinal = i
	}
	r.entities[e.ID] = cloneEntity(e)
	delete(r.deleted, e.ID)
	return cloneEntity(e), nil
}

func (r *memRepo) SoftDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		r.deleted[id] = true
	}
	return nil
}

func (r *memRepo) FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.entities, id)
		delete(r.deleted, id)
	}
	return nil
}

func (r *memRepo) GetTargetters(dbc dbctx.Context, containerID uuid.UUID, entityType string) ([]*domain.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var results []*domain.Entity
	for _, id := range r.order {
		e, ok := r.entities[id]
		if !ok || r.deleted[id] {
			continue
		}
		if entityType != "" && e.EntityType != entityType {
			continue
		}
		for i := range e.Targets {
			if e.Targets[i].ContainerID == containerID {
				results = append(results, cloneEntity(e))
				break
			}
		}
	}
	return results, nil
}

func (r *memRepo) ListBooks(dbc dbctx.Context) ([]*domain.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var results []*domain.Entity
	for _, id := range r.order {
		e, ok := r.entities[id]
		if !ok || r.deleted[id] {
			continue
		}
		if e.EntityType == domain.EntityTypeBookPortion && e.PortionClass == domain.PortionClassBook {
			results = append(results, cloneEntity(e))
		}
	}
	return results, nil
}

func (r *memRepo) live(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entities[id]
	return ok && !r.deleted[id]
}

// memStore is an in-memory filestore with optional fault injection on
// a key substring.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	failOn  string
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (s *memStore) Save(ctx context.Context, key string, r io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn != "" && strings.Contains(key, s.failOn) {
		return fmt.Errorf("injected save failure for %s", key)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *memStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("no such object %s", key)
	}
	return io.NopCloser(strings.NewReader(string(data))), nil
}

func (s *memStore) List(ctx context.Context, prefix, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var names []string
	for key := range s.objects {
		if !strings.HasPrefix(key, prefix+"/") {
			continue
		}
		name := strings.TrimPrefix(key, prefix+"/")
		ok, err := path.Match(pattern, path.Base(name))
		if err != nil {
			return nil, err
		}
		if ok {
			names = append(names, name)
		}
	}
	return names, nil
}

func (s *memStore) DeletePrefix(ctx context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			delete(s.objects, key)
		}
	}
	return nil
}

func (s *memStore) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for key := range s.objects {
		keys = append(keys, key)
	}
	return keys
}

// stubDetector reports a fixed set of regions and counts invocations.
type stubDetector struct {
	regions []inference.Region
	calls   int
}

func (d *stubDetector) Name() string { return "stub" }

func (d *stubDetector) DetectTextRegions(ctx context.Context, img []byte) ([]inference.Region, error) {
	d.calls++
	return d.regions, nil
}

func (d *stubDetector) Close() error { return nil }
