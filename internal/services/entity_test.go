package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/poojapi/ullekhanam/internal/domain"
	apperr "github.com/poojapi/ullekhanam/internal/pkg/errors"
)

func TestUpsertRejectsUnknownType(t *testing.T) {
	repo := newMemRepo()
	svc := NewEntityService(repo, testLogger(t))

	_, err := svc.Upsert(testDBC(), &domain.Entity{EntityType: "Pamphlet"}, nil)
	var schemaErr *apperr.SchemaValidationError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("err = %v, want SchemaValidationError", err)
	}
}

func TestUpsertRejectsMissingTargetContainer(t *testing.T) {
	repo := newMemRepo()
	svc := NewEntityService(repo, testLogger(t))

	page := domain.NewPage("pg_000", uuid.New(), 0)
	_, err := svc.Upsert(testDBC(), page, nil)
	var targetErr *apperr.TargetValidationError
	if !errors.As(err, &targetErr) {
		t.Fatalf("err = %v, want TargetValidationError", err)
	}
	if page.Persisted() {
		t.Fatalf("entity must not be persisted after target validation failure")
	}
}

func TestUpsertAssignsIDAndActor(t *testing.T) {
	repo := newMemRepo()
	svc := NewEntityService(repo, testLogger(t))
	actor := &domain.Actor{ID: uuid.New(), Email: "editor@example.com"}

	book, err := svc.Upsert(testDBC(), domain.NewBook("book"), actor)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !book.Persisted() {
		t.Fatalf("book should have an id after upsert")
	}
	if book.CreatedBy == nil || *book.CreatedBy != actor.ID {
		t.Fatalf("created_by = %v, want %s", book.CreatedBy, actor.ID)
	}
}

func TestUpsertTreeLinksChildrenToParent(t *testing.T) {
	repo := newMemRepo()
	svc := NewEntityService(repo, testLogger(t))
	dbc := testDBC()

	node := &domain.TreeNode{
		Content: domain.NewBook("book"),
		Children: []*domain.TreeNode{
			{Content: &domain.Entity{
				EntityType:   domain.EntityTypeBookPortion,
				Title:        "pg_000",
				BaseData:     domain.BaseDataImage,
				PortionClass: domain.PortionClassPage,
			}},
		},
	}

	result, err := svc.UpsertTree(dbc, node, nil)
	if err != nil {
		t.Fatalf("upsert tree: %v", err)
	}
	book := result.Content
	page := result.Children[0].Content
	if !book.Persisted() || !page.Persisted() {
		t.Fatalf("tree members should all be persisted")
	}
	if len(page.Targets) != 1 || page.Targets[0].ContainerID != book.ID {
		t.Fatalf("page target = %#v, want container %s", page.Targets, book.ID)
	}

	targetters, err := repo.GetTargetters(dbc, book.ID, "")
	if err != nil {
		t.Fatalf("targetters: %v", err)
	}
	if len(targetters) != 1 || targetters[0].ID != page.ID {
		t.Fatalf("book targetters = %v, want the page", targetters)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := newMemRepo()
	svc := NewEntityService(repo, testLogger(t))
	dbc := testDBC()

	if err := svc.Delete(dbc, uuid.New(), nil); err != nil {
		t.Fatalf("deleting an unknown id should be a no-op, got %v", err)
	}

	book, err := svc.Upsert(dbc, domain.NewBook("book"), nil)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := svc.Delete(dbc, book.ID, nil); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(dbc, book.ID, nil); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
	if _, err := svc.FetchByID(dbc, book.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("fetch after delete = %v, want ErrNotFound", err)
	}
}

func TestDeleteTreeRemovesDescendants(t *testing.T) {
	repo := newMemRepo()
	svc := NewEntityService(repo, testLogger(t))
	dbc := testDBC()

	book, err := svc.Upsert(dbc, domain.NewBook("book"), nil)
	if err != nil {
		t.Fatalf("upsert book: %v", err)
	}
	page, err := svc.Upsert(dbc, domain.NewPage("pg_000", book.ID, 0), nil)
	if err != nil {
		t.Fatalf("upsert page: %v", err)
	}
	annotation, err := svc.Upsert(dbc, domain.NewImageAnnotation(page.ID, domain.Rectangle{W: 1, H: 1}, domain.DataSource{}), nil)
	if err != nil {
		t.Fatalf("upsert annotation: %v", err)
	}

	if err := svc.DeleteTree(dbc, book.ID, nil); err != nil {
		t.Fatalf("delete tree: %v", err)
	}
	for _, id := range []uuid.UUID{book.ID, page.ID, annotation.ID} {
		if repo.live(id) {
			t.Fatalf("entity %s survived tree delete", id)
		}
	}
}
