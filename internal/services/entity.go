package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/poojapi/ullekhanam/internal/data/repos/entities"
	"github.com/poojapi/ullekhanam/internal/domain"
	"github.com/poojapi/ullekhanam/internal/pkg/dbctx"
	apperr "github.com/poojapi/ullekhanam/internal/pkg/errors"
	"github.com/poojapi/ullekhanam/internal/pkg/logger"
)

// EntityService holds the write invariants of the entity model: fields
// are schema-validated and target containers resolved before anything
// is persisted, ids are assigned by the store on first upsert, and
// deletes are idempotent.
type EntityService interface {
	FetchByID(dbc dbctx.Context, id uuid.UUID) (*domain.Entity, error)
	Upsert(dbc dbctx.Context, e *domain.Entity, actor *domain.Actor) (*domain.Entity, error)
	UpsertTree(dbc dbctx.Context, node *domain.TreeNode, actor *domain.Actor) (*domain.TreeNode, error)
	Delete(dbc dbctx.Context, id uuid.UUID, actor *domain.Actor) error
	DeleteTree(dbc dbctx.Context, id uuid.UUID, actor *domain.Actor) error
	FindTargetters(dbc dbctx.Context, containerID uuid.UUID, typeFilter string) ([]*domain.Entity, error)
}

type entityService struct {
	repo entities.EntityRepo
	log  *logger.Logger
}

func NewEntityService(repo entities.EntityRepo, log *logger.Logger) EntityService {
	return &entityService{repo: repo, log: log.With("service", "EntityService")}
}

func (s *entityService) FetchByID(dbc dbctx.Context, id uuid.UUID) (*domain.Entity, error) {
	return s.repo.GetByID(dbc, id)
}

func (s *entityService) Upsert(dbc dbctx.Context, e *domain.Entity, actor *domain.Actor) (*domain.Entity, error) {
	if err := domain.ValidateSchema(e); err != nil {
		return nil, err
	}
	// Prevalidate target references so nothing needs rolling back.
	for i := range e.Targets {
		containerID := e.Targets[i].ContainerID
		if _, err := s.repo.GetByID(dbc, containerID); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return nil, &apperr.TargetValidationError{ContainerID: containerID.String(), Cause: err}
			}
			return nil, fmt.Errorf("resolve target container %s: %w", containerID, err)
		}
	}
	if actor != nil && e.CreatedBy == nil {
		id := actor.ID
		e.CreatedBy = &id
	}
	return s.repo.Upsert(dbc, e)
}

// UpsertTree persists a tree of entities top-down. A child that does
// not already target its parent gets a containment target added, so
// parent ids assigned during the walk flow into the children.
func (s *entityService) UpsertTree(dbc dbctx.Context, node *domain.TreeNode, actor *domain.Actor) (*domain.TreeNode, error) {
	if node == nil || node.Content == nil {
		return nil, apperr.ErrInvalidArgument
	}
	content, err := s.Upsert(dbc, node.Content, actor)
	if err != nil {
		return nil, err
	}
	node.Content = content
	for i, child := range node.Children {
		if child == nil || child.Content == nil {
			return nil, apperr.ErrInvalidArgument
		}
		if !targetsContainer(child.Content, content.ID) {
			t := domain.Target{ContainerID: content.ID}
			if child.Content.PortionClass == domain.PortionClassPage {
				pos := i
				t.Position = &pos
			}
			child.Content.Targets = append(child.Content.Targets, t)
		}
		if _, err := s.UpsertTree(dbc, child, actor); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func (s *entityService) Delete(dbc dbctx.Context, id uuid.UUID, actor *domain.Actor) error {
	_, err := s.repo.GetByID(dbc, id)
	if errors.Is(err, apperr.ErrNotFound) {
		// Idempotent: deleting a missing id is a no-op.
		return nil
	}
	if err != nil {
		return err
	}
	return s.repo.SoftDeleteByIDs(dbc, []uuid.UUID{id})
}

// DeleteTree removes an entity and all its targetters, children first.
func (s *entityService) DeleteTree(dbc dbctx.Context, id uuid.UUID, actor *domain.Actor) error {
	_, err := s.repo.GetByID(dbc, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	children, err := s.repo.GetTargetters(dbc, id, "")
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := s.DeleteTree(dbc, child.ID, actor); err != nil {
			return err
		}
	}
	return s.repo.SoftDeleteByIDs(dbc, []uuid.UUID{id})
}

func (s *entityService) FindTargetters(dbc dbctx.Context, containerID uuid.UUID, typeFilter string) ([]*domain.Entity, error) {
	return s.repo.GetTargetters(dbc, containerID, typeFilter)
}

func targetsContainer(e *domain.Entity, containerID uuid.UUID) bool {
	for i := range e.Targets {
		if e.Targets[i].ContainerID == containerID {
			return true
		}
	}
	return false
}
