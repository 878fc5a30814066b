package entities

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/poojapi/ullekhanam/internal/domain"
	"github.com/poojapi/ullekhanam/internal/pkg/dbctx"
	apperr "github.com/poojapi/ullekhanam/internal/pkg/errors"
	"github.com/poojapi/ullekhanam/internal/pkg/logger"
)

// EntityRepo is the store adapter over the entity table. Upsert assigns
// an id on first insert and replaces the row (and its targets) on
// subsequent writes to the same id.
type EntityRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Entity, error)
	Upsert(dbc dbctx.Context, e *domain.Entity) (*domain.Entity, error)
	SoftDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
	FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
	GetTargetters(dbc dbctx.Context, containerID uuid.UUID, entityType string) ([]*domain.Entity, error)
	ListBooks(dbc dbctx.Context) ([]*domain.Entity, error)
}

type entityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEntityRepo(db *gorm.DB, baseLog *logger.Logger) EntityRepo {
	return &entityRepo{db: db, log: baseLog.With("repo", "EntityRepo")}
}

func (r *entityRepo) conn(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *entityRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Entity, error) {
	var e domain.Entity
	err := r.conn(dbc).WithContext(dbc.Ctx).
		Preload("Targets", func(db *gorm.DB) *gorm.DB { return db.Order("ordinal") }).
		First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *entityRepo) Upsert(dbc dbctx.Context, e *domain.Entity) (*domain.Entity, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	for i := range e.Targets {
		t := &e.Targets[i]
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		t.EntityID = e.ID
		t.Ordinal = i
	}

	err := r.conn(dbc).WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		// Replace semantics: the target list is rewritten as a whole.
		if err := tx.Unscoped().
			Where("entity_id = ?", e.ID).
			Delete(&domain.Target{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(e).Error
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *entityRepo) SoftDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.conn(dbc).WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Delete(&domain.Entity{}).Error
}

func (r *entityRepo) FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	tx := r.conn(dbc).WithContext(dbc.Ctx)
	if err := tx.Unscoped().
		Where("entity_id IN ?", ids).
		Delete(&domain.Target{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().
		Where("id IN ?", ids).
		Delete(&domain.Entity{}).Error
}

// GetTargetters returns entities that have a target naming containerID,
// optionally filtered to one entity type. Ordering is stable for a
// given store state (created_at, then id).
func (r *entityRepo) GetTargetters(dbc dbctx.Context, containerID uuid.UUID, entityType string) ([]*domain.Entity, error) {
	var results []*domain.Entity
	q := r.conn(dbc).WithContext(dbc.Ctx).
		Distinct("entity.*").
		Joins("JOIN entity_target ON entity_target.entity_id = entity.id").
		Where("entity_target.container_id = ?", containerID)
	if entityType != "" {
		q = q.Where("entity.entity_type = ?", entityType)
	}
	if err := q.
		Preload("Targets", func(db *gorm.DB) *gorm.DB { return db.Order("ordinal") }).
		Order("entity.created_at, entity.id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *entityRepo) ListBooks(dbc dbctx.Context) ([]*domain.Entity, error) {
	var results []*domain.Entity
	if err := r.conn(dbc).WithContext(dbc.Ctx).
		Where("entity_type = ? AND portion_class = ?", domain.EntityTypeBookPortion, domain.PortionClassBook).
		Preload("Targets", func(db *gorm.DB) *gorm.DB { return db.Order("ordinal") }).
		Order("created_at, id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
