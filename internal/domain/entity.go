package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Closed set of entity type tags. Unknown tags are rejected at
// validation time.
const (
	EntityTypeBookPortion     = "BookPortion"
	EntityTypeImageAnnotation = "ImageAnnotation"
	EntityTypeTextAnnotation  = "TextAnnotation"
)

const (
	PortionClassBook = "book"
	PortionClassPage = "page"
)

const BaseDataImage = "image"

const (
	SourceTypeSystemInferred = "system_inferred"
	SourceTypeUserProvided   = "user_provided"
)

// Rectangle is an axis-aligned pixel region on a page image.
type Rectangle struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// DataSource marks the provenance of an annotation entity.
type DataSource struct {
	SourceType string `gorm:"column:source_type" json:"source_type"`
	SourceID   string `gorm:"column:source_id" json:"id,omitempty"`
}

// Target is a directional containment edge from an entity to a
// container entity, with positional or geometric payload.
type Target struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"-"`
	EntityID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"-"`
	ContainerID uuid.UUID  `gorm:"type:uuid;not null;index" json:"container_id"`
	Ordinal     int        `gorm:"column:ordinal;not null;default:0" json:"-"`
	Position    *int       `gorm:"column:position" json:"position,omitempty"`
	Rectangle   *Rectangle `gorm:"embedded;embeddedPrefix:rect_" json:"rectangle,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"-"`
}

func (Target) TableName() string { return "entity_target" }

// Entity is a persisted, typed, identified record. A zero ID marks an
// entity that has not been persisted yet; the id is assigned on first
// upsert and immutable afterwards.
type Entity struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id,omitempty"`
	EntityType   string         `gorm:"column:entity_type;not null;index" json:"entity_type"`
	Title        string         `gorm:"column:title" json:"title,omitempty"`
	BaseData     string         `gorm:"column:base_data" json:"base_data,omitempty"`
	PortionClass string         `gorm:"column:portion_class;index" json:"portion_class,omitempty"`
	Source       *DataSource    `gorm:"embedded" json:"source,omitempty"`
	Targets      []Target       `gorm:"foreignKey:EntityID;references:ID;constraint:OnDelete:CASCADE" json:"targets,omitempty"`
	Details      datatypes.JSON `gorm:"column:details;type:jsonb" json:"details,omitempty"`
	CreatedBy    *uuid.UUID     `gorm:"type:uuid;column:created_by" json:"-"`
	CreatedAt    time.Time      `gorm:"not null" json:"-"`
	UpdatedAt    time.Time      `gorm:"not null" json:"-"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Entity) TableName() string { return "entity" }

// Persisted reports whether the store has assigned an id.
func (e *Entity) Persisted() bool {
	return e != nil && e.ID != uuid.Nil
}

// TreeNode is the response shape for entity-with-descendants queries.
type TreeNode struct {
	Content  *Entity     `json:"content"`
	Children []*TreeNode `json:"children"`
}

// Actor identifies the user a write is attributed to.
type Actor struct {
	ID    uuid.UUID
	Email string
}

// NewBook constructs an unpersisted image book portion.
func NewBook(title string) *Entity {
	return &Entity{
		EntityType:   EntityTypeBookPortion,
		Title:        title,
		BaseData:     BaseDataImage,
		PortionClass: PortionClassBook,
	}
}

// NewPage constructs an unpersisted page portion targeting its book at
// the given position.
func NewPage(title string, bookID uuid.UUID, position int) *Entity {
	pos := position
	return &Entity{
		EntityType:   EntityTypeBookPortion,
		Title:        title,
		BaseData:     BaseDataImage,
		PortionClass: PortionClassPage,
		Targets: []Target{
			{ContainerID: bookID, Position: &pos},
		},
	}
}

// NewImageAnnotation constructs an unpersisted image annotation
// covering rect on the given page.
func NewImageAnnotation(pageID uuid.UUID, rect Rectangle, source DataSource) *Entity {
	r := rect
	return &Entity{
		EntityType: EntityTypeImageAnnotation,
		Source:     &source,
		Targets: []Target{
			{ContainerID: pageID, Rectangle: &r},
		},
	}
}
