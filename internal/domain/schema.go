package domain

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apperr "github.com/poojapi/ullekhanam/internal/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Per-variant field shapes, expressed as validator-tagged views over
// the polymorphic entity record.

type bookPortionSchema struct {
	Title        string `validate:"required"`
	BaseData     string `validate:"required,oneof=image text"`
	PortionClass string `validate:"required,oneof=book page"`
}

type imageAnnotationSchema struct {
	SourceType string `validate:"omitempty,oneof=system_inferred user_provided"`
}

type textAnnotationSchema struct {
	SourceType string `validate:"omitempty,oneof=system_inferred user_provided"`
}

// ValidateSchema checks an entity's fields against the schema selected
// by its type tag. Unknown tags are rejected.
func ValidateSchema(e *Entity) error {
	if e == nil {
		return &apperr.SchemaValidationError{Detail: "nil entity"}
	}
	v := validatorInstance()
	switch e.EntityType {
	case EntityTypeBookPortion:
		view := bookPortionSchema{
			Title:        e.Title,
			BaseData:     e.BaseData,
			PortionClass: e.PortionClass,
		}
		if err := v.Struct(view); err != nil {
			return &apperr.SchemaValidationError{EntityType: e.EntityType, Cause: err}
		}
		for i := range e.Targets {
			t := &e.Targets[i]
			if e.PortionClass == PortionClassPage && t.Position == nil {
				return &apperr.SchemaValidationError{
					EntityType: e.EntityType,
					Detail:     "page target requires a position",
				}
			}
		}
	case EntityTypeImageAnnotation:
		view := imageAnnotationSchema{SourceType: sourceType(e)}
		if err := v.Struct(view); err != nil {
			return &apperr.SchemaValidationError{EntityType: e.EntityType, Cause: err}
		}
		for i := range e.Targets {
			if e.Targets[i].Rectangle == nil {
				return &apperr.SchemaValidationError{
					EntityType: e.EntityType,
					Detail:     "image annotation target requires a rectangle",
				}
			}
		}
	case EntityTypeTextAnnotation:
		view := textAnnotationSchema{SourceType: sourceType(e)}
		if err := v.Struct(view); err != nil {
			return &apperr.SchemaValidationError{EntityType: e.EntityType, Cause: err}
		}
	default:
		return &apperr.SchemaValidationError{
			EntityType: e.EntityType,
			Detail:     fmt.Sprintf("unknown entity type %q", e.EntityType),
		}
	}
	for i := range e.Targets {
		if e.Targets[i].ContainerID == uuid.Nil {
			return &apperr.SchemaValidationError{
				EntityType: e.EntityType,
				Detail:     "target requires a container id",
			}
		}
	}
	return nil
}

// Schemas describes the closed variant set for the /schemas endpoint.
func Schemas() map[string]any {
	return map[string]any{
		EntityTypeBookPortion: map[string]any{
			"description": "A book, or a portion of one (a page).",
			"fields": map[string]string{
				"title":         "required",
				"base_data":     "required, one of: image, text",
				"portion_class": "required, one of: book, page",
				"targets":       "page portions target their book with a position",
			},
		},
		EntityTypeImageAnnotation: map[string]any{
			"description": "A rectangular region of interest on a page image.",
			"fields": map[string]string{
				"source":  "optional provenance, source_type one of: system_inferred, user_provided",
				"targets": "each target names a page and carries a rectangle {x,y,w,h}",
			},
		},
		EntityTypeTextAnnotation: map[string]any{
			"description": "Transcribed or annotated text attached to another annotation.",
			"fields": map[string]string{
				"source":  "optional provenance, source_type one of: system_inferred, user_provided",
				"details": "free-form text payload",
			},
		},
	}
}

func sourceType(e *Entity) string {
	if e.Source == nil {
		return ""
	}
	return e.Source.SourceType
}
