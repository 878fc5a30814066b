package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)

// SchemaValidationError reports entity fields that do not match the
// variant schema selected by the entity type tag.
type SchemaValidationError struct {
	EntityType string
	Detail     string
	Cause      error
}

func (e *SchemaValidationError) Error() string {
	if e == nil {
		return "schema validation failed"
	}
	if e.Detail != "" {
		return fmt.Sprintf("schema validation failed for %q: %s", e.EntityType, e.Detail)
	}
	return fmt.Sprintf("schema validation failed for %q: %v", e.EntityType, e.Cause)
}

func (e *SchemaValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// TargetValidationError reports a target whose container id does not
// resolve to a persisted entity.
type TargetValidationError struct {
	ContainerID string
	Cause       error
}

func (e *TargetValidationError) Error() string {
	if e == nil {
		return "target validation failed"
	}
	return fmt.Sprintf("target container %q does not resolve to a persisted entity", e.ContainerID)
}

func (e *TargetValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// UnsupportedMediaError reports an upload with a disallowed file extension.
type UnsupportedMediaError struct {
	Filename string
	Allowed  []string
}

func (e *UnsupportedMediaError) Error() string {
	if e == nil {
		return "unsupported media"
	}
	return fmt.Sprintf("only these extensions are allowed: %v, but filename is %s", e.Allowed, e.Filename)
}

// StorageWriteError reports a file persistence failure during a
// multi-file upload.
type StorageWriteError struct {
	Path  string
	Cause error
}

func (e *StorageWriteError) Error() string {
	if e == nil {
		return "storage write failed"
	}
	return fmt.Sprintf("failed to persist %q: %v", e.Path, e.Cause)
}

func (e *StorageWriteError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
