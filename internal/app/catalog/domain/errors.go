package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError carries field-scoped messages collected before any write.
// Keys are form field paths such as "price", "images.4" or "quantity.4_7".
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates an empty collector.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records msg for field. The first message for a field wins.
func (e *ValidationError) Add(field, msg string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

// Merge copies every field of other that is not already set.
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for field, msg := range other.Fields {
		e.Add(field, msg)
	}
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// Err returns e when it holds errors and nil otherwise.
func (e *ValidationError) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

// Is makes errors.Is(err, ErrValidation) hold for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StoreError wraps a record-store failure with the step that hit it.
type StoreError struct {
	Step string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store failure at %s: %v", e.Step, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// UploadError reports an object-store failure while storing or removing media.
type UploadError struct {
	Op     string // put or delete
	Target string // folder for put, URL for delete
	Err    error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("object store %s %s: %v", e.Op, e.Target, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// PartialCascadeError reports an attribute deletion that stopped after some
// of its writes had already committed. The operation can be retried.
type PartialCascadeError struct {
	Kind      AttributeKind
	ID        int64
	Step      string
	Completed []string
	Err       error
}

func (e *PartialCascadeError) Error() string {
	return fmt.Sprintf("deleting %s %d stopped at %s after [%s]; verify and retry: %v",
		e.Kind, e.ID, e.Step, strings.Join(e.Completed, ", "), e.Err)
}

func (e *PartialCascadeError) Unwrap() error {
	return e.Err
}
