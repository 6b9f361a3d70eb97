package domain

import "errors"

// Domain errors as sentinel values
var (
	// Product errors
	ErrProductNotFound = errors.New("product not found")

	// Attribute errors
	ErrAttributeNotFound    = errors.New("attribute not found")
	ErrUnknownAttributeKind = errors.New("unknown attribute kind")
	ErrNoMediaCapability    = errors.New("attribute kind does not hold media")

	// ErrValidation is matched by every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")
)
