package transform

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField is returned when a document lacks a required key.
	ErrMissingField = errors.New("required field missing")

	// ErrNullField is returned when the identifier or timestamp_day is null.
	ErrNullField = errors.New("required field is null")

	// ErrInvalidWeight is returned when an event weight is not a number.
	ErrInvalidWeight = errors.New("event weight is not a number")
)

// FieldError describes a document that could not be transformed.
type FieldError struct {
	DocumentID string
	Field      string
	Err        error
}

func (e *FieldError) Error() string {
	if e.DocumentID == "" {
		return fmt.Sprintf("field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("document %s: field %q: %v", e.DocumentID, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
