package search

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (wrapped in *Error) by search providers.
var (
	ErrIndexOperation = errors.New("search index operation failed")
	ErrIndexNotFound  = errors.New("search index not found")
	ErrPublish        = errors.New("failed to publish documents")
)

// Error records a failed provider operation.
type Error struct {
	Op  string // Operation that failed, e.g. "CreateIndex".
	Err error  // Underlying error, usually one of the sentinels above.
	Msg string // Optional context.
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusError reports an unexpected HTTP status from a remote search service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}
