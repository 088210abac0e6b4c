package search

import (
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name: "error with message",
			err: &Error{
				Op:  "CreateIndex",
				Err: ErrIndexOperation,
				Msg: "index synthetic-index",
			},
			expected: "CreateIndex: index synthetic-index: search index operation failed",
		},
		{
			name: "error without message",
			err: &Error{
				Op:  "IndexBatch",
				Err: ErrPublish,
			},
			expected: "IndexBatch: failed to publish documents",
		},
		{
			name: "error with status error",
			err: &Error{
				Op:  "DeleteIndex",
				Err: &StatusError{StatusCode: 403, Body: "forbidden"},
				Msg: "index synthetic-index",
			},
			expected: "DeleteIndex: index synthetic-index: unexpected status 403: forbidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{
			name:   "wrapped ErrIndexOperation matches",
			err:    &Error{Op: "CreateIndex", Err: ErrIndexOperation},
			target: ErrIndexOperation,
			want:   true,
		},
		{
			name:   "wrapped ErrPublish matches",
			err:    &Error{Op: "IndexBatch", Err: ErrPublish},
			target: ErrPublish,
			want:   true,
		},
		{
			name: "double wrapped error matches",
			err: &Error{
				Op:  "Publish",
				Err: &Error{Op: "IndexBatch", Err: ErrPublish},
			},
			target: ErrPublish,
			want:   true,
		},
		{
			name:   "different error does not match",
			err:    &Error{Op: "CreateIndex", Err: ErrIndexOperation},
			target: ErrPublish,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusError_Error(t *testing.T) {
	if got := (&StatusError{StatusCode: 500}).Error(); got != "unexpected status 500" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&StatusError{StatusCode: 404, Body: "nope"}).Error(); got != "unexpected status 404: nope" {
		t.Errorf("Error() = %q", got)
	}
}
