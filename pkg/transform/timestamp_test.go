package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "microseconds truncated", in: "2024-01-01T00:00:00.123456", want: "2024-01-01T00:00:00.123Z"},
		{name: "milliseconds kept", in: "2024-01-01T00:00:00.123", want: "2024-01-01T00:00:00.123Z"},
		{name: "short fraction kept", in: "2024-01-01T00:00:00.5", want: "2024-01-01T00:00:00.5Z"},
		{name: "no fraction", in: "2024-01-01T00:00:00", want: "2024-01-01T00:00:00Z"},
		{name: "already canonical", in: "2024-01-01T00:00:00.123Z", want: "2024-01-01T00:00:00.123Z"},
		{name: "already canonical without fraction", in: "2024-01-01T00:00:00Z", want: "2024-01-01T00:00:00Z"},
		{name: "zero padded micro", in: "2024-06-30T23:59:59.120000", want: "2024-06-30T23:59:59.120Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalTimestamp(tt.in))
		})
	}
}

func TestCanonicalTimestamp_Idempotent(t *testing.T) {
	inputs := []string{
		"2024-01-01T00:00:00",
		"2024-01-01T00:00:00.1",
		"2024-01-01T00:00:00.12",
		"2024-01-01T00:00:00.123",
		"2024-01-01T00:00:00.123456",
		"2023-12-31T12:30:45.999999",
	}

	for _, in := range inputs {
		once := CanonicalTimestamp(in)
		assert.Equal(t, once, CanonicalTimestamp(once), "input %q", in)
	}
}
