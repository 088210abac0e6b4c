package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMain_Version(t *testing.T) {
	assert.Equal(t, 0, Main([]string{"searchsync", "-v"}))
	assert.Equal(t, 0, Main([]string{"searchsync", "version"}))
}

func TestMain_Commands(t *testing.T) {
	Main([]string{"searchsync", "version"})

	for _, name := range []string{"run", "push", "index", "index count", "index create", "index search", "index verify", "version"} {
		factory, ok := Commands[name]
		if assert.True(t, ok, name) {
			c, err := factory()
			assert.NoError(t, err)
			assert.NotEmpty(t, c.Synopsis(), name)
		}
	}
}
