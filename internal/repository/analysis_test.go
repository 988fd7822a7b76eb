package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCreatedAt(t *testing.T) {
	t.Run("empty string defaults to now", func(t *testing.T) {
		before := time.Now().UTC()
		got, err := parseCreatedAt("")
		require.NoError(t, err)
		assert.WithinDuration(t, before, got, 2*time.Second)
	})

	t.Run("parses RFC3339 timestamps", func(t *testing.T) {
		got, err := parseCreatedAt("2026-01-15T10:30:00Z")
		require.NoError(t, err)
		assert.Equal(t, 2026, got.Year())
		assert.Equal(t, time.January, got.Month())
	})

	t.Run("rejects malformed timestamps", func(t *testing.T) {
		_, err := parseCreatedAt("not-a-date")
		assert.Error(t, err)
	})
}
