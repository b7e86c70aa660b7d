package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAppliesMigrations(t *testing.T) {
	d, err := Open("file::memory:")
	require.NoError(t, err)
	defer d.Close()

	versions, err := d.Migrations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql"}, versions)

	for _, table := range []string{"profiles", "achievements", "game_records", "focus_sessions"} {
		var name string
		err := d.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, table)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixelplay.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	versions, err := second.Migrations(context.Background())
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}
