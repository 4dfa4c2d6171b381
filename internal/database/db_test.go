package database

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CreatesFileAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.db")

	db, err := New(Config{Path: path, Name: "storage"})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Migrate())
	// Applying twice is a no-op
	require.NoError(t, db.Migrate())

	var count int
	err = db.Conn().QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='storage_scopes'",
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, path, db.Path())
	assert.Equal(t, "storage", db.Name())

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Greater(t, stats.PageSize, int64(0))
}

func TestNew_InMemory(t *testing.T) {
	db, err := New(Config{Path: "file::memory:", Name: "storage"})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Migrate())
	_, err = db.Conn().Exec(
		"INSERT INTO storage_scopes (scope, data, created_at, updated_at) VALUES ('a', x'80', 1, 1)",
	)
	require.NoError(t, err)
}

func TestMigrate_UnknownNameIsNoop(t *testing.T) {
	db, err := New(Config{Path: "file::memory:", Name: "nothing"})
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.Migrate())
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	db, err := New(Config{Path: "file::memory:", Name: "storage"})
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate())

	boom := errors.New("boom")
	err = WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		_, err := tx.Exec("INSERT INTO storage_scopes (scope, data, created_at, updated_at) VALUES ('a', x'80', 1, 1)")
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM storage_scopes").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestWithTransaction_NilConnection(t *testing.T) {
	assert.Error(t, WithTransaction(nil, func(*sql.Tx) error { return nil }))
}
