package database_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/privmedia"
	"github.com/sagarc03/privmedia/database"
)

func newTestConfig(tableName string) database.Config {
	return database.Config{
		Type:   "sqlite",
		DSN:    ":memory:",
		Tables: privmedia.Tables{Users: tableName},
	}
}

func TestConnect_SQLite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo, cleanup, err := database.Connect(ctx, newTestConfig("users"))
	require.NoError(t, err)
	t.Cleanup(cleanup)

	_, isNew, err := repo.Upsert(ctx, privmedia.User{ID: "42", Active: true})
	require.NoError(t, err)
	assert.True(t, isNew)

	u, err := repo.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, privmedia.Identity{UserID: "42", Authenticated: true}, u.Identity())
}

func TestConnect_SQLiteFile_Persists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cfg := database.Config{
		Type:   "sqlite",
		DSN:    filepath.Join(t.TempDir(), "privmedia.db"),
		Tables: privmedia.Tables{Users: "privmedia_users"},
	}

	repo, cleanup, err := database.Connect(ctx, cfg)
	require.NoError(t, err)
	_, _, err = repo.Upsert(ctx, privmedia.User{ID: "7", Name: "bob", Active: true, Staff: true})
	require.NoError(t, err)
	cleanup()

	// Reconnecting runs migrations again and keeps the data.
	repo, cleanup, err = database.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	u, err := repo.Get(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Name)
	assert.True(t, u.Staff)
}

func TestConnect_InvalidType(t *testing.T) {
	t.Parallel()

	tests := []string{"invalid", ""}

	for _, typ := range tests {
		cfg := newTestConfig("users")
		cfg.Type = typ

		_, _, err := database.Connect(context.Background(), cfg)
		assert.ErrorIs(t, err, privmedia.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "unsupported database type")
	}
}

func TestConnect_InvalidTableName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		table string
	}{
		{name: "empty", table: ""},
		{name: "uppercase", table: "Users"},
		{name: "injection", table: "users; DROP TABLE users"},
		{name: "leading digit", table: "1users"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := database.Connect(context.Background(), newTestConfig(tt.table))
			assert.ErrorIs(t, err, privmedia.ErrInvalidConfig)
		})
	}
}

func TestConnect_SchemaMismatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dsn := filepath.Join(t.TempDir(), "bad.db")

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `CREATE TABLE users (id TEXT NOT NULL PRIMARY KEY)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, _, err = database.Connect(ctx, database.Config{Type: "sqlite", DSN: dsn, Tables: privmedia.Tables{Users: "users"}})
	assert.Error(t, err)
}
