package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/privmedia"
	"github.com/sagarc03/privmedia/database/sqlite"
)

func TestNewRepo_InvalidTables(t *testing.T) {
	_, err := sqlite.NewRepo(openTestDB(t), privmedia.Tables{})
	assert.Error(t, err)
}

func TestRepo_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	created, isNew, err := repo.Upsert(ctx, privmedia.User{ID: "42", Name: "alice", Active: true})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	updated, isNew, err := repo.Upsert(ctx, privmedia.User{ID: "42", Name: "alice", Active: true, Staff: true})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.True(t, updated.Staff)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	got, err := repo.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)
	assert.True(t, got.Active)
	assert.True(t, got.Staff)
	assert.False(t, got.Superuser)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
}

func TestRepo_Upsert_EmptyID(t *testing.T) {
	repo := setupTestRepo(t)

	_, _, err := repo.Upsert(context.Background(), privmedia.User{Name: "nobody"})
	assert.ErrorIs(t, err, privmedia.ErrInvalidInput)
}

func TestRepo_Get_NotFound(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, privmedia.ErrNotFound)
}

func TestRepo_Delete(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	_, _, err := repo.Upsert(ctx, privmedia.User{ID: "42", Active: true})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "42"))

	_, err = repo.Get(ctx, "42")
	assert.ErrorIs(t, err, privmedia.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "42"), privmedia.ErrNotFound)
}

func TestRepo_List(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	for _, u := range []privmedia.User{
		{ID: "7", Name: "bob", Active: true, Staff: true},
		{ID: "1", Name: "root", Active: true, Superuser: true},
		{ID: "42", Name: "alice", Active: false},
	} {
		_, _, err := repo.Upsert(ctx, u)
		require.NoError(t, err)
	}

	users, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)

	assert.Equal(t, "1", users[0].ID)
	assert.Equal(t, "42", users[1].ID)
	assert.Equal(t, "7", users[2].ID)

	assert.True(t, users[0].Superuser)
	assert.False(t, users[1].Active)
	assert.True(t, users[2].Staff)
}

func TestRepo_Ping(t *testing.T) {
	repo := setupTestRepo(t)
	assert.NoError(t, repo.Ping(context.Background()))
}
