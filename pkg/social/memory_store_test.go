package social

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLinkStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("create and find", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryLinkStore()
		require.NoError(t, store.CreateLink(ctx, "google-1", "alice"))

		accountID, err := store.FindAccountID(ctx, "google-1")
		require.NoError(t, err)
		assert.Equal(t, "alice", accountID)
	})

	t.Run("duplicate key conflicts", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryLinkStore()
		require.NoError(t, store.CreateLink(ctx, "google-1", "alice"))

		err := store.CreateLink(ctx, "google-1", "bob")
		require.ErrorIs(t, err, ErrConflict)

		// The first writer's link survives.
		accountID, err := store.FindAccountID(ctx, "google-1")
		require.NoError(t, err)
		assert.Equal(t, "alice", accountID)
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryLinkStore()
		_, err := store.FindAccountID(ctx, "google-1")
		assert.ErrorIs(t, err, ErrLinkNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryLinkStore()
		require.NoError(t, store.CreateLink(ctx, "google-1", "alice"))
		require.NoError(t, store.DeleteLink(ctx, "google-1"))

		_, err := store.FindAccountID(ctx, "google-1")
		assert.ErrorIs(t, err, ErrLinkNotFound)

		assert.ErrorIs(t, store.DeleteLink(ctx, "google-1"), ErrLinkNotFound)
	})

	t.Run("links for account", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryLinkStore()
		require.NoError(t, store.CreateLink(ctx, "google-1", "alice"))
		require.NoError(t, store.CreateLink(ctx, "github-2", "alice"))
		require.NoError(t, store.CreateLink(ctx, "github-3", "bob"))

		links, err := store.LinksForAccount(ctx, "alice")
		require.NoError(t, err)
		assert.Len(t, links, 2)
	})
}

func TestMemoryStateStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("consume is one-time", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStateStore()
		require.NoError(t, store.StoreState(ctx, "s1", time.Now().Add(time.Minute)))

		require.NoError(t, store.ConsumeState(ctx, "s1"))
		assert.ErrorIs(t, store.ConsumeState(ctx, "s1"), ErrStateNotFound)
	})

	t.Run("expired state", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStateStore()
		require.NoError(t, store.StoreState(ctx, "s1", time.Now().Add(-time.Second)))
		assert.ErrorIs(t, store.ConsumeState(ctx, "s1"), ErrStateNotFound)
	})

	t.Run("unknown state", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStateStore()
		assert.ErrorIs(t, store.ConsumeState(ctx, "nope"), ErrStateNotFound)
	})
}

func TestMemoryAccountDirectory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("create and fetch", func(t *testing.T) {
		t.Parallel()

		dir := NewMemoryAccountDirectory()
		account, err := dir.CreateAccount(ctx, "google-1", "secret-password")
		require.NoError(t, err)
		assert.Equal(t, "google-1", account.ID)

		assert.True(t, dir.VerifyPassword("google-1", "secret-password"))
		assert.False(t, dir.VerifyPassword("google-1", "wrong"))
	})

	t.Run("duplicate id conflicts", func(t *testing.T) {
		t.Parallel()

		dir := NewMemoryAccountDirectory()
		_, err := dir.CreateAccount(ctx, "google-1", "pw")
		require.NoError(t, err)

		_, err = dir.CreateAccount(ctx, "google-1", "pw2")
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("profile fields", func(t *testing.T) {
		t.Parallel()

		dir := NewMemoryAccountDirectory()
		_, err := dir.CreateAccount(ctx, "google-1", "pw")
		require.NoError(t, err)

		require.NoError(t, dir.SetDisplayName(ctx, "google-1", "Alice"))
		require.NoError(t, dir.SetEmail(ctx, "google-1", "alice@example.com"))

		account, err := dir.GetAccountByID(ctx, "google-1")
		require.NoError(t, err)
		assert.Equal(t, "Alice", account.DisplayName)
		assert.Equal(t, "alice@example.com", account.Email)

		assert.ErrorIs(t, dir.SetDisplayName(ctx, "missing", "x"), ErrAccountNotFound)
	})
}
