package sqlite

import (
	"fmt"
	"testing"
	"time"

	"github.com/nearfaucet/backend/internal/resolver/kv"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) kv.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:kvstore_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	store, err := NewStore(db)
	require.NoError(t, err)
	return store
}

func TestStoreGetSet(t *testing.T) {
	store := setupStore(t)

	_, err := store.Get("missing")
	require.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, store.Set("ed25519:k1", "alice.near"))

	val, err := store.Get("ed25519:k1")
	require.NoError(t, err)
	require.Equal(t, "alice.near", val)
}

func TestStoreUpsert(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.Set("k", "v1"))
	require.NoError(t, store.Set("k", "v2"))

	val, err := store.Get("k")
	require.NoError(t, err)
	require.Equal(t, "v2", val)
}
