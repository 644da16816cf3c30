package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "store.db")
	s, err := OpenSQLite(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	v, err := s.Get(ctx, RegionVaultKey)
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, s.Set(ctx, RegionVaultKey, []byte("key-material")))
	v, err = s.Get(ctx, RegionVaultKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("key-material"), v)

	// upsert
	require.NoError(t, s.Set(ctx, RegionVaultKey, []byte("replaced")))
	v, err = s.Get(ctx, RegionVaultKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("replaced"), v)

	require.NoError(t, s.Delete(ctx, RegionVaultKey))
	v, err = s.Get(ctx, RegionVaultKey)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSQLiteStore_Update(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	err := s.Update(ctx, RegionOrderCounter, func(old []byte) ([]byte, error) {
		assert.Nil(t, old)
		return []byte("1001"), nil
	})
	require.NoError(t, err)

	err = s.Update(ctx, RegionOrderCounter, func(old []byte) ([]byte, error) {
		assert.Equal(t, []byte("1001"), old)
		return []byte("1002"), nil
	})
	require.NoError(t, err)

	v, err := s.Get(ctx, RegionOrderCounter)
	require.NoError(t, err)
	assert.Equal(t, []byte("1002"), v)

	// nil result deletes the region
	require.NoError(t, s.Update(ctx, RegionOrderCounter, func([]byte) ([]byte, error) { return nil, nil }))
	v, err = s.Get(ctx, RegionOrderCounter)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "store.db")

	s, err := OpenSQLite(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, RegionPublicOrders, []byte(`[]`)))
	require.NoError(t, s.Close())

	s2, err := OpenSQLite(ctx, dsn)
	require.NoError(t, err)
	defer s2.Close()
	v, err := s2.Get(ctx, RegionPublicOrders)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), v)
}
