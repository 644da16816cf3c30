package console

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seva-innovations/storefront-vault/internal/config"
	"github.com/seva-innovations/storefront-vault/internal/orders"
	"github.com/seva-innovations/storefront-vault/internal/storage"
)

func TestNewApp_MigratesLegacyOrders(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "vault.db")

	// an installation that only ever ran the old flat format
	db, err := storage.OpenSQLite(ctx, dbPath)
	require.NoError(t, err)
	legacy := []orders.LegacyOrder{{
		ID:          "order_legacy_1",
		OrderNumber: "SEVA-1001",
		Status:      "delivered",
		Customer:    orders.RawCustomer{Name: "Old Customer", Email: "old@example.com"},
		Items:       []orders.RawItem{{Name: "Rose Soap", Price: 900, Quantity: 1}},
		Total:       900,
	}}
	blob, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, db.Set(ctx, storage.RegionLegacyOrders, blob))
	require.NoError(t, db.Close())

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabasePath = dbPath

	a, err := NewApp(ctx, cfg)
	require.NoError(t, err)
	defer a.db.Close()

	list, err := a.orders.PublicOrders(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "SEVA-1001", list[0].OrderNumber)

	gone, err := a.db.Get(ctx, storage.RegionLegacyOrders)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
