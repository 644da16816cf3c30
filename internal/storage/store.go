// Package storage provides the injected region store the vault core
// persists through. A region is a named blob holding one JSON document;
// the region names below form the on-disk contract with the original
// storefront and must not change without an explicit data migration.
package storage

import "context"

// Persistent regions.
const (
	RegionAdminCreds   = "seva_admin_creds"
	RegionLockout      = "seva_login_attempts"
	RegionSession      = "seva_auth_session"
	RegionVaultKey     = "seva_vault_key"
	RegionPublicOrders = "seva_orders_public"
	RegionSecureVault  = "seva_secure_vault"
	RegionLegacyOrders = "seva_orders"
	RegionOrderCounter = "seva_order_counter"
)

// Volatile (session-scoped) regions.
const (
	RegionSessionVaultKey = "seva_vault_key"
	RegionSessionKey      = "seva_session_key"
)

// Store is a named-region blob store. Get returns (nil, nil) when the
// region is absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// Update applies fn to the current value of key and writes the result
	// back atomically with respect to other Update calls on the same store.
	// fn receives nil when the region is absent; returning a nil slice
	// deletes the region.
	Update(ctx context.Context, key string, fn func(old []byte) ([]byte, error)) error
}
