// Package keys owns the vault key (persistent, one per installation) and
// the session-derived key (volatile). It only supplies key material;
// combining keys is the obfuscation engine's business.
package keys

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/seva-innovations/storefront-vault/internal/auth"
	"github.com/seva-innovations/storefront-vault/internal/common"
	"github.com/seva-innovations/storefront-vault/internal/storage"
)

const (
	vaultKeyLength = 64

	// DefaultSessionKey is the documented weak fallback used when no
	// authenticated session exists. Anything encrypted under it is
	// recoverable by anyone who knows the constant; kept for
	// compatibility, not as a security guarantee.
	DefaultSessionKey = "SEVA_DEFAULT_KEY"

	sessionKeyPrefix = "SEVA_SEC_"
	sessionKeyIDLen  = 16
)

// SessionSource reports the current authenticated session, if any.
type SessionSource interface {
	Current(ctx context.Context) *auth.Session
}

type Manager struct {
	persistent storage.Store
	volatile   storage.Store
	sessions   SessionSource

	now func() time.Time
}

func New(persistent, volatile storage.Store, sessions SessionSource) *Manager {
	return &Manager{persistent: persistent, volatile: volatile, sessions: sessions, now: time.Now}
}

// VaultKey returns the installation vault key, generating and persisting a
// new one on first call. It never regenerates once present, and it does not
// populate the session cache: a write path must not widen read access.
func (m *Manager) VaultKey(ctx context.Context) (string, error) {
	var key string
	err := m.persistent.Update(ctx, storage.RegionVaultKey, func(old []byte) ([]byte, error) {
		if len(old) > 0 {
			key = string(old)
			return old, nil
		}
		fresh, err := common.MakeRandKeyString(vaultKeyLength)
		if err != nil {
			return nil, err
		}
		key = fresh
		return []byte(fresh), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to resolve vault key: %w", err)
	}
	return key, nil
}

// ResolveVaultKey returns the vault key for a read path. The volatile
// session cache is consulted first; on a miss the persistent key is
// recovered only for an admin session and then cached for the rest of the
// session. Returns false when no key is resolvable for the caller.
func (m *Manager) ResolveVaultKey(ctx context.Context, sess *auth.Session) (string, bool) {
	if v, err := m.volatile.Get(ctx, storage.RegionSessionVaultKey); err == nil && len(v) > 0 {
		return string(v), true
	}

	if !sess.IsAdmin() {
		return "", false
	}

	v, err := m.persistent.Get(ctx, storage.RegionVaultKey)
	if err != nil || len(v) == 0 {
		return "", false
	}
	_ = m.volatile.Set(ctx, storage.RegionSessionVaultKey, v)
	return string(v), true
}

// SessionKey returns the cached ephemeral key if present. Otherwise, inside
// an authenticated session, a key is derived from the session identifier
// and the current time and cached; outside any session the weak default
// constant is returned.
func (m *Manager) SessionKey(ctx context.Context) (string, error) {
	if v, err := m.volatile.Get(ctx, storage.RegionSessionKey); err == nil && len(v) > 0 {
		return string(v), nil
	}

	sess := m.sessions.Current(ctx)
	if sess == nil {
		return DefaultSessionKey, nil
	}

	id := sess.SessionID
	if len(id) > sessionKeyIDLen {
		id = id[:sessionKeyIDLen]
	}
	key := sessionKeyPrefix + id + "_" + strconv.FormatInt(m.now().UnixMilli(), 36)

	if err := m.volatile.Set(ctx, storage.RegionSessionKey, []byte(key)); err != nil {
		return "", fmt.Errorf("failed to cache session key: %w", err)
	}
	return key, nil
}
