package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seva-innovations/storefront-vault/internal/common"
	"github.com/seva-innovations/storefront-vault/internal/logging"
	"github.com/seva-innovations/storefront-vault/internal/storage"
)

const (
	testAdminUser = "SevaAdmin393"
	testAdminPass = "PurpleCrush!23"
)

// fixedClock lets tests move time forward without sleeping.
type fixedClock struct {
	t time.Time
}

func (c *fixedClock) now() time.Time          { return c.t }
func (c *fixedClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestAuthenticator(t *testing.T) (*Authenticator, *fixedClock) {
	t.Helper()
	a := New(storage.NewMemoryStore(), logging.NewDefault(), testAdminUser, testAdminPass)
	clock := &fixedClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	a.now = clock.now
	return a, clock
}

func TestLogin_CustomerAlwaysSucceeds(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAuthenticator(t)

	res, err := a.Login(ctx, "shopper@example.com", "", true)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, RoleCustomer, res.User.Role)
	assert.Equal(t, "shopper@example.com", res.User.Identifier)
	assert.True(t, a.IsAuthenticated(ctx))
	assert.False(t, a.IsAdmin(ctx))
}

func TestLogin_CustomerInferredFromEmail(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAuthenticator(t)

	res, err := a.Login(ctx, "shopper@example.com", "", false)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, RoleCustomer, res.User.Role)
}

func TestLogin_AdminSuccess(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAuthenticator(t)

	res, err := a.Login(ctx, testAdminUser, testAdminPass, false)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, RoleAdmin, res.User.Role)
	assert.True(t, a.IsAdmin(ctx))
}

func TestLogin_InvalidCredentialsCountsDown(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAuthenticator(t)

	for i := 1; i <= 3; i++ {
		res, err := a.Login(ctx, testAdminUser, "wrong", false)
		require.NoError(t, err)
		require.False(t, res.Success)
		assert.Equal(t, MaxLoginAttempts-i, res.AttemptsRemaining)
		assert.Contains(t, res.Error, fmt.Sprintf("%d attempts remaining", MaxLoginAttempts-i))
	}
}

func TestLogin_SuccessResetsCounter(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAuthenticator(t)

	for i := 0; i < 3; i++ {
		_, err := a.Login(ctx, testAdminUser, "wrong", false)
		require.NoError(t, err)
	}

	res, err := a.Login(ctx, testAdminUser, testAdminPass, false)
	require.NoError(t, err)
	require.True(t, res.Success)

	// counter starts over
	res, err = a.Login(ctx, testAdminUser, "wrong", false)
	require.NoError(t, err)
	assert.Equal(t, MaxLoginAttempts-1, res.AttemptsRemaining)
}

func TestLogin_LockoutAfterFiveFailures(t *testing.T) {
	ctx := context.Background()
	a, clock := newTestAuthenticator(t)

	for i := 0; i < MaxLoginAttempts; i++ {
		_, err := a.Login(ctx, testAdminUser, "wrong", false)
		require.NoError(t, err)
	}
	require.True(t, a.IsLockedOut(ctx))
	assert.Equal(t, 15, a.LockoutRemaining(ctx))

	// the correct password is rejected while the lock holds
	res, err := a.Login(ctx, testAdminUser, testAdminPass, false)
	require.NoError(t, err)
	require.False(t, res.Success)
	assert.True(t, res.Locked)
	assert.Contains(t, res.Error, "15 minutes")

	// past the cooldown the lock auto-expires
	clock.advance(16 * time.Minute)
	require.False(t, a.IsLockedOut(ctx))
	res, err = a.Login(ctx, testAdminUser, testAdminPass, false)
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestSessionExpiry(t *testing.T) {
	ctx := context.Background()
	a, clock := newTestAuthenticator(t)

	res, err := a.Login(ctx, testAdminUser, testAdminPass, false)
	require.NoError(t, err)
	require.True(t, res.Success)

	clock.advance(SessionTTL - time.Minute)
	assert.True(t, a.IsAuthenticated(ctx))

	clock.advance(2 * time.Minute)
	assert.False(t, a.IsAuthenticated(ctx))

	// expiry destroyed the stored session, not just the view of it
	assert.Nil(t, a.Current(ctx))
}

func TestLogout_Idempotent(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAuthenticator(t)

	_, err := a.Login(ctx, testAdminUser, testAdminPass, false)
	require.NoError(t, err)

	require.NoError(t, a.Logout(ctx))
	require.NoError(t, a.Logout(ctx))
	assert.False(t, a.IsAuthenticated(ctx))
}

func TestUpdatePassword(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAuthenticator(t)

	// requires an admin session
	err := a.UpdatePassword(ctx, testAdminPass, "NewPassword!99")
	require.ErrorIs(t, err, common.ErrNotAuthorized)

	_, err = a.Login(ctx, testAdminUser, testAdminPass, false)
	require.NoError(t, err)

	err = a.UpdatePassword(ctx, "wrong-current", "NewPassword!99")
	require.ErrorIs(t, err, common.ErrIncorrectPassword)

	err = a.UpdatePassword(ctx, testAdminPass, "short")
	require.ErrorIs(t, err, common.ErrPasswordTooShort)

	require.NoError(t, a.UpdatePassword(ctx, testAdminPass, "NewPassword!99"))

	// old password no longer works, new one does
	require.NoError(t, a.Logout(ctx))
	res, err := a.Login(ctx, testAdminUser, testAdminPass, false)
	require.NoError(t, err)
	assert.False(t, res.Success)

	res, err = a.Login(ctx, testAdminUser, "NewPassword!99", false)
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestEnsureAdmin_ResetClearsLockout(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	a := New(store, logging.NewDefault(), testAdminUser, testAdminPass)

	for i := 0; i < MaxLoginAttempts; i++ {
		_, err := a.Login(ctx, testAdminUser, "wrong", false)
		require.NoError(t, err)
	}
	require.True(t, a.IsLockedOut(ctx))

	// a credential reseed (e.g. changed admin username) drops stale lockouts
	b := New(store, logging.NewDefault(), "NewAdmin", testAdminPass)
	require.NoError(t, b.EnsureAdmin(ctx))
	assert.False(t, b.IsLockedOut(ctx))
}
