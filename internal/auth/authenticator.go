package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/seva-innovations/storefront-vault/internal/common"
	"github.com/seva-innovations/storefront-vault/internal/logging"
	"github.com/seva-innovations/storefront-vault/internal/storage"
)

const (
	// MaxLoginAttempts is the number of consecutive failed admin logins
	// before the lockout engages.
	MaxLoginAttempts = 5

	// LockoutCooldown is how long admin logins stay locked after the
	// attempt threshold is reached.
	LockoutCooldown = 15 * time.Minute

	// SessionTTL is the fixed session lifetime, measured from creation and
	// checked lazily on access.
	SessionTTL = 2 * time.Hour

	minPasswordLength = 8
)

// Authenticator owns the session record, the admin credential record, and
// the lockout counter, all persisted through the injected store.
type Authenticator struct {
	store storage.Store
	log   logging.Logger

	adminUsername string
	adminPassword string

	// now is a test seam for clock-dependent behavior.
	now func() time.Time
}

func New(store storage.Store, log logging.Logger, adminUsername, adminPassword string) *Authenticator {
	return &Authenticator{
		store:         store,
		log:           log,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
		now:           time.Now,
	}
}

// LoginResult is returned as a value for UI code to render; authentication
// failures are never surfaced as errors.
type LoginResult struct {
	Success           bool     `json:"success"`
	Error             string   `json:"error,omitempty"`
	Locked            bool     `json:"locked,omitempty"`
	AttemptsRemaining int      `json:"attemptsRemaining,omitempty"`
	User              *Session `json:"user,omitempty"`
}

// EnsureAdmin seeds the admin credential record when it is missing or
// carries an unexpected username, clearing any stale lockout record in the
// process. Idempotent.
func (a *Authenticator) EnsureAdmin(ctx context.Context) error {
	raw, err := a.store.Get(ctx, storage.RegionAdminCreds)
	if err != nil {
		return fmt.Errorf("failed to read admin credentials: %w", err)
	}

	if raw != nil {
		var current credentialRecord
		if err := json.Unmarshal(raw, &current); err == nil && current.Username == a.adminUsername {
			return nil
		}
	}

	rec := credentialRecord{
		Username:       a.adminUsername,
		PasswordDigest: Digest(a.adminPassword),
		Role:           RoleAdmin,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := a.store.Set(ctx, storage.RegionAdminCreds, data); err != nil {
		return fmt.Errorf("failed to seed admin credentials: %w", err)
	}
	return a.store.Delete(ctx, storage.RegionLockout)
}

// Login establishes a session. The customer path (explicit flag, or an
// empty secret with an email-shaped identifier) always succeeds with no
// secret check. The admin path enforces the lockout and credential rules.
func (a *Authenticator) Login(ctx context.Context, identifier, secret string, asCustomer bool) (*LoginResult, error) {
	if err := a.EnsureAdmin(ctx); err != nil {
		return nil, err
	}

	if asCustomer || (secret == "" && strings.Contains(identifier, "@")) {
		sess, err := a.createSession(ctx, identifier, RoleCustomer)
		if err != nil {
			return nil, err
		}
		return &LoginResult{Success: true, User: sess}, nil
	}

	if a.IsLockedOut(ctx) {
		return &LoginResult{
			Success: false,
			Error:   fmt.Sprintf("Account locked. Try again in %d minutes.", a.LockoutRemaining(ctx)),
			Locked:  true,
		}, nil
	}

	admin, err := a.adminRecord(ctx)
	if err != nil {
		return nil, err
	}

	if identifier == admin.Username && Digest(secret) == admin.PasswordDigest {
		if err := a.store.Delete(ctx, storage.RegionLockout); err != nil {
			a.log.Warn(ctx, "failed to clear lockout record", "error", err)
		}
		sess, err := a.createSession(ctx, identifier, RoleAdmin)
		if err != nil {
			return nil, err
		}
		return &LoginResult{Success: true, User: sess}, nil
	}

	remaining := a.recordFailedAttempt(ctx)
	return &LoginResult{
		Success:           false,
		Error:             fmt.Sprintf("Invalid credentials. %d attempts remaining.", remaining),
		AttemptsRemaining: remaining,
	}, nil
}

func (a *Authenticator) createSession(ctx context.Context, identifier string, role Role) (*Session, error) {
	sess := &Session{
		Identifier:      identifier,
		Role:            role,
		CreatedAt:       a.now(),
		SessionID:       "sess_" + uuid.NewString(),
		IsAuthenticated: true,
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}
	if err := a.store.Set(ctx, storage.RegionSession, data); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return sess, nil
}

func (a *Authenticator) adminRecord(ctx context.Context) (*credentialRecord, error) {
	raw, err := a.store.Get(ctx, storage.RegionAdminCreds)
	if err != nil {
		return nil, fmt.Errorf("failed to read admin credentials: %w", err)
	}
	var rec credentialRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode admin credentials: %w", err)
	}
	return &rec, nil
}

// recordFailedAttempt bumps the lockout counter, engaging the cooldown at
// the threshold, and returns the attempts remaining before lockout.
func (a *Authenticator) recordFailedAttempt(ctx context.Context) int {
	var remaining int
	err := a.store.Update(ctx, storage.RegionLockout, func(old []byte) ([]byte, error) {
		var rec lockoutRecord
		if old != nil {
			if err := json.Unmarshal(old, &rec); err != nil {
				rec = lockoutRecord{}
			}
		}
		rec.Attempts++
		rec.LastAttemptTime = a.now().UnixMilli()
		if rec.Attempts >= MaxLoginAttempts {
			rec.LockedUntilTime = a.now().Add(LockoutCooldown).UnixMilli()
		}
		remaining = MaxLoginAttempts - rec.Attempts
		return json.Marshal(rec)
	})
	if err != nil {
		a.log.Warn(ctx, "failed to record login attempt", "error", err)
	}
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

func (a *Authenticator) lockout(ctx context.Context) *lockoutRecord {
	raw, err := a.store.Get(ctx, storage.RegionLockout)
	if err != nil || raw == nil {
		return nil
	}
	var rec lockoutRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil
	}
	return &rec
}

// IsLockedOut reports whether admin logins are currently suspended.
func (a *Authenticator) IsLockedOut(ctx context.Context) bool {
	rec := a.lockout(ctx)
	return rec != nil && rec.LockedUntilTime > 0 && a.now().UnixMilli() < rec.LockedUntilTime
}

// LockoutRemaining returns the remaining cooldown in whole minutes,
// rounded up, or zero when not locked.
func (a *Authenticator) LockoutRemaining(ctx context.Context) int {
	rec := a.lockout(ctx)
	if rec == nil || rec.LockedUntilTime == 0 {
		return 0
	}
	ms := rec.LockedUntilTime - a.now().UnixMilli()
	if ms <= 0 {
		return 0
	}
	return int(math.Ceil(float64(ms) / 60000))
}

// Current returns the session record if one exists and is still live.
// An expired session is destroyed as a side effect and nil is returned.
func (a *Authenticator) Current(ctx context.Context) *Session {
	raw, err := a.store.Get(ctx, storage.RegionSession)
	if err != nil {
		a.log.Warn(ctx, "failed to read session", "error", err)
		return nil
	}
	if raw == nil {
		return nil
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil
	}
	if !sess.IsAuthenticated {
		return nil
	}
	if a.now().Sub(sess.CreatedAt) > SessionTTL {
		_ = a.Logout(ctx)
		return nil
	}
	return &sess
}

func (a *Authenticator) IsAuthenticated(ctx context.Context) bool {
	return a.Current(ctx) != nil
}

func (a *Authenticator) IsAdmin(ctx context.Context) bool {
	return a.Current(ctx).IsAdmin()
}

// Logout destroys the session unconditionally. Idempotent.
func (a *Authenticator) Logout(ctx context.Context) error {
	return a.store.Delete(ctx, storage.RegionSession)
}

// UpdatePassword replaces the stored admin digest. Requires an admin
// session; failures are returned as sentinel errors for the caller to map
// to user-visible messages.
func (a *Authenticator) UpdatePassword(ctx context.Context, current, newPassword string) error {
	if !a.IsAdmin(ctx) {
		return common.ErrNotAuthorized
	}

	admin, err := a.adminRecord(ctx)
	if err != nil {
		return err
	}
	if Digest(current) != admin.PasswordDigest {
		return common.ErrIncorrectPassword
	}
	if len(newPassword) < minPasswordLength {
		return common.ErrPasswordTooShort
	}

	admin.PasswordDigest = Digest(newPassword)
	data, err := json.Marshal(admin)
	if err != nil {
		return err
	}
	if err := a.store.Set(ctx, storage.RegionAdminCreds, data); err != nil {
		return fmt.Errorf("failed to store new password digest: %w", err)
	}
	return nil
}
