// Package auth implements the tiered-access gate for the storefront vault:
// role-tagged sessions, the admin lockout counter, and the legacy credential
// digest. It is a best-effort deterrent against casual inspection of shared
// storage, not cryptography.
package auth

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// Session is the stored session record. Field names match the original
// storefront's session JSON.
type Session struct {
	Identifier      string    `json:"identifier"`
	Role            Role      `json:"role"`
	CreatedAt       time.Time `json:"createdAt"`
	SessionID       string    `json:"sessionId"`
	IsAuthenticated bool      `json:"isAuthenticated"`
}

// IsAdmin reports whether s is an authenticated admin session. Safe on nil.
func (s *Session) IsAdmin() bool {
	return s != nil && s.IsAuthenticated && s.Role == RoleAdmin
}

// credentialRecord is the stored admin credential document.
type credentialRecord struct {
	Username       string `json:"username"`
	PasswordDigest string `json:"passwordDigest"`
	Role           Role   `json:"role"`
}

// lockoutRecord tracks consecutive failed admin logins. Timestamps are unix
// milliseconds, matching the original record layout.
type lockoutRecord struct {
	Attempts        int   `json:"attempts"`
	LastAttemptTime int64 `json:"lastAttemptTime"`
	LockedUntilTime int64 `json:"lockedUntilTime,omitempty"`
}
