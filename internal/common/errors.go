// Package common defines shared constants, sentinel errors, and small
// helpers used across the storefront vault. Callers should use errors.Is
// to match the sentinel values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound       = errors.New("not found")
	ErrStorageFailure = errors.New("storage failure")

	// Auth errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLockedOut          = errors.New("account locked")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrIncorrectPassword  = errors.New("current password incorrect")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")

	// Obfuscation errors.
	ErrDecryption = errors.New("decryption error")
)
