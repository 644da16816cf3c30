// Package obfuscate implements the reversible transform that protects
// order fields at rest. The exact byte-level scheme is part of the stored
// data format: confidentiality against casual inspection of shared storage,
// not against an attacker with code access. Do not swap it for a stronger
// primitive without versioning the vault format.
package obfuscate

import (
	"context"
	"crypto/rand"
	"encoding/base64"

	"github.com/seva-innovations/storefront-vault/internal/auth"
)

const (
	// installConstant is mixed into every combined key; it is an
	// install-wide fixed value inherited from the original storefront.
	installConstant = "SEVA_SEC_2026"

	nonceSize = 16
)

// Sentinel strings surfaced to UI code in place of field values. Denied
// reads render distinctly from empty data.
const (
	AccessDenied    = "[Access Denied]"
	DecryptionError = "[Decryption Error]"
)

// KeySource supplies vault key material. Protect uses the write-path key
// (created on demand); Reveal resolves a key for the caller's session and
// may fail, which Reveal reports as AccessDenied.
type KeySource interface {
	VaultKey(ctx context.Context) (string, error)
	ResolveVaultKey(ctx context.Context, sess *auth.Session) (string, bool)
}

type Engine struct {
	keys KeySource
}

func NewEngine(keys KeySource) *Engine {
	return &Engine{keys: keys}
}

// EnsureVaultKey forces vault key creation. Protect skips the key lookup
// for empty inputs, so callers that must guarantee the key exists even
// when every sensitive field is blank call this first.
func (e *Engine) EnsureVaultKey(ctx context.Context) error {
	_, err := e.keys.VaultKey(ctx)
	return err
}

// Protect obfuscates plaintext under the combined vault+order key with a
// random per-call nonce, so identical inputs yield different ciphertexts.
// Empty input passes through as an empty string.
func (e *Engine) Protect(ctx context.Context, plaintext, orderKey string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	vaultKey, err := e.keys.VaultKey(ctx)
	if err != nil {
		return "", err
	}
	combined := []byte(vaultKey + orderKey + installConstant)

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	data := []byte(plaintext)
	out := make([]byte, nonceSize+len(data))
	copy(out, nonce)
	xorTransform(out[nonceSize:], data, combined, nonce)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Reveal inverts Protect. It returns AccessDenied when no vault key is
// resolvable for the caller's session, and DecryptionError for truncated or
// undecodable input, never an error: a corrupt field must not abort the
// read of the rest of an order.
func (e *Engine) Reveal(ctx context.Context, encoded, orderKey string, sess *auth.Session) string {
	if encoded == "" {
		return ""
	}

	vaultKey, ok := e.keys.ResolveVaultKey(ctx, sess)
	if !ok {
		return AccessDenied
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(raw) < nonceSize {
		return DecryptionError
	}

	combined := []byte(vaultKey + orderKey + installConstant)
	nonce := raw[:nonceSize]
	ciphertext := raw[nonceSize:]

	plain := make([]byte, len(ciphertext))
	xorTransform(plain, ciphertext, combined, nonce)
	return string(plain)
}

// xorTransform applies the position-dependent XOR: each byte is combined
// with a key byte selected by (i + nonce[i mod 16]) mod len(key) and with
// the nonce byte at i mod 16. The transform is its own inverse.
func xorTransform(dst, src, key, nonce []byte) {
	for i, b := range src {
		k := key[(i+int(nonce[i%nonceSize]))%len(key)]
		dst[i] = b ^ k ^ nonce[i%nonceSize]
	}
}
