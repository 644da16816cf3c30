package common

import (
	"crypto/rand"
	"encoding/hex"
)

// keyCharset is the alphabet the original storefront used for vault and
// order keys. Kept as-is so freshly generated keys look like the stored ones.
const keyCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*"

// MakeRandKeyString generates a random key of the given length over the
// storefront key alphabet.
func MakeRandKeyString(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = keyCharset[int(b[i])%len(keyCharset)]
	}
	return string(b), nil
}

// MakeRandHexString generates a random hexadecimal string from size random
// bytes; the result is twice as long as size.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray overwrites the slice with zeros. Useful for passwords and
// key material once they are no longer needed. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
