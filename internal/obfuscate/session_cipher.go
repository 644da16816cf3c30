package obfuscate

import (
	"context"
	"encoding/base64"
)

// DecryptionFailed is the session cipher's failure sentinel. It differs
// from the engine's DecryptionError for compatibility with the original
// formats.
const DecryptionFailed = "[Decryption failed]"

// SessionKeySource supplies the ephemeral session key.
type SessionKeySource interface {
	SessionKey(ctx context.Context) (string, error)
}

// SessionCipher is the legacy positional XOR used before the split order
// format; the pre-migration order collection protected payment data with
// it. The key is session-derived, so data written in one session is
// unrecoverable in the next unless the same key is still active.
type SessionCipher struct {
	keys SessionKeySource
}

func NewSessionCipher(keys SessionKeySource) *SessionCipher {
	return &SessionCipher{keys: keys}
}

func (c *SessionCipher) Encrypt(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", nil
	}
	key, err := c.keys.SessionKey(ctx)
	if err != nil {
		return "", err
	}
	k := []byte(key)
	data := []byte(text)
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ k[i%len(k)]
	}
	return base64.StdEncoding.EncodeToString(out), nil
}

func (c *SessionCipher) Decrypt(ctx context.Context, encoded string) string {
	if encoded == "" {
		return ""
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return DecryptionFailed
	}
	key, err := c.keys.SessionKey(ctx)
	if err != nil {
		return DecryptionFailed
	}
	k := []byte(key)
	out := make([]byte, len(raw))
	for i, b := range raw {
		out[i] = b ^ k[i%len(k)]
	}
	return string(out)
}

// MaskCard renders a card number for display, keeping only the last four
// digits.
func MaskCard(cardNumber string) string {
	if len(cardNumber) < 4 {
		return "****"
	}
	return "**** **** **** " + cardNumber[len(cardNumber)-4:]
}
