package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigest_Deterministic(t *testing.T) {
	d1 := Digest("PurpleCrush!23")
	d2 := Digest("PurpleCrush!23")
	assert.Equal(t, d1, d2)
}

func TestDigest_Format(t *testing.T) {
	d := Digest("PurpleCrush!23")
	assert.True(t, strings.HasPrefix(d, "h_"), "digest %q", d)
	assert.True(t, strings.HasSuffix(d, "_14"), "digest %q should encode password length", d)
}

func TestDigest_DifferentPasswords(t *testing.T) {
	assert.NotEqual(t, Digest("password-one"), Digest("password-two"))
}

func TestDigest_EmptyPassword(t *testing.T) {
	d := Digest("")
	assert.True(t, strings.HasSuffix(d, "_0"), "digest %q", d)
}
