package auth

import (
	"strconv"
	"unicode/utf16"
)

const digestSalt = "SEVA_2024_SECURE"

// Digest reproduces the legacy storefront credential digest: a 32-bit
// rolling hash over salt+password+salt UTF-16 code units, rendered as
// "h_<abs base36>_<password length>". Stored credential records depend on
// the exact output, so the scheme must stay stable. It is a deterrent, not
// a password hash.
func Digest(password string) string {
	units := utf16.Encode([]rune(digestSalt + password + digestSalt))

	var h int32
	for _, u := range units {
		h = (h << 5) - h + int32(u)
	}

	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}

	plen := len(utf16.Encode([]rune(password)))
	return "h_" + strconv.FormatInt(abs, 36) + "_" + strconv.Itoa(plen)
}
