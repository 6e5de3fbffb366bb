package booking

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// 24 random bytes = 192 bits of entropy, encoded to a fixed 32-character
// URL-safe string. The token is the sole credential on a booking, so it is
// never derived from booking content.
const tokenBytes = 24

// NewToken mints a fresh approval token.
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate approval token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
