package booking

import (
	"strings"
	"testing"
)

func TestNewTokenLengthAndCharset(t *testing.T) {
	token, err := NewToken()
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	// 24 bytes base64url-encoded without padding.
	if len(token) != 32 {
		t.Fatalf("expected 32 characters, got %d (%q)", len(token), token)
	}
	const urlSafe = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	for _, r := range token {
		if !strings.ContainsRune(urlSafe, r) {
			t.Fatalf("token contains non-URL-safe character %q", r)
		}
	}
}

func TestNewTokenUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		token, err := NewToken()
		if err != nil {
			t.Fatalf("new token: %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate token after %d draws", i)
		}
		seen[token] = true
	}
}
