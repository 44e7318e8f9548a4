package user

import (
	"strings"
	"testing"
)

func TestMakeToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := makeToken()
		if err != nil {
			t.Fatalf("makeToken() error = %v", err)
		}
		if len(token) != tokenLength {
			t.Errorf("makeToken() len = %d, want %d", len(token), tokenLength)
		}
		if strings.ContainsAny(token, "+/=") {
			t.Errorf("makeToken() = %q, want URL-safe characters only", token)
		}
		if seen[token] {
			t.Errorf("makeToken() produced a duplicate: %q", token)
		}
		seen[token] = true
	}
}
