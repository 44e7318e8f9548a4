package user

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/pkg/errors"
)

const tokenLength = 48

var nowFunc = time.Now // mockable

// makeToken generates a URL-safe random reset token string.
func makeToken() (string, error) {
	// 3 random bytes encode to 4 URL-safe characters
	buf := make([]byte, tokenLength*3/4+3)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "reading random bytes")
	}
	return base64.RawURLEncoding.EncodeToString(buf)[:tokenLength], nil
}
