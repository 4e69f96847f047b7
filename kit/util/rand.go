package util

import (
	"crypto/rand"
	"strings"

	"github.com/jxskiss/base62"
	"github.com/pkg/errors"
)

// GetRandomBase62 returns a random string of the given length over the base62
// alphabet, backed by crypto/rand entropy.
func GetRandomBase62(length int) (string, error) {
	var builder strings.Builder
	for builder.Len() < length {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			return "", errors.Wrap(err, "read random failed")
		}
		builder.WriteString(base62.EncodeToString(buf))
	}
	return builder.String()[:length], nil
}
