package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetRandomBase62(t *testing.T) {
	shortCode, err := GetRandomBase62(7)
	assert.Nil(t, err)
	assert.Len(t, shortCode, 7)
	for _, c := range shortCode {
		isBase62 := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		assert.True(t, isBase62)
	}

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		shortCode, err := GetRandomBase62(7)
		assert.Nil(t, err)
		seen[shortCode] = struct{}{}
	}
	assert.Len(t, seen, 100)
}
