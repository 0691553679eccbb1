package uid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTokenShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		token := NewToken()
		assert.Len(t, token, TokenLength)
		for _, c := range token {
			assert.True(t, (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'), "unexpected character %q in %q", c, token)
		}
	}
}

func TestNewTokenUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		token := NewToken()
		assert.False(t, seen[token], "duplicate token %q", token)
		seen[token] = true
	}
}
