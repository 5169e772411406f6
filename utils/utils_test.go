package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsString(t *testing.T) {
	assert.True(t, ContainsString([]string{"a", "b"}, "b"))
	assert.False(t, ContainsString([]string{"a", "b"}, "c"))
	assert.False(t, ContainsString(nil, "a"))
}

func TestRandomAlphabetString(t *testing.T) {
	s := RandomAlphabetString(8)
	assert.Equal(t, 8, len(s))
	for _, c := range s {
		assert.True(t, c >= 'a' && c <= 'z')
	}
}

func TestGetUrlExtNameWithDot(t *testing.T) {
	assert.Equal(t, ".png", GetUrlExtNameWithDot("me.png"))
	assert.Equal(t, ".jpeg", GetUrlExtNameWithDot("https://cdn.example.com/a/b/pic.jpeg"))
	assert.Equal(t, ".webp", GetUrlExtNameWithDot("https://cdn.example.com/pic.webp?w=200&h=200"))
	assert.Equal(t, "", GetUrlExtNameWithDot("https://cdn.example.com/no-extension"))
}
