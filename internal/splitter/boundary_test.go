package splitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentenceBoundary(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		limit int
		want  int
	}{
		{"cuts after last sentence end", "One. Two. Three four five", 15, 9},
		{"sentence end exactly at limit", "Word. and more", 5, 5},
		{"question mark counts", "Really? Yes it does", 10, 7},
		{"exclamation counts", "Stop! Go on now", 9, 5},
		{"no sentence end", "no punctuation here at all", 10, -1},
		{"punctuation without space", "a.b.c.d.e.f", 8, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sentenceBoundary(tt.s, tt.limit))
		})
	}
}

func TestWhitespaceBoundary(t *testing.T) {
	assert.Equal(t, 6, whitespaceBoundary("hello world again", 8))
	assert.Equal(t, -1, whitespaceBoundary("nowhitespace", 8))
	assert.Equal(t, 8, whitespaceBoundary("newline\nnext", 8))
}

func TestHardBoundary(t *testing.T) {
	assert.Equal(t, 5, hardBoundary("abcdefgh", 5))

	// Never splits inside a multi-byte rune
	s := strings.Repeat("é", 10) // 2 bytes each
	cut := hardBoundary(s, 5)
	assert.Equal(t, 4, cut)
	assert.True(t, strings.HasSuffix(s[:cut], "é"))
}

func TestFindCut_FallbackOrder(t *testing.T) {
	// Sentence boundary wins when present
	assert.Equal(t, 9, findCut("One. Two. Three four", 15))
	// Whitespace next
	assert.Equal(t, 6, findCut("hello world again and on", 10))
	// Hard cut as last resort
	assert.Equal(t, 10, findCut("abcdefghijklmnop", 10))
}
