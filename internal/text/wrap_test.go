package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapLines(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		maxChars int
		want     []string
	}{
		{"empty", "   ", 10, nil},
		{"fits", "short note", 20, []string{"short note"}},
		{"wraps at word", "alpha beta gamma", 10, []string{"alpha beta", "gamma"}},
		{"hard split", "abcdefghijkl", 5, []string{"abcde", "fghij", "kl"}},
		{"keeps newlines", "one\ntwo three", 20, []string{"one", "two three"}},
		{"no wrapping", "a b c", 0, []string{"a b c"}},
		{"multibyte runes", "ééééé ééé", 5, []string{"ééééé", "ééé"}},
		{"long word after text", "ab cdefgh", 4, []string{"ab", "cdef", "gh"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WrapLines(tt.in, tt.maxChars))
		})
	}
}

func TestLineCount(t *testing.T) {
	assert.Equal(t, 0, LineCount("", 10))
	assert.Equal(t, 3, LineCount("aaa bbb ccc", 3))
}

func TestCharsPerLine(t *testing.T) {
	f := Font{Size: 12, LineHeight: 1.2}

	assert.Equal(t, 10, CharsPerLine(60, f))
	assert.Equal(t, 1, CharsPerLine(1, f))
	assert.Equal(t, 0, CharsPerLine(0, f))
	assert.InDelta(t, 14.4, f.LinePitch(), 1e-9)
	assert.InDelta(t, 12, Font{Size: 12}.LinePitch(), 1e-9)
}
