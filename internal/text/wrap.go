// Package text provides the approximate line breaking shared by the height
// estimator and the renderers, so both agree on how many lines a note takes.
package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Font describes the metrics used for approximate measurement
type Font struct {
	Size       float64 // in layout units
	LineHeight float64 // multiple of Size
}

// avgCharWidth is the average advance of a proportional glyph as a fraction of
// the font size
const avgCharWidth = 0.5

// CharWidth returns the approximate advance of one character
func (f Font) CharWidth() float64 {
	return f.Size * avgCharWidth
}

// LinePitch returns the distance between two baselines
func (f Font) LinePitch() float64 {
	if f.LineHeight <= 0 {
		return f.Size
	}
	return f.Size * f.LineHeight
}

// CharsPerLine returns how many characters fit in width
func CharsPerLine(width float64, font Font) int {
	cw := font.CharWidth()
	if cw <= 0 || width <= 0 {
		return 0
	}
	n := int(width / cw)
	if n < 1 {
		n = 1
	}
	return n
}

// WrapLines breaks s into lines of at most maxChars runes. Explicit newlines
// are kept, words are never joined across them, and a word longer than
// maxChars is split hard. maxChars <= 0 disables wrapping.
func WrapLines(s string, maxChars int) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if maxChars <= 0 {
		return strings.Split(s, "\n")
	}

	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := splitIntoWords(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		var current strings.Builder
		currentLen := 0
		for _, word := range words {
			for utf8.RuneCountInString(word) > maxChars {
				if currentLen > 0 {
					lines = append(lines, current.String())
					current.Reset()
					currentLen = 0
				}
				head, tail := splitRunes(word, maxChars)
				lines = append(lines, head)
				word = tail
			}

			wl := utf8.RuneCountInString(word)
			if currentLen > 0 && currentLen+1+wl > maxChars {
				lines = append(lines, current.String())
				current.Reset()
				currentLen = 0
			}
			if currentLen > 0 {
				current.WriteByte(' ')
				currentLen++
			}
			current.WriteString(word)
			currentLen += wl
		}
		if currentLen > 0 {
			lines = append(lines, current.String())
		}
	}
	return lines
}

// LineCount returns len(WrapLines(s, maxChars))
func LineCount(s string, maxChars int) int {
	return len(WrapLines(s, maxChars))
}

// splitIntoWords splits text into words
func splitIntoWords(text string) []string {
	return strings.FieldsFunc(text, unicode.IsSpace)
}

func splitRunes(s string, n int) (string, string) {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], s[pos:]
		}
		i++
	}
	return s, ""
}
