package casing

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize prepares text for tokenization:
// 1. Trim leading/trailing whitespace
// 2. Compatibility decomposition (NFKD)
// 3. Remove combining marks (\p{M})
//
// The result never contains a combining mark. Empty or blank input yields "".
func Normalize(text string) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return ""
	}

	// A transform.Chain keeps per-use state, so build one per call.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.M)))
	out, _, _ := transform.String(t, s)
	return out
}

// stripMarks removes every combining mark from s.
// Rendered tokens pass through here so case mapping never reintroduces marks.
func stripMarks(s string) string {
	if strings.IndexFunc(s, isMark) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isMark(r) {
			return -1
		}
		return r
	}, s)
}

func isMark(r rune) bool {
	return unicode.Is(unicode.M, r)
}
