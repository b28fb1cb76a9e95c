package casing

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Graphemes splits text into extended grapheme clusters (UAX #29 default rules).
func Graphemes(text string) []string {
	if text == "" {
		return nil
	}
	clusters := make([]string, 0, len(text))
	state := -1
	rest := text
	for rest != "" {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		clusters = append(clusters, cluster)
	}
	return clusters
}

// Reverse reverses text one grapheme cluster at a time, so combining marks
// stay on their base character and emoji sequences stay intact.
// The literal input is used; it is not normalized.
//
//	"smile 😀 wide" -> "ediw 😀 elims"
func Reverse(text string) string {
	clusters := Graphemes(text)
	if len(clusters) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := len(clusters) - 1; i >= 0; i-- {
		b.WriteString(clusters[i])
	}
	return b.String()
}
