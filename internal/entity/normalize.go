package entity

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Normalize returns the sibling lookup key for a workspace or entity name:
// NFC-composed, lowercased, with whitespace runs collapsed to one space and
// the ends trimmed. "Café  Menu" and "café menu" share a key.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(norm.NFC.String(s))), " ")
}

// CountChars returns the length of text in runes.
func CountChars(text string) int {
	return utf8.RuneCountInString(text)
}
