package casing

import (
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// ShortAcronymMax is the longest acronym (in UTF-16 code units) that
// Capitalize leaves untouched: "ID", "XML", "HTTP" survive, "HTTPS" becomes "Https".
const ShortAcronymMax = 4

// minorWords stay lowercase in title case unless they open or close the title.
var minorWords = map[string]bool{
	"a": true, "an": true, "the": true,
	"and": true, "or": true, "but": true, "for": true, "nor": true,
	"as": true, "at": true, "by": true, "in": true, "of": true, "on": true,
	"per": true, "to": true, "vs": true, "via": true, "from": true,
	"over": true, "into": true, "onto": true, "up": true, "down": true, "off": true,
}

// IsMinorWord reports whether the lowercase form of w is a title-case minor word.
func IsMinorWord(w string) bool {
	return minorWords[lower(w)]
}

// Word is a token together with its classification.
type Word struct {
	Text    string `json:"text"`
	Acronym bool   `json:"acronym"`
}

// Words tokenizes text and classifies each token.
func Words(text string) []Word {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	words := make([]Word, len(tokens))
	for i, t := range tokens {
		words[i] = Word{Text: t, Acronym: IsAcronym(t)}
	}
	return words
}

// IsAcronym reports whether token has at least two letters and all of them
// are uppercase. Digits are ignored.
func IsAcronym(token string) bool {
	letters := 0
	for _, r := range token {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
		letters++
	}
	return letters >= 2
}

// Capitalize lowercases token and title-cases its first code point.
// Short acronyms (see ShortAcronymMax) are returned unchanged.
func Capitalize(token string) string {
	if token == "" {
		return ""
	}
	if IsAcronym(token) && utf16Len(token) <= ShortAcronymMax {
		return token
	}
	return capitalizeLower(lower(token))
}

func capitalizeLower(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return s
	}
	return string(unicode.ToTitle(r)) + s[size:]
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
