package casing

import (
	"unicode"
	"unicode/utf8"
)

// runeClass is the tokenizer's view of a single rune.
type runeClass uint8

const (
	classOther runeClass = iota // separator: dropped, always a boundary
	classUpper                  // \p{Lu}
	classLower                  // \p{Ll}
	classLetter                 // any other \p{L} (Lt, Lm, Lo)
	classDigit                  // \p{Nd}
)

func classify(r rune) runeClass {
	switch {
	case unicode.Is(unicode.Lu, r):
		return classUpper
	case unicode.Is(unicode.Ll, r):
		return classLower
	case unicode.IsLetter(r):
		return classLetter
	case unicode.Is(unicode.Nd, r):
		return classDigit
	default:
		return classOther
	}
}

func (c runeClass) isLetter() bool {
	return c == classUpper || c == classLower || c == classLetter
}

// Tokenize normalizes text and splits it into words.
// Returns nil when text holds no letters or digits.
func Tokenize(text string) []string {
	s := Normalize(text)
	if s == "" {
		return nil
	}
	return Split(s)
}

// Split breaks already-normalized text into words in a single pass.
//
// Runs of characters that are neither letters nor decimal digits separate words
// and are dropped. Inside an alphanumeric run a new word starts at:
//
//	lower|digit -> Upper          parseXML   -> parse XML
//	Upper -> Upper lower          HTTPServer -> HTTP Server
//	letter -> digit               ID42       -> ID 42
//	digit -> letter               42Parser   -> 42 Parser
func Split(s string) []string {
	var words []string
	start := -1 // byte offset of the current word, -1 outside a word
	prev := classOther

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		cur := classify(r)

		if cur == classOther {
			if start >= 0 {
				words = append(words, s[start:i])
				start = -1
			}
			prev = cur
			i += size
			continue
		}

		if start < 0 {
			start = i
		} else if isBoundary(prev, cur, peekClass(s[i+size:])) {
			words = append(words, s[start:i])
			start = i
		}

		prev = cur
		i += size
	}

	if start >= 0 {
		words = append(words, s[start:])
	}
	return words
}

// isBoundary reports whether a word starts at cur, given the rune before it
// and the rune after it.
func isBoundary(prev, cur, next runeClass) bool {
	switch {
	case (prev == classLower || prev == classDigit) && cur == classUpper:
		return true
	case prev == classUpper && cur == classUpper && next == classLower:
		return true
	case prev.isLetter() && cur == classDigit:
		return true
	case prev == classDigit && cur.isLetter():
		return true
	}
	return false
}

func peekClass(rest string) runeClass {
	if rest == "" {
		return classOther
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return classify(r)
}
