package casing

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// lower applies full Unicode lowercasing with the root locale.
// cases.Caser is stateful and must not be shared, so one is built per call.
func lower(s string) string {
	return stripMarks(cases.Lower(language.Und).String(s))
}

// upper applies full Unicode uppercasing with the root locale ("ß" -> "SS").
func upper(s string) string {
	return stripMarks(cases.Upper(language.Und).String(s))
}

// Pascal converts text to PascalCase.
//
//	"hello world"   -> "HelloWorld"
//	"HELLO_WORLD"   -> "HelloWorld"
//	"HTTPServer2FA" -> "HTTPServer2FA"
func Pascal(text string) string {
	words := Tokenize(text)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(Capitalize(w))
	}
	return b.String()
}

// Camel converts text to camelCase. The first word is lowercased entirely,
// acronyms included ("HTTPServer" -> "httpServer").
func Camel(text string) string {
	words := Tokenize(text)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(lower(words[0]))
	for _, w := range words[1:] {
		b.WriteString(Capitalize(w))
	}
	return b.String()
}

// Kebab converts text to kebab-case.
func Kebab(text string) string {
	return joinMapped(Tokenize(text), "-", lower)
}

// Snake converts text to snake_case.
func Snake(text string) string {
	return joinMapped(Tokenize(text), "_", lower)
}

// ScreamingSnake converts text to SCREAMING_SNAKE_CASE.
func ScreamingSnake(text string) string {
	return joinMapped(Tokenize(text), "_", upper)
}

// Title converts text to Title Case.
//
// Acronyms are kept verbatim. Minor words (articles, short prepositions and
// conjunctions) are lowercased unless they are the first or last word.
//
//	"the lord of the rings" -> "The Lord of the Rings"
//	"HTTPServer2FA"         -> "HTTP Server 2 FA"
func Title(text string) string {
	words := Words(text)
	if len(words) == 0 {
		return ""
	}

	last := len(words) - 1
	parts := make([]string, len(words))
	for i, w := range words {
		switch {
		case w.Acronym:
			parts[i] = w.Text
		case i != 0 && i != last && IsMinorWord(w.Text):
			parts[i] = lower(w.Text)
		default:
			parts[i] = Capitalize(w.Text)
		}
	}
	return strings.Join(parts, " ")
}

func joinMapped(words []string, sep string, fn func(string) string) string {
	if len(words) == 0 {
		return ""
	}
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = fn(w)
	}
	return strings.Join(parts, sep)
}
