package casing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStyle(t *testing.T) {
	tests := []struct {
		name   string
		want   Style
		wantOK bool
	}{
		{"pascal", StylePascal, true},
		{"PascalCase", StylePascal, true},
		{"PASCAL_CASE", StylePascal, true},
		{"camel", StyleCamel, true},
		{"camelCase", StyleCamel, true},
		{"kebab-case", StyleKebab, true},
		{"snake_case", StyleSnake, true},
		{"SCREAMING_SNAKE_CASE", StyleScreamingSnake, true},
		{"screaming-snake", StyleScreamingSnake, true},
		{"constant", StyleScreamingSnake, true},
		{"Title Case", StyleTitle, true},
		{"reverse", StyleReverse, true},
		{"REVERSE_NAME", StyleReverse, true},
		{"", "", false},
		{"sentence", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseStyle(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStyles(t *testing.T) {
	styles := Styles()
	assert.Len(t, styles, 7)
	for _, s := range styles {
		assert.True(t, s.Valid(), s)
		parsed, ok := ParseStyle(string(s))
		assert.True(t, ok, s)
		assert.Equal(t, s, parsed)
	}
	assert.False(t, Style("sentence").Valid())
}

func TestApply(t *testing.T) {
	in := "hello world"
	assert.Equal(t, "HelloWorld", Apply(StylePascal, in))
	assert.Equal(t, "helloWorld", Apply(StyleCamel, in))
	assert.Equal(t, "hello-world", Apply(StyleKebab, in))
	assert.Equal(t, "hello_world", Apply(StyleSnake, in))
	assert.Equal(t, "HELLO_WORLD", Apply(StyleScreamingSnake, in))
	assert.Equal(t, "Hello World", Apply(StyleTitle, in))
	assert.Equal(t, "dlrow olleh", Apply(StyleReverse, in))

	// Unknown styles leave the text alone.
	assert.Equal(t, in, Apply(Style("nope"), in))
}

func TestApply_ConcurrentCallers(t *testing.T) {
	done := make(chan string, 16)
	for i := 0; i < cap(done); i++ {
		go func() {
			done <- Apply(StyleKebab, "  hello__world--ID42Parser  ")
		}()
	}
	for i := 0; i < cap(done); i++ {
		assert.Equal(t, "hello-world-id-42-parser", <-done)
	}
}
