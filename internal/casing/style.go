package casing

// Style names one of the seven renaming operations.
type Style string

const (
	StylePascal         Style = "pascal"
	StyleCamel          Style = "camel"
	StyleKebab          Style = "kebab"
	StyleSnake          Style = "snake"
	StyleScreamingSnake Style = "screaming_snake"
	StyleTitle          Style = "title"
	StyleReverse        Style = "reverse"
)

var renderers = map[Style]func(string) string{
	StylePascal:         Pascal,
	StyleCamel:          Camel,
	StyleKebab:          Kebab,
	StyleSnake:          Snake,
	StyleScreamingSnake: ScreamingSnake,
	StyleTitle:          Title,
	StyleReverse:        Reverse,
}

// styleAliases maps snake_case spellings of accepted names to styles.
var styleAliases = map[string]Style{
	"pascal":               StylePascal,
	"pascal_case":          StylePascal,
	"upper_camel":          StylePascal,
	"camel":                StyleCamel,
	"camel_case":           StyleCamel,
	"lower_camel":          StyleCamel,
	"kebab":                StyleKebab,
	"kebab_case":           StyleKebab,
	"dash":                 StyleKebab,
	"snake":                StyleSnake,
	"snake_case":           StyleSnake,
	"screaming_snake":      StyleScreamingSnake,
	"screaming_snake_case": StyleScreamingSnake,
	"upper_snake":          StyleScreamingSnake,
	"constant":             StyleScreamingSnake,
	"constant_case":        StyleScreamingSnake,
	"title":                StyleTitle,
	"title_case":           StyleTitle,
	"reverse":              StyleReverse,
	"reverse_name":         StyleReverse,
}

// Styles returns all styles in menu order.
func Styles() []Style {
	return []Style{
		StylePascal,
		StyleCamel,
		StyleSnake,
		StyleKebab,
		StyleScreamingSnake,
		StyleReverse,
		StyleTitle,
	}
}

// StyleNames returns the canonical style names in menu order.
func StyleNames() []string {
	styles := Styles()
	names := make([]string, len(styles))
	for i, s := range styles {
		names[i] = string(s)
	}
	return names
}

// ParseStyle resolves a style name. Any spelling the engine folds to a known
// snake_case alias is accepted: "PascalCase", "kebab-case", "SCREAMING_SNAKE_CASE".
func ParseStyle(name string) (Style, bool) {
	s, ok := styleAliases[Snake(name)]
	return s, ok
}

// Valid reports whether s is one of the seven styles.
func (s Style) Valid() bool {
	_, ok := renderers[s]
	return ok
}

// Apply renders text in the given style. Unknown styles return text unchanged.
func Apply(style Style, text string) string {
	fn, ok := renderers[style]
	if !ok {
		return text
	}
	return fn(text)
}
