package ops

import (
	"strings"

	"github.com/hpungsan/recase/internal/casing"
	"github.com/hpungsan/recase/internal/config"
	"github.com/hpungsan/recase/internal/errors"
)

// ConvertInput contains parameters for the Convert operation.
type ConvertInput struct {
	Style string // any name accepted by casing.ParseStyle; falls back to cfg.DefaultStyle
	Text  string
}

// ConvertOutput contains the result of the Convert operation.
type ConvertOutput struct {
	Style  string `json:"style"`
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Conversion is one entry of a ConvertAll result.
type Conversion struct {
	Style  string `json:"style"`
	Output string `json:"output"`
}

// ConvertAllOutput contains the text rendered in every style, in menu order.
type ConvertAllOutput struct {
	Input       string       `json:"input"`
	Conversions []Conversion `json:"conversions"`
}

// Convert renders text in one style.
func Convert(cfg *config.Config, input ConvertInput) (*ConvertOutput, error) {
	style, err := ResolveStyle(input.Style, cfg)
	if err != nil {
		return nil, err
	}

	return &ConvertOutput{
		Style:  string(style),
		Input:  input.Text,
		Output: casing.Apply(style, input.Text),
	}, nil
}

// ConvertAll renders text in all seven styles.
func ConvertAll(text string) *ConvertAllOutput {
	styles := casing.Styles()
	out := &ConvertAllOutput{
		Input:       text,
		Conversions: make([]Conversion, 0, len(styles)),
	}
	for _, s := range styles {
		out.Conversions = append(out.Conversions, Conversion{
			Style:  string(s),
			Output: casing.Apply(s, text),
		})
	}
	return out
}

// ResolveStyle parses a style name, falling back to the configured default.
func ResolveStyle(name string, cfg *config.Config) (casing.Style, error) {
	name = strings.TrimSpace(name)
	if name == "" && cfg != nil {
		name = cfg.DefaultStyle
	}
	if name == "" {
		return "", errors.NewInvalidRequest("style is required")
	}

	style, ok := casing.ParseStyle(name)
	if !ok {
		return "", errors.NewUnknownStyle(name, casing.StyleNames())
	}
	return style, nil
}
