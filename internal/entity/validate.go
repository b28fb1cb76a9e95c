package entity

import (
	"strings"
	"unicode"

	"github.com/hpungsan/recase/internal/errors"
)

// ValidateName checks a name before it is stored.
// maxChars <= 0 disables the length check.
func ValidateName(name string, maxChars int) error {
	if strings.TrimSpace(name) == "" {
		return errors.NewInvalidRequest("name is required")
	}
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return errors.NewInvalidRequest("name must not contain control characters")
	}
	if n := CountChars(name); maxChars > 0 && n > maxChars {
		return errors.NewNameTooLong(maxChars, n)
	}
	return nil
}

// NormalizeKind trims and lowercases kind, falling back to DefaultKind.
// "Package" and "package" are the same kind.
func NormalizeKind(kind string) string {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		return DefaultKind
	}
	return kind
}
