package entity

import (
	"strings"
	"testing"

	"github.com/hpungsan/recase/internal/errors"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxChars int
		wantCode errors.ErrorCode
	}{
		{name: "ok", input: "UserService", maxChars: 255},
		{name: "unicode ok", input: "café crème", maxChars: 10},
		{name: "empty", input: "", maxChars: 255, wantCode: errors.ErrInvalidRequest},
		{name: "blank", input: " \t ", maxChars: 255, wantCode: errors.ErrInvalidRequest},
		{name: "newline", input: "a\nb", maxChars: 255, wantCode: errors.ErrInvalidRequest},
		{name: "too long", input: strings.Repeat("x", 11), maxChars: 10, wantCode: errors.ErrNameTooLong},
		{name: "no limit", input: strings.Repeat("x", 1000), maxChars: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input, tt.maxChars)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("ValidateName() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Fatalf("ValidateName() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestNormalizeKind(t *testing.T) {
	if got := NormalizeKind("  class "); got != "class" {
		t.Errorf("NormalizeKind() = %q, want %q", got, "class")
	}
	if got := NormalizeKind(" Package\t"); got != "package" {
		t.Errorf("NormalizeKind() = %q, want %q", got, "package")
	}
	if got := NormalizeKind("   "); got != DefaultKind {
		t.Errorf("NormalizeKind(blank) = %q, want %q", got, DefaultKind)
	}
	if got := NormalizeKind(""); got != DefaultKind {
		t.Errorf("NormalizeKind(\"\") = %q, want %q", got, DefaultKind)
	}
}
