package grid

import (
	"strings"
	"testing"
)

func TestSanitizeSheetName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name passes through", "Budget 2026", "Budget 2026"},
		{"empty becomes default", "", "Sheet"},
		{"whitespace only becomes default", "   ", "Sheet"},
		{"forbidden chars become default", "///", "Sheet"},
		{"slashes collapse to spaces", "a/b\\c", "a b c"},
		{"all forbidden chars stripped", `q\w/e?r*t:y[u]i`, "q w e r t y u i"},
		{"truncated to 31 chars", strings.Repeat("x", 40), strings.Repeat("x", 31)},
		{"exactly 31 chars untouched", strings.Repeat("y", 31), strings.Repeat("y", 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeSheetName(tt.input)
			if got != tt.expected {
				t.Errorf("SanitizeSheetName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// Every sanitized name must be non-empty, at most 31 characters, and
// free of the forbidden character set, whatever the input.
func TestSanitizeSheetNameInvariants(t *testing.T) {
	inputs := []string{
		"", "   ", "a/b\\c", "?*:[]", strings.Repeat("[", 100),
		"normal", strings.Repeat("é", 40), "trailing/",
	}

	for _, in := range inputs {
		got := SanitizeSheetName(in)
		if got == "" {
			t.Errorf("SanitizeSheetName(%q) returned empty string", in)
		}
		if len(got) > 31 {
			t.Errorf("SanitizeSheetName(%q) = %q exceeds 31 bytes", in, got)
		}
		if strings.ContainsAny(got, `\/?*:[]`) {
			t.Errorf("SanitizeSheetName(%q) = %q still contains forbidden characters", in, got)
		}
	}
}
