package grid

import "strings"

// DefaultSheetName is the label used when sanitization leaves nothing.
const DefaultSheetName = "Sheet"

// maxSheetNameLen matches the 31-character sheet name limit of the
// spreadsheet formats this document model round-trips with.
const maxSheetNameLen = 31

// SanitizeSheetName normalizes an untrusted label into a safe sheet
// name: each of the characters \ / ? * : [ ] becomes a single space,
// the result is truncated to 31 characters, and an empty or
// whitespace-only result falls back to "Sheet". Pure and total.
func SanitizeSheetName(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch r {
		case '\\', '/', '?', '*', ':', '[', ']':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}

	name := b.String()
	if len(name) > maxSheetNameLen {
		name = truncateRunes(name, maxSheetNameLen)
	}
	if strings.TrimSpace(name) == "" {
		return DefaultSheetName
	}
	return name
}

// truncateRunes cuts s to at most n bytes without splitting a rune.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for i := n; i > 0; i-- {
		if (s[i] & 0xC0) != 0x80 {
			return s[:i]
		}
	}
	return ""
}
