package storage

import (
	"strings"
	"unicode"
)

const maxNameLength = 120

// SanitizeName turns a track or album title into a file name that is safe
// on every platform and as an object key.
func SanitizeName(name string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case r == '.' || r == '_' || r == '(' || r == ')':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	out := strings.Trim(b.String(), "-.")
	if runes := []rune(out); len(runes) > maxNameLength {
		out = strings.TrimRight(string(runes[:maxNameLength]), "-")
	}
	if out == "" {
		return "media"
	}
	return out
}
