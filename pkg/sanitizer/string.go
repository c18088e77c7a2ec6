// Package sanitizer normalizes free-text input before validation and
// storage. All functions are idempotent and handle empty input by returning
// empty strings rather than errors.
package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeCity lowercases so city strings join stably with prayer-time rows
// and cache keys.
func NormalizeCity(city string) string {
	return strings.ToLower(TrimAndNormalize(city))
}
