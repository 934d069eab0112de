package generate

import (
	"strings"
	"unicode/utf8"
)

// Truncate cuts text to at most limit runes. When marker is non-empty it
// replaces the tail so the marked result still fits the limit; otherwise the
// cut is silent. Never splits a rune.
func Truncate(text string, limit int, marker string) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}

	keep := limit
	if marker != "" {
		markerLen := utf8.RuneCountInString(marker)
		if markerLen >= limit {
			return truncateRunes(marker, limit)
		}
		keep = limit - markerLen
	}

	cut := strings.TrimRight(truncateRunes(text, keep), " \t\n")
	return cut + marker
}

func truncateRunes(text string, limit int) string {
	count := 0
	for i := range text {
		if count == limit {
			return text[:i]
		}
		count++
	}
	return text
}
