package stringsutil

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// NonBlankLines splits s into lines and drops the ones that are empty or whitespace-only.
// Returned lines are trimmed.
func NonBlankLines(s string) []string {
	lines := strings.Split(s, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// CountNonBlankLines returns len(NonBlankLines(s)).
func CountNonBlankLines(s string) int {
	return len(NonBlankLines(s))
}

// IsBlank reports whether s is empty or only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Slugify replaces every character outside [A-Za-z0-9] with '-'.
func Slugify(s string) string {
	return nonAlphanumeric.ReplaceAllString(s, "-")
}
