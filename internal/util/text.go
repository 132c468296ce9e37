package util

import (
	"regexp"
	"strings"
)

var reSpaces = regexp.MustCompile(`\s+`)

// FoldKey normalizes a value for case-insensitive exact matching against
// catalog names.
func FoldKey(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// NormalizeCell flattens a spreadsheet cell: trimmed, inner whitespace
// collapsed to single spaces.
func NormalizeCell(input string) string {
	s := strings.ReplaceAll(input, "\u00A0", " ")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Blank reports whether a value is empty after trimming.
func Blank(input string) bool {
	return strings.TrimSpace(input) == ""
}
