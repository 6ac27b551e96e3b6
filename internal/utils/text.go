package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var whitespace = regexp.MustCompile(`\s+`)

// CondenseSpaces collapses runs of whitespace to single spaces.
func CondenseSpaces(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// Truncate trims a string to at most n runes, adding an ellipsis if trimmed.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}

// TrimDiff limits a diff to max bytes, cutting on a line boundary and marking
// the truncation so the model knows the diff is partial.
func TrimDiff(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	head := s[:max]
	if idx := strings.LastIndex(head, "\n"); idx > 0 {
		head = head[:idx]
	}
	return head + "\n…[diff truncated]"
}
