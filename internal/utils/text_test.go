package utils

import (
	"strings"
	"testing"
)

func TestCondenseSpaces(t *testing.T) {
	tests := []struct{ in, want string }{
		{"a  b\tc", "a b c"},
		{"  padded  ", "padded"},
		{"one\n\ntwo", "one two"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CondenseSpaces(tt.in); got != tt.want {
			t.Errorf("CondenseSpaces(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate() = %q", got)
	}
	got := Truncate(strings.Repeat("x", 20), 10)
	if len([]rune(got)) != 10 || !strings.HasSuffix(got, "…") {
		t.Errorf("Truncate() = %q", got)
	}
	if got := Truncate("anything", 0); got != "" {
		t.Errorf("Truncate(n=0) = %q", got)
	}
}

func TestTrimDiff(t *testing.T) {
	diff := "line one\nline two\nline three\n"
	if got := TrimDiff(diff, 1000); got != diff {
		t.Errorf("TrimDiff below limit modified input")
	}

	got := TrimDiff(diff, 12)
	if !strings.HasSuffix(got, "…[diff truncated]") {
		t.Errorf("TrimDiff() = %q, missing truncation marker", got)
	}
	if strings.Contains(got, "line two") {
		t.Errorf("TrimDiff() = %q, cut should land on a line boundary", got)
	}
}
