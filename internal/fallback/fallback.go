package fallback

import (
	"fmt"
	"path"
	"strings"

	"gitmuse/internal/commit"
)

// Notice is appended to every fallback body so readers know no model was
// involved in writing the message.
const Notice = "Generated from the diff without model assistance (fallback)."

// maxBodyFiles caps the per-file bullet list in the body.
const maxBodyFiles = 5

// classifier is one row of the ordered classification table. Rows are
// evaluated top to bottom; the first match wins.
type classifier struct {
	typ   string
	match func(files []string, diff string) bool
}

var classifiers = []classifier{
	{typ: "docs", match: allFilesMatch(hasExt(".md", ".markdown", ".rst", ".adoc", ".txt"))},
	{typ: "test", match: allFilesMatch(isTestFile)},
	{typ: "style", match: allFilesMatch(hasExt(".css", ".scss", ".sass", ".less"))},
	{typ: "fix", match: diffMentionsBug},
	{typ: "feat", match: func([]string, string) bool { return true }},
}

// Generate deterministically builds a commit record from the diff alone.
// It has no external dependencies and never fails; this is the pipeline's
// safety net when the model path produces nothing usable.
func Generate(diff string) commit.Record {
	files := ChangedFiles(diff)

	typ := "feat"
	for _, c := range classifiers {
		if c.match(files, diff) {
			typ = c.typ
			break
		}
	}

	return commit.Record{
		Type:    typ,
		Subject: buildSubject(files),
		Body:    buildBody(files),
	}
}

// ChangedFiles extracts the changed file paths from "+++ b/..." diff headers,
// falling back to "diff --git" lines for deletions, preserving diff order.
func ChangedFiles(diff string) []string {
	seen := make(map[string]bool)
	var files []string
	add := func(f string) {
		f = strings.TrimSpace(f)
		if f == "" || f == "/dev/null" || seen[f] {
			return
		}
		seen[f] = true
		files = append(files, f)
	}

	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++ b/"):
			add(strings.TrimPrefix(line, "+++ b/"))
		case strings.HasPrefix(line, "diff --git a/"):
			// Deleted files never get a "+++ b/" header.
			rest := strings.TrimPrefix(line, "diff --git a/")
			if idx := strings.Index(rest, " b/"); idx >= 0 {
				add(rest[idx+len(" b/"):])
			}
		}
	}
	return files
}

func buildSubject(files []string) string {
	switch len(files) {
	case 0:
		return "update working tree"
	case 1:
		return "update " + path.Base(files[0])
	case 2:
		return fmt.Sprintf("update %s and %s", path.Base(files[0]), path.Base(files[1]))
	default:
		return fmt.Sprintf("update %s and %d other files", path.Base(files[0]), len(files)-1)
	}
}

func buildBody(files []string) string {
	var b strings.Builder
	if len(files) > 0 {
		b.WriteString("Changed files:\n")
		for i, f := range files {
			if i == maxBodyFiles {
				fmt.Fprintf(&b, "- +%d more\n", len(files)-maxBodyFiles)
				break
			}
			fmt.Fprintf(&b, "- %s\n", f)
		}
		b.WriteString("\n")
	}
	b.WriteString(Notice)
	return b.String()
}

func hasExt(exts ...string) func(string) bool {
	return func(file string) bool {
		lower := strings.ToLower(file)
		for _, ext := range exts {
			if strings.HasSuffix(lower, ext) {
				return true
			}
		}
		return false
	}
}

func isTestFile(file string) bool {
	base := strings.ToLower(path.Base(file))
	return strings.HasSuffix(strings.TrimSuffix(base, path.Ext(base)), "_test") ||
		strings.HasPrefix(base, "test_") ||
		strings.Contains(strings.ToLower(file), "/tests/") ||
		strings.HasSuffix(base, ".spec.js") || strings.HasSuffix(base, ".spec.ts")
}

func allFilesMatch(pred func(string) bool) func([]string, string) bool {
	return func(files []string, _ string) bool {
		if len(files) == 0 {
			return false
		}
		for _, f := range files {
			if !pred(f) {
				return false
			}
		}
		return true
	}
}

var bugWords = []string{"fix", "bug", "error", "panic", "crash", "issue", "fault"}

// diffMentionsBug scans only added lines so deleted code cannot misclassify
// the change.
func diffMentionsBug(_ []string, diff string) bool {
	for _, line := range strings.Split(diff, "\n") {
		if !strings.HasPrefix(line, "+") || strings.HasPrefix(line, "+++") {
			continue
		}
		lower := strings.ToLower(line)
		for _, word := range bugWords {
			if strings.Contains(lower, word) {
				return true
			}
		}
	}
	return false
}
