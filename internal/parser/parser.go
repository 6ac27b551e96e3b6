package parser

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"gitmuse/internal/commit"
	"gitmuse/internal/utils"
)

// ErrUnparseable means every strategy was exhausted without producing a
// usable record; the caller degrades to the fallback generator.
var ErrUnparseable = errors.New("model response could not be parsed into a commit record")

// Strategy is one attempt at turning raw model output into a Record. Apply
// returns ok=false when the strategy does not apply to this text; the chain
// then moves on to the next, weaker strategy.
type Strategy struct {
	Name  string
	Apply func(raw string) (commit.Record, bool)
}

// Chain returns the ordered strategies, strongest first.
func Chain() []Strategy {
	return []Strategy{
		{Name: "strict-json", Apply: strictJSON},
		{Name: "embedded-json", Apply: embeddedJSON},
		{Name: "conventional-commit", Apply: conventionalCommit},
		{Name: "free-text", Apply: freeText},
	}
}

// Parse runs the strategy chain on raw output, rejecting any candidate whose
// subject is empty or looks like an echo of the prompt instructions.
func Parse(raw string, placeholderPhrases []string) (commit.Record, error) {
	raw = stripFences(strings.TrimSpace(raw))
	if raw == "" {
		return commit.Record{}, ErrUnparseable
	}

	for _, s := range Chain() {
		rec, ok := s.Apply(raw)
		if !ok {
			continue
		}
		rec.Subject = cleanSubject(rec.Subject)
		if rec.Subject == "" || isPlaceholder(rec.Subject, placeholderPhrases) {
			continue
		}
		return rec, nil
	}

	return commit.Record{}, ErrUnparseable
}

// jsonRecord tolerates the field aliases local models tend to emit.
type jsonRecord struct {
	Type        string `json:"type"`
	CommitType  string `json:"commit_type"`
	Subject     string `json:"subject"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Body        string `json:"body"`
}

func (j jsonRecord) toRecord() (commit.Record, bool) {
	typ := j.Type
	if typ == "" {
		typ = j.CommitType
	}
	subject := j.Subject
	if subject == "" {
		subject = j.Title
	}
	if subject == "" {
		subject = j.Description
	}
	if strings.TrimSpace(typ) == "" || strings.TrimSpace(subject) == "" {
		return commit.Record{}, false
	}
	return commit.Record{Type: typ, Subject: subject, Body: j.Body}, true
}

func strictJSON(raw string) (commit.Record, bool) {
	var j jsonRecord
	if err := json.Unmarshal([]byte(raw), &j); err != nil {
		return commit.Record{}, false
	}
	return j.toRecord()
}

func embeddedJSON(raw string) (commit.Record, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || start >= end {
		return commit.Record{}, false
	}

	var j jsonRecord
	if err := json.Unmarshal([]byte(raw[start:end+1]), &j); err != nil {
		return commit.Record{}, false
	}
	return j.toRecord()
}

var conventionalRe = regexp.MustCompile(`(?i)^([a-z]+)(\([^)]*\))?!?:\s*(.+)$`)

func conventionalCommit(raw string) (commit.Record, bool) {
	firstLine, rest := splitFirstLine(raw)

	m := conventionalRe.FindStringSubmatch(strings.TrimSpace(firstLine))
	if m == nil {
		return commit.Record{}, false
	}
	typ, ok := commit.LookupType(m[1])
	if !ok {
		// Arbitrary prose like "Note: ..." falls through to free-text.
		return commit.Record{}, false
	}

	return commit.Record{Type: typ, Subject: m[3], Body: bodyAfterBlank(rest)}, true
}

func freeText(raw string) (commit.Record, bool) {
	firstLine, rest := splitFirstLine(raw)
	if strings.TrimSpace(firstLine) == "" {
		return commit.Record{}, false
	}
	return commit.Record{Type: "feat", Subject: firstLine, Body: bodyAfterBlank(rest)}, true
}

func splitFirstLine(s string) (first, rest string) {
	if idx := strings.Index(s, "\n"); idx >= 0 {
		return s[:idx], s[idx+1:]
	}
	return s, ""
}

// bodyAfterBlank takes everything after the first blank separator line; if no
// separator exists the remainder is used as-is.
func bodyAfterBlank(rest string) string {
	rest = strings.ReplaceAll(rest, "\r\n", "\n")
	lines := strings.Split(rest, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			return strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
		}
	}
	return strings.TrimSpace(rest)
}

// stripFences removes markdown code fences models love to wrap JSON in.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func cleanSubject(s string) string {
	s = utils.CondenseSpaces(s)
	s = strings.Trim(s, "\"'`")
	return strings.TrimSpace(s)
}

func isPlaceholder(subject string, phrases []string) bool {
	lower := strings.ToLower(subject)
	for _, phrase := range phrases {
		if phrase == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}
