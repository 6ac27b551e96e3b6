package commit

import "strings"

// Record is the structured result of a generation attempt, before
// normalization. Type must end up in the canonical taxonomy, Subject must be
// non-empty before formatting proceeds, Body may be empty.
type Record struct {
	Type    string
	Subject string
	Body    string
}

// Message is the final two-part commit message handed to git.
type Message struct {
	Headline string
	Body     string
}

func (m Message) String() string {
	if m.Body == "" {
		return m.Headline
	}
	return m.Headline + "\n\n" + m.Body
}

// canonicalTypes is the closed commit type taxonomy, in display order.
var canonicalTypes = []string{
	"feat", "fix", "docs", "style", "refactor",
	"perf", "test", "build", "ci", "chore", "revert",
}

// typeSynonyms maps common variants onto the taxonomy.
var typeSynonyms = map[string]string{
	"feature":       "feat",
	"bug":           "fix",
	"bugfix":        "fix",
	"hotfix":        "fix",
	"doc":           "docs",
	"documentation": "docs",
	"tests":         "test",
	"testing":       "test",
	"performance":   "perf",
	"cleanup":       "chore",
	"maintenance":   "chore",
}

// Types returns the canonical taxonomy.
func Types() []string {
	out := make([]string, len(canonicalTypes))
	copy(out, canonicalTypes)
	return out
}

// IsCanonicalType reports whether t is already a taxonomy member.
func IsCanonicalType(t string) bool {
	for _, c := range canonicalTypes {
		if t == c {
			return true
		}
	}
	return false
}

// LookupType resolves a raw type word against the taxonomy and synonym
// table, reporting whether it matched at all.
func LookupType(t string) (string, bool) {
	candidate := strings.ToLower(strings.TrimSpace(t))
	candidate = strings.Trim(candidate, "[]")
	if IsCanonicalType(candidate) {
		return candidate, true
	}
	if mapped, ok := typeSynonyms[candidate]; ok {
		return mapped, true
	}
	for _, c := range canonicalTypes {
		if strings.HasPrefix(candidate, c) {
			return c, true
		}
	}
	return "", false
}

// NormalizeType maps a raw type onto the taxonomy. Unknown values collapse to
// "chore": an explicit but unrecognized type usually signals maintenance-ish
// output rather than a feature.
func NormalizeType(t string) string {
	if mapped, ok := LookupType(t); ok {
		return mapped
	}
	return "chore"
}
