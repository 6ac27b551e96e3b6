package commit

import (
	"strings"

	"gitmuse/internal/utils"
)

// typeEmoji assigns each taxonomy member its gitmoji-style glyph.
var typeEmoji = map[string]string{
	"feat":     "✨",
	"fix":      "🐛",
	"docs":     "📝",
	"style":    "🎨",
	"refactor": "♻️",
	"perf":     "⚡",
	"test":     "✅",
	"build":    "📦",
	"ci":       "👷",
	"chore":    "🔧",
	"revert":   "⏪",
}

// FormatOptions controls normalization limits.
type FormatOptions struct {
	MaxSubjectLen int
	NoEmoji       bool
}

// Format normalizes a Record into the final conventional-commit message:
// canonical type, emoji-prefixed subject capped at MaxSubjectLen, body with
// consistent leading-dash bullets. Format is idempotent: feeding the output
// back through yields the same Message.
func Format(r Record, opts FormatOptions) Message {
	if opts.MaxSubjectLen <= 0 {
		opts.MaxSubjectLen = 72
	}

	typ := NormalizeType(r.Type)

	glyph, subject := splitLeadingGlyph(strings.TrimSpace(r.Subject))
	subject = utils.CondenseSpaces(subject)
	subject = strings.TrimRight(subject, ".")
	if subject == "" {
		subject = "update working tree"
	}
	subject = utils.Truncate(subject, opts.MaxSubjectLen)

	if glyph == "" && !opts.NoEmoji {
		glyph = typeEmoji[typ]
	}
	if glyph != "" {
		subject = glyph + " " + subject
	}

	return Message{
		Headline: typ + ": " + subject,
		Body:     normalizeBody(r.Body),
	}
}

// splitLeadingGlyph peels a recognized emoji off the front of a subject so it
// survives re-formatting without being doubled.
func splitLeadingGlyph(s string) (glyph, rest string) {
	for _, t := range canonicalTypes {
		g := typeEmoji[t]
		if strings.HasPrefix(s, g) {
			rest = strings.TrimPrefix(s, g)
			rest = strings.TrimLeft(rest, "️")
			return g, strings.TrimSpace(rest)
		}
	}
	return "", s
}

var bulletMarkers = []string{"- ", "* ", "• "}

// normalizeBody reformats bullet markers to a consistent "- " prefix and
// strips surrounding blank lines.
func normalizeBody(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}

	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			out = append(out, "")
			continue
		}
		for _, marker := range bulletMarkers {
			if strings.HasPrefix(trimmed, marker) {
				trimmed = "- " + strings.TrimSpace(trimmed[len(marker):])
				break
			}
		}
		out = append(out, trimmed)
	}

	return strings.Join(out, "\n")
}
