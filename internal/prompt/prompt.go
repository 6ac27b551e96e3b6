package prompt

import (
	"errors"
	"fmt"
	"strings"

	"gitmuse/internal/commit"
	"gitmuse/internal/config"
)

// ErrEmptyDiff is returned when there is nothing to describe. The
// orchestrator checks for pending changes first, so hitting this means a
// caller skipped that step.
var ErrEmptyDiff = errors.New("diff text cannot be empty")

// Prompt pairs the system instruction (persona and output contract) with the
// user instruction (diff plus formatting rules).
type Prompt struct {
	System string
	User   string
}

const systemTemplate = `You are an AI assistant that writes git commit messages as a senior engineer.
Analyze the diff you are given and respond with a single JSON object describing the commit.

Respond with exactly this shape and nothing else:
{"type":"<type>","subject":"<subject>","body":"<body>"}

Rules:
• "type" must be one of [%s].
• "subject" is a short imperative summary of the change (max %d characters, no trailing period).
• "body" elaborates with one bullet per change, each line starting with "- ". It may be empty.
• Mention the actual file names present in the diff where it helps.
• Output only valid JSON. No prose, markdown, or backticks. NO YAPPING!`

// Build composes the prompt pair for a diff. Pure function of the diff and
// config; fails fast on an empty diff.
func Build(diff string, cfg config.Config) (Prompt, error) {
	if strings.TrimSpace(diff) == "" {
		return Prompt{}, ErrEmptyDiff
	}

	system := fmt.Sprintf(systemTemplate,
		quoteJoin(commit.Types()), cfg.MaxSubjectLen)

	var user strings.Builder
	user.WriteString("Git diff:\n\n")
	user.WriteString(diff)
	user.WriteString("\n\nBased on this diff, generate the commit message JSON object.")
	if cfg.Subject != "" {
		fmt.Fprintf(&user, "\n\nFocus the commit message on the following subject: %s", cfg.Subject)
	}

	return Prompt{System: system, User: user.String()}, nil
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = `"` + item + `"`
	}
	return strings.Join(quoted, ",")
}
