package parser

import (
	"errors"
	"testing"

	"gitmuse/internal/commit"
	"gitmuse/internal/config"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    commit.Record
		wantErr bool
	}{
		{
			name: "strict JSON",
			raw:  `{"type":"fix","subject":"handle nil pointer in parser","body":"- add nil check"}`,
			want: commit.Record{Type: "fix", Subject: "handle nil pointer in parser", Body: "- add nil check"},
		},
		{
			name: "strict JSON with title alias",
			raw:  `{"type":"docs","title":"update install guide"}`,
			want: commit.Record{Type: "docs", Subject: "update install guide"},
		},
		{
			name: "strict JSON wins over conventional-looking subject",
			raw:  `{"type":"refactor","subject":"fix: this is not a conventional commit"}`,
			want: commit.Record{Type: "refactor", Subject: "fix: this is not a conventional commit"},
		},
		{
			name: "JSON fenced in markdown",
			raw:  "```json\n{\"type\":\"feat\",\"subject\":\"add retry logic\"}\n```",
			want: commit.Record{Type: "feat", Subject: "add retry logic"},
		},
		{
			name: "embedded JSON in prose",
			raw:  `Sure! {"type":"feat","subject":"add retry logic","body":"- added retries"} Hope that helps!`,
			want: commit.Record{Type: "feat", Subject: "add retry logic", Body: "- added retries"},
		},
		{
			name: "conventional commit with body",
			raw:  "fix: correct off-by-one error\n\nAdjusted loop bound in parser.",
			want: commit.Record{Type: "fix", Subject: "correct off-by-one error", Body: "Adjusted loop bound in parser."},
		},
		{
			name: "conventional commit with scope",
			raw:  "feat(api): add pagination",
			want: commit.Record{Type: "feat", Subject: "add pagination"},
		},
		{
			name: "conventional commit with synonym type",
			raw:  "bugfix: stop panic on empty input",
			want: commit.Record{Type: "fix", Subject: "stop panic on empty input"},
		},
		{
			name: "free text defaults to feat",
			raw:  "Add request caching layer\n\nCaches repeated lookups for an hour.",
			want: commit.Record{Type: "feat", Subject: "Add request caching layer", Body: "Caches repeated lookups for an hour."},
		},
		{
			name: "unknown prefix word is not a conventional type",
			raw:  "Note: remember to update the changelog",
			want: commit.Record{Type: "feat", Subject: "Note: remember to update the changelog"},
		},
		{
			name: "quoted subject gets unquoted",
			raw:  `"Add config reload support"`,
			want: commit.Record{Type: "feat", Subject: "Add config reload support"},
		},
		{
			name:    "placeholder echo is rejected",
			raw:     `{"type":"feat","subject":"Your title here"}`,
			wantErr: true,
		},
		{
			name:    "instruction echo in free text is rejected",
			raw:     "Use bullet points in the body",
			wantErr: true,
		},
		{
			name:    "empty response",
			raw:     "   \n\t  ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw, config.DefaultPlaceholderPhrases)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnparseable) {
					t.Errorf("Parse() error = %v, want ErrUnparseable", err)
				}
				return
			}
			if got.Type != tt.want.Type {
				t.Errorf("Parse() Type = %q, want %q", got.Type, tt.want.Type)
			}
			if got.Subject != tt.want.Subject {
				t.Errorf("Parse() Subject = %q, want %q", got.Subject, tt.want.Subject)
			}
			if got.Body != tt.want.Body {
				t.Errorf("Parse() Body = %q, want %q", got.Body, tt.want.Body)
			}
		})
	}
}

func TestChainOrder(t *testing.T) {
	names := []string{"strict-json", "embedded-json", "conventional-commit", "free-text"}
	chain := Chain()
	if len(chain) != len(names) {
		t.Fatalf("Chain() has %d strategies, want %d", len(chain), len(names))
	}
	for i, want := range names {
		if chain[i].Name != want {
			t.Errorf("Chain()[%d] = %q, want %q", i, chain[i].Name, want)
		}
	}
}

func TestPlaceholderRejectionFallsThrough(t *testing.T) {
	// The embedded-JSON strategy parses but yields an instruction echo; the
	// chain must keep going instead of giving up at the first structural match.
	raw := "fix: real subject on the first line\n{\"type\":\"feat\",\"subject\":\"your title here\"}"
	got, err := Parse(raw, config.DefaultPlaceholderPhrases)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got.Type != "fix" || got.Subject != "real subject on the first line" {
		t.Errorf("Parse() = %+v", got)
	}
}
