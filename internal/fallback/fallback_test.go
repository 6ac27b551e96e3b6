package fallback

import (
	"fmt"
	"strings"
	"testing"
)

const docsDiff = `diff --git a/README.md b/README.md
index 111..222 100644
--- a/README.md
+++ b/README.md
@@ -1 +1,2 @@
 # Project
+More docs.
diff --git a/docs/guide.md b/docs/guide.md
--- a/docs/guide.md
+++ b/docs/guide.md
@@ -1 +1,2 @@
 Guide
+Another line.
`

func TestGenerateClassification(t *testing.T) {
	tests := []struct {
		name     string
		diff     string
		wantType string
	}{
		{
			name:     "documentation only",
			diff:     docsDiff,
			wantType: "docs",
		},
		{
			name: "test files only",
			diff: "diff --git a/internal/parser/parser_test.go b/internal/parser/parser_test.go\n" +
				"+++ b/internal/parser/parser_test.go\n+func TestMore(t *testing.T) {}\n",
			wantType: "test",
		},
		{
			name:     "stylesheets only",
			diff:     "+++ b/web/styles/main.scss\n+.button { color: red; }\n",
			wantType: "style",
		},
		{
			name:     "bug keywords in added lines",
			diff:     "+++ b/server/handler.go\n+// fix panic when body is nil\n+if body == nil { return }\n",
			wantType: "fix",
		},
		{
			name:     "bug keyword only in removed lines is ignored",
			diff:     "+++ b/server/handler.go\n-// old bug note\n+return newHandler()\n",
			wantType: "feat",
		},
		{
			name:     "default is feat",
			diff:     "+++ b/server/router.go\n+mux.Handle(\"/v2\", v2)\n",
			wantType: "feat",
		},
		{
			name:     "docs requires every file to be documentation",
			diff:     "+++ b/README.md\n+docs\n+++ b/server/router.go\n+mux.Handle(\"/v2\", v2)\n",
			wantType: "feat",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.diff)
			if got.Type != tt.wantType {
				t.Errorf("Generate() Type = %q, want %q", got.Type, tt.wantType)
			}
		})
	}
}

func TestGenerateNeverFails(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"not a diff at all",
		docsDiff,
		strings.Repeat("+++ b/file.go\n+x\n", 100),
	}
	for i, diff := range inputs {
		got := Generate(diff)
		if got.Type == "" {
			t.Errorf("input %d: empty type", i)
		}
		if strings.TrimSpace(got.Subject) == "" {
			t.Errorf("input %d: empty subject", i)
		}
		if !strings.Contains(got.Body, Notice) {
			t.Errorf("input %d: body missing fallback notice", i)
		}
	}
}

func TestChangedFiles(t *testing.T) {
	diff := `diff --git a/cmd/run.go b/cmd/run.go
+++ b/cmd/run.go
diff --git a/old/dead.go b/old/dead.go
--- a/old/dead.go
+++ /dev/null
`
	got := ChangedFiles(diff)
	want := []string{"cmd/run.go", "old/dead.go"}
	if len(got) != len(want) {
		t.Fatalf("ChangedFiles() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ChangedFiles()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBodyFileCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 9; i++ {
		fmt.Fprintf(&b, "+++ b/pkg/file%d.go\n+x\n", i)
	}

	got := Generate(b.String())
	if !strings.Contains(got.Body, "- +4 more") {
		t.Errorf("body missing overflow marker:\n%s", got.Body)
	}
	// maxBodyFiles file bullets plus the overflow bullet.
	if strings.Count(got.Body, "\n- ") > maxBodyFiles+1 {
		t.Errorf("body lists more than %d files:\n%s", maxBodyFiles, got.Body)
	}
	if !strings.Contains(got.Subject, "8 other files") {
		t.Errorf("subject = %q", got.Subject)
	}
}
