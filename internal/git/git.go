package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Source exposes the git operations the pipeline needs: one diff capture up
// front, one commit (and optional push) after formatting.
type Source interface {
	Diff(ctx context.Context, staged bool, contextLines int) (string, error)
	Commit(ctx context.Context, headline, body string) error
	Push(ctx context.Context, remote string) error
}

// CLI is a Source backed by the system git binary.
type CLI struct {
	// Exec builds commands; overridable in tests.
	Exec func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewCLI returns a Source that shells out to git.
func NewCLI() *CLI {
	return &CLI{
		Exec: func(ctx context.Context, name string, args ...string) *exec.Cmd {
			return exec.CommandContext(ctx, name, args...)
		},
	}
}

// EnsureInstalled verifies the git binary is on PATH. Without it there is no
// diff to work from, so callers treat failure as fatal.
func EnsureInstalled() error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git binary not found in PATH: %w", err)
	}
	return nil
}

// Diff captures pending changes: staged only, or the full working tree delta
// against HEAD. Rename detection stays on to keep moved files readable.
func (c *CLI) Diff(ctx context.Context, staged bool, contextLines int) (string, error) {
	args := []string{"--no-pager", "diff", "-M", "-U" + strconv.Itoa(contextLines)}
	if staged {
		args = append(args, "--staged")
	} else {
		args = append(args, "HEAD")
	}

	cmd := c.Exec(ctx, "git", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git diff failed: %v\n%s", err, out.String())
	}
	return out.String(), nil
}

// Commit records the message as two -m parts so git keeps the blank line
// between headline and body.
func (c *CLI) Commit(ctx context.Context, headline, body string) error {
	if strings.TrimSpace(headline) == "" {
		return fmt.Errorf("refusing to commit with empty headline")
	}

	args := []string{"commit", "-m", headline}
	if strings.TrimSpace(body) != "" {
		args = append(args, "-m", body)
	}

	cmd := c.Exec(ctx, "git", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git commit failed: %v\n%s", err, string(output))
	}
	return nil
}

// Push sends the current branch to the given remote.
func (c *CLI) Push(ctx context.Context, remote string) error {
	cmd := c.Exec(ctx, "git", "push", remote)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git push to %s failed: %w", remote, err)
	}
	return nil
}

// StageAll adds every pending change before an unstaged-mode commit.
func (c *CLI) StageAll(ctx context.Context) error {
	cmd := c.Exec(ctx, "git", "add", "-A")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git add failed: %v\n%s", err, string(output))
	}
	return nil
}
