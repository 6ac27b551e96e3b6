package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"gitmuse/internal/commit"
	"gitmuse/internal/config"
	"gitmuse/internal/fallback"
	"gitmuse/internal/git"
	"gitmuse/internal/ollama"
	"gitmuse/internal/parser"
	"gitmuse/internal/prompt"
	"gitmuse/internal/utils"
)

// State labels the pipeline's position, mostly for diagnostics and tests.
type State string

const (
	StateCapturingDiff   State = "capturing_diff"
	StateBuildingPrompt  State = "building_prompt"
	StateInvokingModel   State = "invoking_model"
	StateParsingResponse State = "parsing_response"
	StateFallbackPath    State = "fallback_path"
	StateFormatting      State = "formatting"
	StateDone            State = "done"
	StateNoChanges       State = "no_changes"
)

// ModelClient is the slice of the ollama client the pipeline needs.
type ModelClient interface {
	Chat(ctx context.Context, model, system, user string) (string, error)
	Pull(ctx context.Context, model string, progress func(status string)) error
}

// Core sequences one diff capture, at most one model invocation (plus one
// retry after a model pull), one parse, and one format step. Model and parse
// failures degrade to the diff-derived fallback record; they never abort.
type Core struct {
	git git.Source
	llm ModelClient
	cfg config.Config

	// Progress, when set, receives human-readable status updates.
	Progress func(status string)
}

func New(src git.Source, llm ModelClient, cfg config.Config) *Core {
	if src == nil || llm == nil {
		panic("core: git source and model client must be non-nil")
	}
	return &Core{git: src, llm: llm, cfg: cfg}
}

// Result is the outcome of one pipeline run.
type Result struct {
	State          State
	Record         commit.Record
	Message        commit.Message
	UsedFallback   bool
	FallbackReason string
}

// Run executes the pipeline once. The returned error is non-nil only for
// failures with no fallback path, i.e. the diff could not be captured.
func (c *Core) Run(ctx context.Context) (Result, error) {
	c.progress("Reading pending changes...")
	diff, err := c.git.Diff(ctx, c.cfg.Staged, c.cfg.ContextLines)
	if err != nil {
		return Result{State: StateCapturingDiff}, fmt.Errorf("capturing diff: %w", err)
	}

	diff = utils.TrimDiff(diff, c.cfg.MaxDiffBytes)
	if strings.TrimSpace(diff) == "" {
		return Result{State: StateNoChanges}, nil
	}

	record, usedFallback, reason := c.generateRecord(ctx, diff)

	result := Result{
		State:          StateDone,
		Record:         record,
		UsedFallback:   usedFallback,
		FallbackReason: reason,
	}
	result.Message = commit.Format(record, commit.FormatOptions{
		MaxSubjectLen: c.cfg.MaxSubjectLen,
		NoEmoji:       c.cfg.NoEmoji,
	})
	return result, nil
}

// generateRecord tries the model path and substitutes the fallback record on
// any transport or parse failure.
func (c *Core) generateRecord(ctx context.Context, diff string) (rec commit.Record, usedFallback bool, reason string) {
	p, err := prompt.Build(diff, c.cfg)
	if err != nil {
		// Unreachable in practice: the empty-diff case exits above.
		log.Warn().Err(err).Msg("Prompt construction failed, using fallback message")
		return fallback.Generate(diff), true, err.Error()
	}

	c.progress("Asking " + c.cfg.Model + " for a commit message...")
	raw, err := c.invokeModel(ctx, p)
	if err != nil {
		log.Warn().Err(err).Msg("Model invocation failed, using fallback message")
		return fallback.Generate(diff), true, err.Error()
	}

	record, err := parser.Parse(raw, c.cfg.PlaceholderPhrases)
	if err != nil {
		log.Warn().Err(err).Msg("Model response unusable, using fallback message")
		return fallback.Generate(diff), true, err.Error()
	}

	return record, false, ""
}

// invokeModel performs the single chat call, with one pull-and-retry when the
// model is not yet registered with the service. Timeouts are never retried:
// that would risk doubling an already long wait.
func (c *Core) invokeModel(ctx context.Context, p prompt.Prompt) (string, error) {
	chatCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	raw, err := c.llm.Chat(chatCtx, c.cfg.Model, p.System, p.User)
	if err == nil || !errors.Is(err, ollama.ErrModelMissing) {
		return raw, err
	}

	log.Warn().Str("model", c.cfg.Model).Msg("Model not available, pulling it")
	c.progress("Pulling model " + c.cfg.Model + "...")
	if pullErr := c.llm.Pull(ctx, c.cfg.Model, c.progressFn()); pullErr != nil {
		return "", fmt.Errorf("pulling model: %w", pullErr)
	}

	c.progress("Retrying " + c.cfg.Model + "...")
	retryCtx, cancelRetry := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancelRetry()
	return c.llm.Chat(retryCtx, c.cfg.Model, p.System, p.User)
}

func (c *Core) progress(status string) {
	if c.Progress != nil {
		c.Progress(status)
	}
}

func (c *Core) progressFn() func(string) {
	if c.Progress == nil {
		return nil
	}
	return c.Progress
}

