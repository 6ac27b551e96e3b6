package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultEndpoint      = "http://localhost:11434"
	DefaultModel         = "qwen2.5-coder:1.5b"
	DefaultTimeout       = 40 * time.Second
	DefaultRemote        = "origin"
	DefaultContextLines  = 3
	DefaultMaxSubjectLen = 72
	DefaultMaxDiffBytes  = 32000
)

// DefaultPlaceholderPhrases flags model output that echoes the prompt
// instructions instead of describing the change.
var DefaultPlaceholderPhrases = []string{
	"your title here",
	"your subject here",
	"bullet points",
	"<subject>",
	"type: subject",
	"commit message here",
}

// Config is the process-wide configuration, resolved once at startup and
// passed explicitly into the pipeline. It is never mutated after Load.
type Config struct {
	Endpoint      string
	Model         string
	Timeout       time.Duration
	Remote        string
	Staged        bool
	ContextLines  int
	MaxSubjectLen int
	MaxDiffBytes  int
	DryRun        bool
	Push          bool
	NoEmoji       bool
	Force         bool
	Subject       string

	// Phrases that disqualify a parsed subject as instruction echo.
	PlaceholderPhrases []string
}

// Load materializes a Config from the given viper instance. Flags are
// expected to be bound by the caller before Load runs.
func Load(v *viper.Viper) Config {
	cfg := Config{
		Endpoint:           v.GetString("endpoint"),
		Model:              v.GetString("model"),
		Timeout:            v.GetDuration("timeout"),
		Remote:             v.GetString("remote"),
		Staged:             v.GetBool("staged"),
		ContextLines:       v.GetInt("context"),
		MaxSubjectLen:      v.GetInt("max-subject"),
		MaxDiffBytes:       v.GetInt("max-diff-bytes"),
		DryRun:             v.GetBool("dry-run"),
		Push:               v.GetBool("push"),
		NoEmoji:            v.GetBool("no-emoji"),
		Force:              v.GetBool("force"),
		Subject:            v.GetString("subject"),
		PlaceholderPhrases: DefaultPlaceholderPhrases,
	}

	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Remote == "" {
		cfg.Remote = DefaultRemote
	}
	if cfg.ContextLines < 0 {
		cfg.ContextLines = DefaultContextLines
	}
	if cfg.MaxSubjectLen <= 0 {
		cfg.MaxSubjectLen = DefaultMaxSubjectLen
	}
	if cfg.MaxDiffBytes <= 0 {
		cfg.MaxDiffBytes = DefaultMaxDiffBytes
	}
	if phrases := v.GetStringSlice("placeholder-phrases"); len(phrases) > 0 {
		cfg.PlaceholderPhrases = phrases
	}

	return cfg
}
