package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load(viper.New())

	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultRemote, cfg.Remote)
	assert.Equal(t, DefaultMaxSubjectLen, cfg.MaxSubjectLen)
	assert.Equal(t, DefaultMaxDiffBytes, cfg.MaxDiffBytes)
	assert.Equal(t, DefaultPlaceholderPhrases, cfg.PlaceholderPhrases)
	assert.False(t, cfg.DryRun)
	assert.False(t, cfg.Push)
}

func TestLoadOverrides(t *testing.T) {
	v := viper.New()
	v.Set("endpoint", "http://llmbox:11434/")
	v.Set("model", "llama3")
	v.Set("timeout", 2*time.Minute)
	v.Set("staged", true)
	v.Set("max-subject", 50)
	v.Set("dry-run", true)
	v.Set("subject", "focus here")
	v.Set("placeholder-phrases", []string{"lorem ipsum"})

	cfg := Load(v)

	assert.Equal(t, "http://llmbox:11434/", cfg.Endpoint)
	assert.Equal(t, "llama3", cfg.Model)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.True(t, cfg.Staged)
	assert.Equal(t, 50, cfg.MaxSubjectLen)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, "focus here", cfg.Subject)
	assert.Equal(t, []string{"lorem ipsum"}, cfg.PlaceholderPhrases)
}

func TestLoadRejectsNonPositiveLimits(t *testing.T) {
	v := viper.New()
	v.Set("timeout", -1*time.Second)
	v.Set("max-subject", 0)
	v.Set("max-diff-bytes", -5)
	v.Set("context", -1)

	cfg := Load(v)

	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultMaxSubjectLen, cfg.MaxSubjectLen)
	assert.Equal(t, DefaultMaxDiffBytes, cfg.MaxDiffBytes)
	assert.Equal(t, DefaultContextLines, cfg.ContextLines)
}
