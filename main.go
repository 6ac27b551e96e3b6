package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gitmuse/internal/commit"
	"gitmuse/internal/config"
	"gitmuse/internal/core"
	"gitmuse/internal/git"
	"gitmuse/internal/ollama"
	"gitmuse/internal/tui"
	"gitmuse/internal/utils"
)

const version = "0.4.0"

var rootCmd = &cobra.Command{
	Use:     "gitmuse",
	Short:   "Generate commit messages from your diff with a local model",
	Long:    "gitmuse turns the pending git diff into a conventional commit message using a local Ollama model, falling back to a diff-derived message when the model is unavailable.",
	Version: version,
	Run:     runGitmuse,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringP("model", "m", "", "Ollama model name (default "+config.DefaultModel+")")
	flags.String("endpoint", "", "Ollama base URL (default "+config.DefaultEndpoint+")")
	flags.DurationP("timeout", "t", config.DefaultTimeout, "Timeout for the model request")
	flags.Bool("staged", true, "Describe staged changes only; --staged=false diffs the working tree against HEAD")
	flags.Int("context", config.DefaultContextLines, "Diff context lines sent to the model")
	flags.Int("max-subject", config.DefaultMaxSubjectLen, "Maximum subject length")
	flags.Int("max-diff-bytes", config.DefaultMaxDiffBytes, "Maximum diff bytes sent to the model")
	flags.BoolP("dry-run", "n", false, "Print the message without committing")
	flags.Bool("push", false, "Push to the configured remote after committing")
	flags.String("remote", config.DefaultRemote, "Remote used with --push")
	flags.Bool("no-emoji", false, "Skip the type emoji in the subject")
	flags.BoolP("force", "f", false, "Commit without confirmation (needed in non-interactive environments)")
	flags.StringP("subject", "s", "", "Optional subject hint for the model")

	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("GITMUSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	// Honor the conventional Ollama variables too.
	_ = viper.BindEnv("endpoint", "GITMUSE_ENDPOINT", "OLLAMA_HOST")
	_ = viper.BindEnv("model", "GITMUSE_MODEL", "OLLAMA_MODEL")
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if utils.IsDebug() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}

func runGitmuse(cmd *cobra.Command, args []string) {
	if err := git.EnsureInstalled(); err != nil {
		log.Fatal().Err(err).Msg("Missing required tooling")
	}

	cfg := config.Load(viper.GetViper())
	src := git.NewCLI()
	llm := ollama.NewClient(cfg.Endpoint)
	c := core.New(src, llm, cfg)

	runPipeline(cmd.Context(), c, src, cfg)
}

func runPipeline(ctx context.Context, c *core.Core, src *git.CLI, cfg config.Config) {
	if ctx == nil {
		ctx = context.Background()
	}

	for {
		spinner := tui.NewSpinner()
		spinner.Start("Reading pending changes...")
		c.Progress = spinner.UpdateText

		result, err := c.Run(ctx)
		spinner.Stop()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to capture diff")
		}

		if result.State == core.StateNoChanges {
			log.Info().Msg("Nothing to commit; working tree is clean.")
			return
		}

		if result.UsedFallback {
			log.Warn().Str("reason", result.FallbackReason).Msg("Using diff-derived fallback message")
		}

		if cfg.DryRun {
			fmt.Println(result.Message.String())
			return
		}

		if !utils.IsTTY() {
			if cfg.Force {
				applyCommit(ctx, src, cfg, result.Message)
				return
			}
			fmt.Printf("Generated commit message:\n\n%s\n", result.Message.String())
			fmt.Println("\nRun with -f to apply this commit automatically in non-interactive environments.")
			return
		}

		note := ""
		if result.UsedFallback {
			note = "Model unavailable or unusable; this message was derived from the diff."
		}

		action, err := tui.Confirm(result.Message, note)
		if err != nil {
			log.Error().Err(err).Msg("Confirmation menu failed")
			os.Exit(1)
		}

		switch action {
		case tui.ActionCommit:
			applyCommit(ctx, src, cfg, result.Message)
			return
		case tui.ActionCopy:
			if err := tui.CopyToClipboard(result.Message); err != nil {
				log.Error().Err(err).Msg("Failed to copy to clipboard")
				os.Exit(1)
			}
			log.Info().Msg("Commit message copied to clipboard.")
			return
		case tui.ActionRegenerate:
			log.Info().Msg("Regenerating commit message...")
			continue
		case tui.ActionCancel:
			log.Info().Msg("Commit aborted.")
			return
		}
	}
}

func applyCommit(ctx context.Context, src *git.CLI, cfg config.Config, msg commit.Message) {
	commitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if !cfg.Staged {
		if err := src.StageAll(commitCtx); err != nil {
			log.Fatal().Err(err).Msg("Failed to stage changes")
		}
	}

	if err := src.Commit(commitCtx, msg.Headline, msg.Body); err != nil {
		log.Fatal().Err(err).Msg("Failed to create commit")
	}
	log.Info().Msg("Commit successfully created!")

	if cfg.Push {
		if err := src.Push(commitCtx, cfg.Remote); err != nil {
			log.Fatal().Err(err).Msg("Failed to push")
		}
		log.Info().Str("remote", cfg.Remote).Msg("Pushed to remote.")
	}
}
