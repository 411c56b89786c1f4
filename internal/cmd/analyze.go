package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dcosson/castrec/internal/analyzer"
	"github.com/dcosson/castrec/internal/cast"
	"github.com/dcosson/castrec/internal/castfile"
	"github.com/dcosson/castrec/internal/transform"
)

func newAnalyzeCmd() *cobra.Command {
	var backendName string
	var prompt string
	var write bool

	c := &cobra.Command{
		Use:   "analyze <recording.cast>",
		Short: "Extract a recording's chronological story and send it to an LLM backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if backendName == "" {
				backendName = cfg.Analyzer.Backend
			}

			f, err := os.Open(path)
			if err != nil {
				return argErrorf("analyze: open %s: %w", path, err)
			}
			parsed, err := cast.Parse(f)
			f.Close()
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}

			storyCfg := transform.DefaultStoryConfig()
			storyCfg.Cols, storyCfg.Rows = parsed.Header.Term.Cols, parsed.Header.Term.Rows
			if len(cfg.NoisePhrases) > 0 {
				storyCfg.NoisePhrases = cfg.NoisePhrases
			}
			pipeline := transform.DefaultAnalysisPipeline(storyCfg)
			events := pipeline.Run(parsed.Events)

			var story strings.Builder
			for _, ev := range events {
				if ev.Kind == cast.KindOutput {
					story.WriteString(ev.Payload)
				}
			}

			backend, err := analyzer.ByName(backendName, cfg.Analyzer.Timeout)
			if err != nil {
				return argErrorf("analyze: %w", err)
			}

			fullPrompt := prompt
			if fullPrompt == "" {
				fullPrompt = "Summarize this recorded terminal session:"
			}
			fullPrompt += "\n\n" + story.String()

			ctx, cancel := context.WithTimeout(cmd.Context(), backendTimeout(cfg.Analyzer.Timeout))
			defer cancel()
			result, err := backend.Run(ctx, fullPrompt)
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), result)

			if write {
				sidecar := path + ".analysis.md"
				if err := castfile.WithLock(path, func() error {
					return castfile.WriteAtomic(sidecar, []byte(result))
				}); err != nil {
					return fmt.Errorf("analyze: write %s: %w", sidecar, err)
				}
			}
			return nil
		},
	}

	c.Flags().StringVar(&backendName, "backend", "", "analyzer backend override (claude, codex, gemini)")
	c.Flags().StringVar(&prompt, "prompt", "", "custom prompt prefix (default: a session summary request)")
	c.Flags().BoolVar(&write, "write", false, "save the backend's response alongside the recording as <name>.analysis.md")
	return c
}

func backendTimeout(configured time.Duration) time.Duration {
	if configured > 0 {
		return configured
	}
	return 120 * time.Second
}
