// Package cmd implements castrec's cobra CLI surface: record, play,
// list, cleanup, copy, analyze, and config, one constructor function per
// subcommand.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dcosson/castrec/internal/config"
)

// NewRootCmd builds the root cobra command with every castrec subcommand
// attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "castrec",
		Short: "Record, replay, clean, and analyze terminal sessions",
		Long: `castrec records terminal sessions as asciicast v3 files, replays them
with a native player (seek, speed control, markers, viewport scrolling),
and cleans raw PTY output into a compact chronological story suitable
for LLM analysis.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newRecordCmd(),
		newPlayCmd(),
		newListCmd(),
		newCleanupCmd(),
		newCopyCmd(),
		newAnalyzeCmd(),
		newConfigCmd(),
	)
	return root
}

// loadConfig loads castrec's settings file, falling back to defaults on
// any "not found" condition (config.Load already does this internally).
func loadConfig() (*config.Config, error) {
	return config.Load()
}
