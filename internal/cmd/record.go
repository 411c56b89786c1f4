package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dcosson/castrec/internal/capture"
	"github.com/dcosson/castrec/internal/cast"
	"github.com/dcosson/castrec/internal/filenames"
)

func newRecordCmd() *cobra.Command {
	var outPath string
	var title string

	c := &cobra.Command{
		Use:   "record -- <command> [args...]",
		Short: "Record a terminal session to a .cast file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			rec := &capture.Recorder{Command: args[0], Args: args[1:]}
			exitCode, runErr := rec.Run()

			path := outPath
			if path == "" {
				if err := os.MkdirAll(cfg.RecordingDir, 0o755); err != nil {
					return fmt.Errorf("record: create recording dir: %w", err)
				}
				command := rec.Command
				for _, a := range rec.Args {
					command += " " + a
				}
				path = filepath.Join(cfg.RecordingDir, filenames.Generate(command, time.Now()))
			}

			// rec.Run already appended the session's Exit event, so the
			// assembled cast needs no further mutation beyond the title.
			recCast := rec.Cast()
			recCast.Header.Title = title

			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("record: create %s: %w", path, err)
			}
			defer f.Close()
			if err := cast.Emit(f, recCast, cast.Quantum); err != nil {
				return fmt.Errorf("record: write %s: %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded session to %s\n", path)
			if runErr != nil {
				return fmt.Errorf("record: child process: %w", runErr)
			}
			if exitCode != 0 {
				os.Exit(exitCode)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&outPath, "output", "o", "", "output .cast path (default: generated filename under the configured recording dir)")
	c.Flags().StringVarP(&title, "title", "t", "", "recording title stored in the cast header")
	return c
}
