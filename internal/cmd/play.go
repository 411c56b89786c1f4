package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dcosson/castrec/internal/cast"
	"github.com/dcosson/castrec/internal/player"
)

func newPlayCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "play <recording.cast>",
		Short: "Replay a recording in the native player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(args[0])
		},
	}
	return c
}

// runPlay parses path and drives it through the player against the
// process's own stdin/stdout. Extracted from RunE so internal/cmd/list.go
// can launch the player on a selected entry too.
func runPlay(path string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return argErrorf("play: open %s: %w", path, err)
	}
	c, err := cast.Parse(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("play: %w", err)
	}

	p := player.New(c, cfg.Theme, os.Stdin, os.Stdout)
	if err := p.Run(int(os.Stdin.Fd())); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	return nil
}
