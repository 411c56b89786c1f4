package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dcosson/castrec/internal/clipboard"
)

func newCopyCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "copy <recording.cast>",
		Short: "Copy a recording's raw content to the system clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := clipboard.CopyFile(args[0])
			if err != nil {
				return fmt.Errorf("copy: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message(args[0]))
			return nil
		},
	}
	return c
}
