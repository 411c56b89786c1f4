package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dcosson/castrec/internal/explorer"
	"github.com/dcosson/castrec/internal/previewcache"
)

func newListCmd() *cobra.Command {
	c := &cobra.Command{
		Use:     "list",
		Aliases: []string{"browse"},
		Short:   "Browse recordings and replay one in the native player",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			cache := previewcache.New(64, previewcache.FileLoader())
			defer cache.Close()

			st, err := explorer.New(explorer.FlavorBrowse, cfg.RecordingDir, cache)
			if err != nil {
				return err
			}
			defer st.Close()

			return runExplorerShell(os.Stdout, int(os.Stdin.Fd()), st, func(path string) (string, error) {
				if err := runPlay(path); err != nil {
					return "", err
				}
				return "", nil
			})
		},
	}
	return c
}
