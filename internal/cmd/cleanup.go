package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dcosson/castrec/internal/explorer"
	"github.com/dcosson/castrec/internal/previewcache"
)

func newCleanupCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "cleanup",
		Short: "Multi-select recordings to delete",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			cache := previewcache.New(64, previewcache.FileLoader())
			defer cache.Close()

			st, err := explorer.New(explorer.FlavorCleanup, cfg.RecordingDir, cache)
			if err != nil {
				return err
			}
			defer st.Close()

			// Enter toggles selection in cleanup mode, same as Space; the
			// shell exits only on 'q' or Ctrl-C.
			return runExplorerShell(os.Stdout, int(os.Stdin.Fd()), st, func(path string) (string, error) {
				st.ToggleSelect()
				return "", nil
			})
		},
	}
	return c
}
