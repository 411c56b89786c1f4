package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dcosson/castrec/internal/config"
)

func newConfigCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Inspect or edit castrec's settings file",
	}
	c.AddCommand(newConfigShowCmd(), newConfigEditCmd(), newConfigMigrateCmd())
	return c
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings (defaults merged with the on-disk file)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("config show: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newConfigEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the settings file in $EDITOR, creating it with defaults if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ConfigPath()
			if _, err := os.Stat(path); os.IsNotExist(err) {
				if err := config.Save(config.Default(), path); err != nil {
					return fmt.Errorf("config edit: %w", err)
				}
			}

			editor := os.Getenv("EDITOR")
			if editor == "" {
				editor = "vi"
			}
			e := exec.Command(editor, path)
			e.Stdin, e.Stdout, e.Stderr = os.Stdin, os.Stdout, os.Stderr
			if err := e.Run(); err != nil {
				return fmt.Errorf("config edit: run %s: %w", editor, err)
			}

			// Validate after editing so a malformed file is caught early.
			if _, err := config.LoadFrom(path); err != nil {
				return fmt.Errorf("config edit: %w", err)
			}
			return nil
		},
	}
}

func newConfigMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Rewrite the settings file with any new fields filled in from defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ConfigPath()
			cfg, err := config.LoadFrom(path)
			if err != nil {
				return fmt.Errorf("config migrate: %w", err)
			}
			if err := config.Save(cfg, path); err != nil {
				return fmt.Errorf("config migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s\n", path)
			return nil
		},
	}
}
