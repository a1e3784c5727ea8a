package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vango-dev/routekit/internal/config"
	rkerrors "github.com/vango-dev/routekit/internal/errors"
)

func initCmd(configDir *string) *cobra.Command {
	var (
		name  string
		mode  string
		base  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a routekit.json with default settings",
		Long: `Write a routekit.json with default settings into the config
directory.

An existing file is kept unless --force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(*configDir, config.JSONFileName)
			if _, err := os.Stat(path); err == nil && !force {
				return rkerrors.Newf(rkerrors.CategoryCLI, "%s already exists", path).
					WithSuggestion("Pass --force to overwrite it")
			}

			cfg := config.New()
			if name != "" {
				cfg.Name = name
			}
			cfg.History.Mode = mode
			cfg.History.Base = base
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := os.MkdirAll(*configDir, 0o755); err != nil {
				return rkerrors.New("C001").Wrap(err)
			}
			if err := cfg.SaveTo(path); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			success(out, "Wrote %s", cfg.Path())
			info(out, "History: %s at %s", cfg.History.Mode, cfg.History.Base)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Application name")
	cmd.Flags().StringVar(&mode, "history", "web", "History mode (web or hash)")
	cmd.Flags().StringVar(&base, "base", "/", "History base path")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}
