package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/uploadbox/internal/config"
	"github.com/vango-dev/uploadbox/internal/errors"
)

func initCmd(g *globalFlags) *cobra.Command {
	var (
		force bool
		api   string
	)

	cmd := &cobra.Command{
		Use:   "init [DIR]",
		Short: "Write a default uploadbox.json",
		Long: `Write uploadbox.json with every option at its default value.

Examples:
  uploadbox init
  uploadbox init site --api=https://erp.example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if config.Exists(dir) && !force {
				return errors.Newf(errors.CategoryConfig, "%s already exists", filepath.Join(dir, config.ConfigFileName)).
					WithSuggestion("Pass --force to overwrite it")
			}

			cfg := config.New()
			if api == "" {
				api = g.apiBaseURL
			}
			cfg.Server.APIBaseURL = api

			path := filepath.Join(dir, config.ConfigFileName)
			if err := cfg.SaveTo(path); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.Flags().StringVar(&api, "api-base", "", "Host API base URL to record")

	return cmd
}
