package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/uploadbox/internal/config"
)

func envCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the environment variables that override uploadbox.json",
		Long: `List the UPLOADBOX_* environment variables.

Variables override uploadbox.json; command-line flags override both.
Credentials for an S3-compatible endpoint are only read from the
environment and are never written to uploadbox.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			help, err := config.EnvHelp()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), help)
			return nil
		},
	}
}
