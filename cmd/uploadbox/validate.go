package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/uploadbox/internal/errors"
	"github.com/vango-dev/uploadbox/pkg/uploadbox"
)

func validateCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check files against the type and size rules",
		Long: `Classify local files with the configured accepted types and
maximum size, the same way the upload box does on drop or pick.

The command fails when any file is rejected.

Examples:
  uploadbox validate report.pdf photo.heic
  uploadbox validate --config=site/uploadbox.json *.zip`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, g, args)
		},
	}
	return cmd
}

func runValidate(cmd *cobra.Command, g *globalFlags, paths []string) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	v := cfg.Box.Validator()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	var typeRejected, sizeRejected int
	for _, path := range paths {
		fi, err := os.Stat(path)
		if err != nil {
			tw.Flush()
			return errors.New("V003").Wrap(err).WithDetail(path)
		}
		outcome := v.Classify(fi.Name(), fi.Size())
		switch outcome {
		case uploadbox.RejectedType:
			typeRejected++
		case uploadbox.RejectedSize:
			sizeRejected++
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", path, uploadbox.FormatFileSize(fi.Size()), outcome)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	switch {
	case typeRejected > 0:
		return errors.New("V001").
			WithDetail(fmt.Sprintf("%d of %d files have a type outside the allow-list", typeRejected, len(paths))).
			WithSuggestion("Allowed types: " + allowedTypes(v))
	case sizeRejected > 0:
		return errors.New("V002").
			WithDetail(fmt.Sprintf("%d of %d files exceed %gMB", sizeRejected, len(paths), v.MaxSizeMB))
	}
	return nil
}

func allowedTypes(v uploadbox.Validator) string {
	if len(v.AcceptedTypes) == 0 {
		return "all files"
	}
	return v.AcceptAttr()
}
