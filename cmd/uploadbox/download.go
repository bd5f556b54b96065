package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vango-dev/uploadbox/internal/errors"
	"github.com/vango-dev/uploadbox/pkg/saver"
	"github.com/vango-dev/uploadbox/pkg/uploadbox"
)

type downloadOptions struct {
	table string
	seq   string
	name  string
	to    string
}

func downloadCmd(g *globalFlags) *cobra.Command {
	var opts downloadOptions

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download a stored file",
		Long: `Fetch one stored file from the download endpoint and save it.

The target is a local directory or an S3 location. Existing local
files are never overwritten; a numbered name is used instead.

Examples:
  uploadbox download --table=orders --seq=17 --name=invoice.pdf
  uploadbox download --seq=17 --name=invoice.pdf --to=./out
  uploadbox download --seq=17 --name=invoice.pdf --to=s3://archive/orders`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd.Context(), cmd, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.table, "table", "t", "", "Table name (bucket) the file belongs to")
	cmd.Flags().StringVarP(&opts.seq, "seq", "s", "", "Server file id")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "File name to save as")
	cmd.Flags().StringVar(&opts.to, "to", "", "Target directory or s3://bucket/prefix (default from uploadbox.json)")

	return cmd
}

func runDownload(ctx context.Context, cmd *cobra.Command, g *globalFlags, opts downloadOptions) error {
	if opts.seq == "" {
		return errors.New("U001")
	}
	if opts.name == "" {
		return errors.New("U002").
			WithDetail("--name is required").
			WithSuggestion("Pass the stored file name, e.g. --name=invoice.pdf")
	}

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	api, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	target := opts.to
	if target == "" {
		target = cfg.SaveTarget()
	}
	s, err := newSaver(ctx, target, cfg.Download.S3)
	if err != nil {
		return err
	}

	metrics, _ := newMetrics(cfg)
	box := uploadbox.New(cfg.Box,
		uploadbox.WithClient(api),
		uploadbox.WithSaver(s),
		uploadbox.WithLogger(cfg.Logger(cmd.ErrOrStderr())),
		uploadbox.WithMetrics(metrics),
	)

	file := uploadbox.UploadedFile{
		ServerFile: uploadbox.ServerFile{Seq: opts.seq, Name: opts.name},
		TableName:  opts.table,
	}
	if !box.Download(ctx, file) {
		return errors.New("N002").WithDetail("File " + opts.seq + " (" + opts.name + ")")
	}

	out := cmd.OutOrStdout()
	switch s := s.(type) {
	case *saver.DiskSaver:
		success(out, "Saved %s", s.LastPath())
	case *saver.S3Saver:
		key, _ := s.Key(opts.name)
		success(out, "Saved s3://%s/%s", s.Bucket(), key)
	case *saver.MinioSaver:
		key, _ := s.Key(opts.name)
		success(out, "Saved %s/%s on %s", s.Bucket(), key, cfg.Download.S3.Endpoint)
	default:
		success(out, "Saved %s", opts.name)
	}
	return nil
}
