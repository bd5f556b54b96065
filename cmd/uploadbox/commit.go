package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/uploadbox/internal/errors"
	"github.com/vango-dev/uploadbox/pkg/toast"
	"github.com/vango-dev/uploadbox/pkg/uploadbox"
)

type commitOptions struct {
	table     string
	field     string
	seq       string
	deleteIDs []string
	filesPath string
}

func commitCmd(g *globalFlags) *cobra.Command {
	var opts commitOptions

	cmd := &cobra.Command{
		Use:   "commit [FILE...]",
		Short: "Upload files and delete server files for one record",
		Long: `Drive an upload box end to end against the host API.

Files named on the command line are validated and attached. Server
files listed with --delete are marked for deletion. The commit then
sends one delete request followed by one multipart upload, in that
order.

Examples:
  uploadbox commit --table=orders --field=attachments --seq=42 invoice.pdf
  uploadbox commit --table=orders --seq=42 --delete=17 --delete=18
  uploadbox commit --table=orders --seq=42 --files=current.json --delete=17 new.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommit(cmd.Context(), cmd, g, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.table, "table", "t", "", "Table name (bucket) the files belong to")
	cmd.Flags().StringVar(&opts.field, "field", "", "Data field name on the record")
	cmd.Flags().StringVarP(&opts.seq, "seq", "s", "", "Record id the files belong to")
	cmd.Flags().StringSliceVarP(&opts.deleteIDs, "delete", "d", nil, "Server file id to delete (repeatable)")
	cmd.Flags().StringVarP(&opts.filesPath, "files", "f", "", "JSON file with the current server files (- for stdin)")

	return cmd
}

func runCommit(ctx context.Context, cmd *cobra.Command, g *globalFlags, opts commitOptions, paths []string) error {
	if opts.seq == "" {
		return errors.New("U001")
	}
	if len(paths) == 0 && len(opts.deleteIDs) == 0 {
		return errors.New("U002").
			WithDetail("Nothing to commit").
			WithSuggestion("Name files to upload or pass --delete")
	}

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	api, err := newAPIClient(cfg)
	if err != nil {
		return err
	}
	logger := cfg.Logger(cmd.ErrOrStderr())
	metrics, _ := newMetrics(cfg)

	files, err := readFileList(opts.filesPath, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if files == nil {
		// Without a listing, the ids to delete are the only known files.
		for _, id := range opts.deleteIDs {
			files = append(files, uploadbox.UploadedFile{
				ServerFile: uploadbox.ServerFile{Seq: id},
				TableName:  opts.table,
			})
		}
	}

	// The read-only list variant would refuse --delete.
	boxCfg := cfg.Box
	boxCfg.Variant = uploadbox.VariantBox

	rec := &toast.Recorder{}
	box := uploadbox.New(boxCfg,
		uploadbox.WithClient(api),
		uploadbox.WithLogger(logger),
		uploadbox.WithNotifier(rec),
		uploadbox.WithMetrics(metrics),
		uploadbox.WithFiles(files),
	)

	for _, id := range opts.deleteIDs {
		if err := box.RemoveServerFile(id); err != nil {
			return errors.New("U002").Wrap(err)
		}
	}

	var attachments []uploadbox.Attachment
	for _, path := range paths {
		a, err := uploadbox.FileAttachment(path)
		if err != nil {
			return errors.New("V003").Wrap(err).WithDetail(path)
		}
		attachments = append(attachments, a)
	}
	p := box.Pick(attachments)

	out := cmd.OutOrStdout()
	for _, ev := range rec.Events() {
		warn(out, "%s", ev.Message())
	}
	if len(paths) > 0 && len(p.Allowed) == 0 && len(opts.deleteIDs) == 0 {
		return errors.New("V001").WithDetail("No file passed validation")
	}

	pending := len(box.PendingDeletions())
	if !box.Commit(ctx, opts.table, opts.field, opts.seq) {
		return errors.New("N001").
			WithDetail(fmt.Sprintf("Record %s in %s was not fully updated", opts.seq, opts.table))
	}

	success(out, "Committed record %s", opts.seq)
	if pending > 0 {
		info(out, "Deleted %d file(s)", pending)
	}
	for _, a := range p.Allowed {
		info(out, "Uploaded %s (%s)", a.Name, uploadbox.FormatFileSize(a.Size))
	}
	return nil
}
