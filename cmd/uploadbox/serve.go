package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/uploadbox/internal/errors"
	"github.com/vango-dev/uploadbox/internal/preview"
	"github.com/vango-dev/uploadbox/pkg/live"
	"github.com/vango-dev/uploadbox/pkg/toast"
	"github.com/vango-dev/uploadbox/pkg/uploadbox"
)

type serveOptions struct {
	addr      string
	filesPath string
	watch     bool
	variant   string
}

func serveCmd(g *globalFlags) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live preview of the upload box",
		Long: `Serve one upload box over HTTP with live updates.

The page at / renders the box and keeps it in sync over a WebSocket.
Dropped and picked files are validated and held as attachments until
POST /commit sends them to the host API. Files that cannot be viewed
inline are downloaded by the browser.

Examples:
  uploadbox serve
  uploadbox serve --addr=:8090 --files=files.json
  uploadbox serve --files=files.json --watch
  uploadbox serve --api=https://erp.example.com --variant=list`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "Listen address (default from uploadbox.json)")
	cmd.Flags().StringVarP(&opts.filesPath, "files", "f", "", "JSON file with the initial server files (- for stdin)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Reload the server files when the --files file changes")
	cmd.Flags().StringVar(&opts.variant, "variant", "", "Box variant: box, icon, list")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, g *globalFlags, opts serveOptions) error {
	if opts.watch && (opts.filesPath == "" || opts.filesPath == "-") {
		return errors.New("U002").
			WithDetail("--watch needs --files to name a file").
			WithSuggestion("Pass --files=files.json")
	}

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.variant != "" {
		cfg.Box.Variant = uploadbox.Variant(opts.variant)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger := cfg.Logger(cmd.ErrOrStderr())
	files, err := readFileList(opts.filesPath, cmd.InOrStdin())
	if err != nil {
		return err
	}

	hub := live.NewHub(live.WithLogger(logger))
	defer hub.Close()

	viewerURL := cfg.Server.ViewerURL
	if viewerURL == "" {
		viewerURL = "/view"
	}
	boxOpts := []uploadbox.Option{
		uploadbox.WithLogger(logger),
		uploadbox.WithNotifier(toast.Multi(hub, toast.LogEmitter{Logger: logger})),
		uploadbox.WithViewer(&uploadbox.ModalViewer{URL: uploadbox.ViewerURL(viewerURL)}),
		uploadbox.WithFiles(files),
	}

	previewCfg := preview.Config{
		Addr:   cfg.Server.Addr,
		Hub:    hub,
		Logger: logger,
	}

	if cfg.Server.APIBaseURL != "" {
		api, err := newAPIClient(cfg)
		if err != nil {
			return err
		}
		downloads := preview.NewDownloads(hub)
		boxOpts = append(boxOpts, uploadbox.WithClient(api), uploadbox.WithSaver(downloads))
		previewCfg.API = api
		previewCfg.Downloads = downloads
	} else {
		logger.Warn("no host API configured; commit and download are disabled")
	}

	if m, reg := newMetrics(cfg); m != nil {
		boxOpts = append(boxOpts, uploadbox.WithMetrics(m))
		previewCfg.Gatherer = reg
	}

	box := uploadbox.New(cfg.Box, boxOpts...)
	hub.Bind(box)
	previewCfg.Box = box

	if opts.watch {
		go func() {
			if err := preview.WatchServerFiles(ctx, opts.filesPath, box, logger); err != nil {
				logger.Error("file list watch stopped", "error", err)
			}
		}()
	}

	server, err := preview.New(previewCfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	success(out, "Serving upload box on http://%s", cfg.Server.Addr)
	if cfg.Server.APIBaseURL != "" {
		info(out, "Host API: %s", cfg.Server.APIBaseURL)
	}
	if opts.watch {
		info(out, "Watching: %s", opts.filesPath)
	}
	if previewCfg.Gatherer != nil {
		info(out, "Metrics:  http://%s/metrics", cfg.Server.Addr)
	}
	fmt.Fprintln(out)

	return server.Run(ctx)
}
