package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vango-dev/uploadbox/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// colors enables ANSI colors in status lines.
var colors bool

func main() {
	colors = term.IsTerminal(int(os.Stdout.Fd()))
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		errors.DisableColors()
	}

	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "uploadbox",
		Short: "File upload box for server-rendered Go front ends",
		Long: `uploadbox hosts and drives a server-rendered file upload box.

It validates files against the configured type and size rules,
commits attachments and deletions to a host API, downloads stored
files and serves a live preview of the component.

Configuration is read from uploadbox.json in the working directory
unless --config is given.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Path to uploadbox.json")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&g.apiBaseURL, "api", "", "Host API base URL (overrides server.apiBaseURL)")

	rootCmd.AddCommand(
		initCmd(g),
		serveCmd(g),
		validateCmd(g),
		commitCmd(g),
		downloadCmd(g),
		renderCmd(g),
		envCmd(),
		versionCmd(),
	)

	return rootCmd
}

func mark(code, symbol string) string {
	if !colors {
		return symbol
	}
	return "\033[" + code + "m" + symbol + "\033[0m"
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", mark("32", "✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", mark("33", "⚠"), fmt.Sprintf(format, args...))
}
