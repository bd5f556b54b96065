package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/uploadbox/pkg/live"
	"github.com/vango-dev/uploadbox/pkg/render"
	"github.com/vango-dev/uploadbox/pkg/uploadbox"
	"github.com/vango-dev/uploadbox/pkg/vdom"
)

func renderCmd(g *globalFlags) *cobra.Command {
	var (
		variant   string
		filesPath string
		page      bool
		pretty    bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the box HTML for a file list",
		Long: `Render the upload box to HTML without starting a server.

Examples:
  uploadbox render --files=files.json
  uploadbox render --variant=list --files=- < files.json
  uploadbox render --page --pretty > preview.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if variant != "" {
				cfg.Box.Variant = uploadbox.Variant(variant)
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			files, err := readFileList(filesPath, cmd.InOrStdin())
			if err != nil {
				return err
			}

			box := uploadbox.New(cfg.Box, uploadbox.WithFiles(files))
			r := render.NewRenderer(render.RendererConfig{Pretty: pretty})
			out := cmd.OutOrStdout()

			if !page {
				if err := r.RenderToWriter(out, box.Render()); err != nil {
					return err
				}
				_, err := out.Write([]byte("\n"))
				return err
			}
			return r.RenderPage(out, render.PageData{
				Title:   "uploadbox",
				Styles:  []string{uploadbox.Stylesheet},
				Scripts: []string{live.ClientScript},
				Body:    vdom.Div(vdom.ID("uploadbox-root"), box.Render()),
			})
		},
	}

	cmd.Flags().StringVar(&variant, "variant", "", "Box variant: box, icon, list")
	cmd.Flags().StringVarP(&filesPath, "files", "f", "", "JSON file with the server files (- for stdin)")
	cmd.Flags().BoolVar(&page, "page", false, "Render a complete HTML page")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the output")

	return cmd
}
