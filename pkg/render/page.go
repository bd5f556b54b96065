package render

import (
	"fmt"
	"io"

	"github.com/vango-dev/uploadbox/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root VNode for the page content.
	Body *vdom.VNode

	// Title is the page title.
	Title string

	// Styles contains inline CSS blocks placed in the head.
	Styles []string

	// Scripts contains inline scripts placed at the end of the body.
	Scripts []string

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n<head>\n", escapeAttr(lang)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "<meta charset=\"utf-8\">\n<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n"); err != nil {
		return err
	}
	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "<title>%s</title>\n", escapeHTML(page.Title)); err != nil {
			return err
		}
	}
	for _, css := range page.Styles {
		if _, err := fmt.Fprintf(w, "<style>%s</style>\n", css); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "</head>\n<body>\n"); err != nil {
		return err
	}

	if err := r.RenderToWriter(w, page.Body); err != nil {
		return err
	}

	for _, js := range page.Scripts {
		if _, err := fmt.Fprintf(w, "\n<script>%s</script>", js); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "\n</body>\n</html>\n")
	return err
}
