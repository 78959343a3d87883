package render

import (
	"fmt"
	"io"

	"github.com/vango-dev/hxstate/pkg/vdom"
)

// DefaultHtmxScript is the htmx build loaded by full pages unless
// PageData.ClientScript overrides it.
const DefaultHtmxScript = "https://unpkg.com/htmx.org@1.9.4"

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root VNode for the page content
	Body *vdom.VNode

	// Title is the page title
	Title string

	// Lang is the language attribute for the html element
	// Defaults to "en" if not specified
	Lang string

	// ClientScript is the URL of the htmx client.
	// Defaults to DefaultHtmxScript if not specified
	ClientScript string

	// Styles contains inline CSS styles
	Styles []string
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	script := page.ClientScript
	if script == "" {
		script = DefaultHtmxScript
	}

	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, `<html lang="%s">`+"\n", escapeAttr(lang)); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "<head>\n"); err != nil {
		return err
	}
	if _, err := io.WriteString(w, `  <meta charset="utf-8">`+"\n"); err != nil {
		return err
	}
	if _, err := io.WriteString(w, `  <meta name="viewport" content="width=device-width, initial-scale=1">`+"\n"); err != nil {
		return err
	}
	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", escapeHTML(page.Title)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, `  <script src="%s"></script>`+"\n", escapeAttr(script)); err != nil {
		return err
	}
	for _, style := range page.Styles {
		if _, err := fmt.Fprintf(w, "  <style>%s</style>\n", style); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "</head>\n<body>\n"); err != nil {
		return err
	}

	if err := r.RenderToWriter(w, page.Body); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "\n</body>\n</html>\n"); err != nil {
		return err
	}
	return nil
}
