package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/rmviz/rmgantt/internal/gantt"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{ .Title }}</title>
<style>
body { margin: 0; padding: 24px; background: #f6f8fa; color: #24292f; font-family: -apple-system, "Segoe UI", sans-serif; }
main { max-width: {{ .Width }}px; margin: 0 auto; }
figure { margin: 0; background: #fff; border: 1px solid #d0d7de; border-radius: 6px; overflow-x: auto; }
.notes { margin-top: 24px; }
.notes table { border-collapse: collapse; }
.notes th, .notes td { border: 1px solid #d0d7de; padding: 4px 10px; text-align: right; }
.notes th:first-child, .notes td:first-child { text-align: left; }
</style>
</head>
<body>
<main>
<figure>
{{ .SVG }}
</figure>
{{- if .Notes }}
<section class="notes">
{{ .Notes }}
</section>
{{- end }}
</main>
</body>
</html>
`

var page = template.Must(template.New("page").Parse(pageTemplate))

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// HTML writes a standalone page with the SVG chart inline and opts.Notes
// rendered from markdown below it.
func HTML(w io.Writer, c *gantt.Chart, opts Options) error {
	var svg bytes.Buffer
	if err := SVG(&svg, c, opts); err != nil {
		return err
	}

	var notes bytes.Buffer
	if opts.Notes != "" {
		if err := markdown.Convert([]byte(opts.Notes), &notes); err != nil {
			return fmt.Errorf("rendering notes: %w", err)
		}
	}

	width := opts.Width
	if width <= 0 {
		width = DefaultSVGWidth
	}

	data := struct {
		Title string
		Width int
		SVG   template.HTML
		Notes template.HTML
	}{
		Title: c.Title,
		Width: width,
		// Both fragments are produced here with every text node escaped.
		SVG:   template.HTML(svg.String()), //nolint:gosec
		Notes: template.HTML(notes.String()), //nolint:gosec
	}

	if err := page.Execute(w, data); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}
