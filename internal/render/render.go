// Package render writes a laid out Gantt chart as SVG, HTML, terminal text
// or JSON.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rmviz/rmgantt/internal/gantt"
)

// Format is an output encoding.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatHTML Format = "html"
	FormatText Format = "txt"
	FormatJSON Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatSVG, FormatHTML, FormatText, FormatJSON}

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat accepts a format name, case-insensitive. "text" is an alias
// for "txt".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatSVG, FormatHTML, FormatText, FormatJSON:
		return f, nil
	case "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w %q (expected svg, html, txt or json)", ErrUnknownFormat, s)
	}
}

// Ext returns the file extension, dot included.
func (f Format) Ext() string {
	return "." + string(f)
}

// DefaultBaseName names the output file when no path is configured.
const DefaultBaseName = "gantt"

// PathFor makes the extension of path match f. An empty path becomes
// DefaultBaseName plus the extension.
func (f Format) PathFor(path string) string {
	if path == "" {
		return DefaultBaseName + f.Ext()
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + f.Ext()
}

// Options tunes the output. Zero values select the defaults.
type Options struct {
	// Width is in pixels for SVG and HTML, in columns for text.
	Width int
	// Height is in pixels; ignored by text.
	Height int
	// Notes is markdown shown under the chart on the HTML page.
	Notes string
}

// Write renders c to w in the given format.
func Write(w io.Writer, format Format, c *gantt.Chart, opts Options) error {
	switch format {
	case FormatSVG:
		return SVG(w, c, opts)
	case FormatHTML:
		return HTML(w, c, opts)
	case FormatText:
		return Text(w, c, opts)
	case FormatJSON:
		return JSON(w, c)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// JSON writes the chart model, indented.
func JSON(w io.Writer, c *gantt.Chart) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding chart: %w", err)
	}
	return nil
}
