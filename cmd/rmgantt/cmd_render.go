package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rmviz/rmgantt/internal/render"
	"github.com/rmviz/rmgantt/internal/summary"
	"github.com/rmviz/rmgantt/internal/workspace"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type renderFlags struct {
	formats  []string
	output   string
	execTime float64
	width    int
	height   int
}

func newRenderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [input]",
		Short: "Render the Gantt chart of a scheduler result",
		Long: `Render the Gantt chart of a scheduler result.

The input defaults to the "input" setting of .rmgantt.yaml, then to
result.json, result.yaml, result.yml or result.csv next to that file (or in
the current directory when there is none). Paths in .rmgantt.yaml are
relative to the file; the input argument and --output are relative to the
current directory.

Formats:
  svg   Standalone SVG image (default)
  html  Web page with the chart and a per-task summary
  txt   Terminal chart
  json  Laid out chart model

Several formats can be written at once with --format svg,html; each file
gets the extension of its format. Use --output - to write a single format
to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderCommandE(cmd, args, flags)
		},
	}

	cmd.Flags().StringSliceVarP(&flags.formats, "format", "f", nil, "Output format(s): svg, html, txt, json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", `Output file, "-" for stdout`)
	cmd.Flags().IntVar(&flags.width, "width", 0, "Chart width (pixels for svg/html, columns for txt)")
	cmd.Flags().IntVar(&flags.height, "height", 0, "Chart height in pixels")
	addExecTimeFlag(cmd, &flags.execTime)

	return cmd
}

type renderTarget struct {
	format render.Format
	path   string
}

func renderCommandE(cmd *cobra.Command, args []string, flags renderFlags) error {
	proj, err := loadProject(args)
	if err != nil {
		return err
	}
	settings, err := proj.settings(cmd, flags.execTime)
	if err != nil {
		return err
	}

	names := flags.formats
	if len(names) == 0 {
		names = []string{proj.cfg.Output.Format}
	}
	formats := make([]render.Format, 0, len(names))
	for _, n := range names {
		f, err := render.ParseFormat(n)
		if err != nil {
			return err
		}
		formats = append(formats, f)
	}

	targets, err := renderTargets(formats, flags.output, proj.cfg.Output.Path)
	if err != nil {
		return err
	}

	res, err := workspace.Load(proj.input, settings)
	if err != nil {
		return err
	}

	opts := render.Options{Width: proj.cfg.Chart.Width, Height: proj.cfg.Chart.Height}
	if flags.width > 0 {
		opts.Width = flags.width
	}
	if flags.height > 0 {
		opts.Height = flags.height
	}
	if sum, err := summary.Compute(res.Document, res.ExecutionTime); err == nil {
		opts.Notes = summary.Markdown(sum)
		if len(sum.Overlaps) > 0 {
			slog.Warn("executions of different tasks overlap", "count", len(sum.Overlaps))
		}
	}

	if targets[0].path == "-" {
		textOpts := opts
		if targets[0].format == render.FormatText {
			// Config width is in pixels; text sizes itself to the terminal.
			textOpts.Width = flags.width
		}
		return render.Write(cmd.OutOrStdout(), targets[0].format, res.Chart, textOpts)
	}

	var g errgroup.Group
	for _, t := range targets {
		g.Go(func() error {
			o := opts
			if t.format == render.FormatText {
				o.Width = flags.width
				if o.Width <= 0 {
					o.Width = 120
				}
			}
			return writeChartFile(t, res, o)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, t := range targets {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n", t.path, t.format) //nolint:errcheck
	}
	return nil
}

// renderTargets decides where each format goes. An explicit single-format
// output path is used verbatim; otherwise the extension follows the format.
func renderTargets(formats []render.Format, flagOutput, configOutput string) ([]renderTarget, error) {
	if flagOutput == "-" {
		if len(formats) != 1 {
			return nil, fmt.Errorf("--output - accepts a single format, got %d", len(formats))
		}
		return []renderTarget{{format: formats[0], path: "-"}}, nil
	}

	seen := make(map[render.Format]bool, len(formats))
	targets := make([]renderTarget, 0, len(formats))
	for _, f := range formats {
		if seen[f] {
			continue
		}
		seen[f] = true

		var p string
		switch {
		case flagOutput != "" && len(formats) == 1:
			p = flagOutput
		case flagOutput != "":
			p = f.PathFor(flagOutput)
		default:
			p = f.PathFor(configOutput)
		}
		targets = append(targets, renderTarget{format: f, path: p})
	}
	return targets, nil
}

func writeChartFile(t renderTarget, res *workspace.Result, opts render.Options) error {
	if dir := filepath.Dir(t.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	var b strings.Builder
	if err := render.Write(&b, t.format, res.Chart, opts); err != nil {
		return fmt.Errorf("rendering %s: %w", t.format, err)
	}
	if err := os.WriteFile(t.path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", t.path, err)
	}
	slog.Debug("Chart written", "path", t.path, "format", t.format, "bars", res.Chart.BarCount())
	return nil
}
