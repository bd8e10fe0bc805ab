// Package wizard runs the interactive form behind "rmgantt init -i".
package wizard

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rmviz/rmgantt/internal/projectconfig"
	"github.com/rmviz/rmgantt/internal/render"
	"golang.org/x/term"
)

// RunConfigWizard asks for the project settings and stores the answers in
// cfg. Fields keep their current value as the default.
func RunConfigWizard(in io.Reader, out io.Writer, cfg *projectconfig.ProjectConfig) error {
	var (
		input    = cfg.Input
		format   = cfg.Output.Format
		outPath  = cfg.Output.Path
		execTime = ""
		port     = strconv.Itoa(cfg.Server.Port)
	)
	if cfg.Chart.ExecutionTime != 0 {
		execTime = strconv.FormatFloat(cfg.Chart.ExecutionTime, 'f', -1, 64)
	}

	formatOptions := make([]huh.Option[string], 0, len(render.Formats))
	for _, f := range render.Formats {
		formatOptions = append(formatOptions, huh.NewOption(string(f), string(f)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Scheduler result").
				Description("Path of the JSON, YAML or CSV file to chart").
				Placeholder(projectconfig.DefaultInput).
				Value(&input).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("input path is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Output format").
				Options(formatOptions...).
				Value(&format),
			huh.NewInput().
				Title("Output path").
				Description("Where \"rmgantt render\" writes the chart").
				Value(&outPath),
			huh.NewInput().
				Title("Execution time").
				Description("Bar width in ms; leave empty to use the document resolution").
				Value(&execTime).
				Validate(ValidateExecutionTime),
			huh.NewInput().
				Title("Server port").
				Value(&port).
				Validate(ValidatePort),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}

	cfg.Input = strings.TrimSpace(input)
	cfg.Output.Format = format
	cfg.Output.Path = render.Format(format).PathFor(strings.TrimSpace(outPath))
	cfg.Chart.ExecutionTime, _ = parseExecutionTime(execTime)
	cfg.Server.Port, _ = strconv.Atoi(strings.TrimSpace(port))
	return nil
}

// ValidateExecutionTime accepts an empty string or a positive number.
func ValidateExecutionTime(s string) error {
	_, err := parseExecutionTime(s)
	return err
}

func parseExecutionTime(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("execution time must be a positive number")
	}
	return v, nil
}

// ValidatePort accepts a TCP port number.
func ValidatePort(s string) error {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}
