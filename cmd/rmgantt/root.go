package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rmviz/rmgantt/internal/projectconfig"
	"github.com/rmviz/rmgantt/internal/workspace"
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rmgantt",
		Short: "rmgantt - Gantt charts for rate-monotonic schedules",
		Long: `rmgantt draws the firing times computed by a rate-monotonic scheduler
as a Gantt chart: one row per task, one bar per execution.

It reads result.json (or a YAML/CSV equivalent), strips the scheduler
bookkeeping keys and renders the chart as SVG, HTML, terminal text or JSON,
or serves it on localhost.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newRenderCommand())
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newSummaryCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newInitCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}

// projectContext is the configuration and input shared by every command.
type projectContext struct {
	cfg   *projectconfig.ProjectConfig
	input string
}

// loadProject reads .rmgantt.yaml from the working directory upwards and
// resolves which document to chart. Paths from the config file are relative
// to the directory holding it; the input argument is relative to the working
// directory.
func loadProject(args []string) (*projectContext, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	cfg, err := projectconfig.Load(wd)
	if err != nil {
		return nil, err
	}

	var explicit string
	if len(args) > 0 {
		explicit = args[0]
	}
	input, err := workspace.FindInput(cfg.Dir, explicit, cfg.Input)
	if err != nil {
		return nil, err
	}
	if explicit == "" {
		input = relativeTo(wd, input)
	}
	cfg.Output.Path = relativeTo(wd, cfg.ResolvePath(cfg.Output.Path))

	return &projectContext{cfg: cfg, input: input}, nil
}

// relativeTo shortens an absolute path for display when it can be expressed
// relative to dir.
func relativeTo(dir, p string) string {
	if !filepath.IsAbs(p) {
		return p
	}
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return p
	}
	return rel
}

// settings merges the --exec-time flag over the project config.
func (p *projectContext) settings(cmd *cobra.Command, execTime float64) (workspace.Settings, error) {
	s := workspace.Settings{
		ExecutionTime: p.cfg.Chart.ExecutionTime,
		Title:         p.cfg.Chart.Title,
	}
	if cmd.Flags().Changed("exec-time") {
		if execTime <= 0 {
			return s, fmt.Errorf("--exec-time must be positive, got %v", execTime)
		}
		s.ExecutionTime = execTime
	}
	return s, nil
}

func addExecTimeFlag(cmd *cobra.Command, v *float64) {
	cmd.Flags().Float64Var(v, "exec-time", 0, "Execution time per firing in ms (default: the document's resolution)")
}
