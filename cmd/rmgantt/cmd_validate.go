package main

import (
	"fmt"

	"github.com/rmviz/rmgantt/internal/validation"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	var execTime float64

	cmd := &cobra.Command{
		Use:   "validate [input]",
		Short: "Check that a scheduler result can be charted",
		Long: `Check a scheduler result against the result schema: the deadTime,
sumDeadTime and resolution keys must be present and every task must map to
non-negative firing times. At least one firing is required.

Bars are checked with the same execution time "render" uses: --exec-time,
then chart.execution_time from .rmgantt.yaml, then the document resolution.

Exits with status 1 when the document is invalid.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject(args)
			if err != nil {
				return err
			}

			settings, err := proj.settings(cmd, execTime)
			if err != nil {
				return err
			}

			problems, err := validation.ValidateFile(proj.input, settings.ExecutionTime)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(problems) == 0 {
				fmt.Fprintf(out, "✓ %s is valid\n", proj.input) //nolint:errcheck
				return nil
			}

			fmt.Fprintf(out, "✗ %s has %d problem(s):\n", proj.input, len(problems)) //nolint:errcheck
			for _, p := range problems {
				fmt.Fprintf(out, "  - %s\n", p) //nolint:errcheck
			}
			return &ValidationFailedError{Message: fmt.Sprintf("%s is not a valid scheduler result", proj.input)}
		},
	}

	addExecTimeFlag(cmd, &execTime)

	return cmd
}
