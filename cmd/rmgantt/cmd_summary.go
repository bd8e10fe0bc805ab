package main

import (
	"encoding/json"
	"fmt"

	"github.com/rmviz/rmgantt/internal/summary"
	"github.com/rmviz/rmgantt/internal/workspace"
	"github.com/spf13/cobra"
)

func newSummaryCommand() *cobra.Command {
	var (
		asJSON   bool
		execTime float64
	)

	cmd := &cobra.Command{
		Use:   "summary [input]",
		Short: "Print per-task execution statistics",
		Long: `Print per-task execution statistics: firing count, first and last
firing, busy time and utilization over the schedule span, plus any overlaps
between executions of different tasks.`,
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

			res, err := workspace.Load(proj.input, settings)
			if err != nil {
				return err
			}
			sum, err := summary.Compute(res.Document, res.ExecutionTime)
			if err != nil {
				return fmt.Errorf("summarizing %s: %w", proj.input, err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(sum)
			}
			return summary.WriteTable(cmd.OutOrStdout(), sum)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	addExecTimeFlag(cmd, &execTime)

	return cmd
}
