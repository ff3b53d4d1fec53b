package main

import (
	"github.com/spf13/cobra"

	"github.com/viki-bench/planeval/internal/checkpoint"
	"github.com/viki-bench/planeval/internal/reporting"
)

var reportName string

func newReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <report.json>",
		Short: "Print the statistics summary for a saved report",
		Long: `Print the statistics summary for a saved corpus report or
partial checkpoint (.json or .json.zst).`,
		Args: cobra.ExactArgs(1),
		RunE: reportCommandE,
	}

	cmd.Flags().StringVar(&reportName, "name", "", "Run name for the header")

	return cmd
}

func reportCommandE(cmd *cobra.Command, args []string) error {
	report, err := checkpoint.Read(args[0])
	if err != nil {
		return err
	}
	finalizeErr := report.Finalize()

	snap := reporting.BuildSnapshot(reportName, report)
	if err := reporting.WriteStats(cmd.OutOrStdout(), snap); err != nil {
		return err
	}
	return finalizeErr
}
