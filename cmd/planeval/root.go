package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "planeval",
		Short: "planeval - score multi-agent task plans against ground truth",
		Long: `planeval scores machine-generated multi-agent plans for the VIKI
embodied-AI benchmark.

Each task pairs a ground-truth robot selection and action plan with a
predicted one; planeval reduces the comparison to a bounded per-task score
and aggregates a score distribution over the corpus.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newScoreCommand())
	cmd.AddCommand(newMergeCommand())
	cmd.AddCommand(newReportCommand())
	cmd.AddCommand(newInitCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
