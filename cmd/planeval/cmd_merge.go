package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viki-bench/planeval/internal/checkpoint"
	"github.com/viki-bench/planeval/internal/config"
	"github.com/viki-bench/planeval/internal/reporting"
)

var (
	mergeName      string
	mergeOutputDir string
)

func newMergeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <report.json...>",
		Short: "Merge partial corpus reports from disjoint task subsets",
		Long: `Merge partial corpus reports into one.

Each input must cover a disjoint subset of the corpus (for example, reports
produced by sharded runs over different slices of the evaluation file).
Merging sums counts, score sums, and bucket counters, so the result is
identical to scoring the whole corpus in one run. Both plain .json reports
and .json.zst checkpoints are accepted.`,
		Args: cobra.MinimumNArgs(2),
		RunE: mergeCommandE,
	}

	cmd.Flags().StringVar(&mergeName, "name", "", "Run name for the merged report")
	cmd.Flags().StringVarP(&mergeOutputDir, "output-dir", "o", config.DefaultOutputDir, "Directory for report files")

	return cmd
}

func mergeCommandE(cmd *cobra.Command, args []string) error {
	merged, err := checkpoint.MergeFiles(args)
	if err != nil {
		return err
	}
	finalizeErr := merged.Finalize()

	snap := reporting.BuildSnapshot(mergeName, merged)
	exporters := []config.ExporterConfig{{Kind: "json"}, {Kind: "stats"}}
	written, err := reporting.Export(snap, exporters, mergeOutputDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := reporting.WriteStats(out, snap); err != nil {
		return err
	}
	for _, path := range written {
		fmt.Fprintf(out, "Wrote %s\n", path)
	}
	return finalizeErr
}
