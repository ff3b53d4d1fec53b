package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viki-bench/planeval/internal/aggregate"
	"github.com/viki-bench/planeval/internal/checkpoint"
	"github.com/viki-bench/planeval/internal/config"
	"github.com/viki-bench/planeval/internal/dataset"
	"github.com/viki-bench/planeval/internal/orchestration"
	"github.com/viki-bench/planeval/internal/reporting"
)

var (
	configPath      string
	runName         string
	outputDir       string
	parallel        bool
	workers         int
	verbose         bool
	checkpointDir   string
	checkpointEvery int
	withCSV         bool
)

func newScoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [eval-file]",
		Short: "Score an evaluation file and write the corpus report",
		Long: `Score every task in an evaluation file.

The file holds one entry per task: the ground-truth record and the predicted
record in the standard wire shape (JSON array, or JSONL with one entry per
line). A run configuration YAML can supply the same settings as the flags.`,
		Args: cobra.MaximumNArgs(1),
		RunE: scoreCommandE,
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Run configuration YAML")
	cmd.Flags().StringVar(&runName, "name", "", "Run name for report headers")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for report files")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "Score tasks concurrently")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of concurrent workers (requires --parallel)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Per-task progress output")
	cmd.Flags().StringVar(&checkpointDir, "checkpoint-dir", "", "Directory for partial-report checkpoints")
	cmd.Flags().IntVar(&checkpointEvery, "checkpoint-every", 0, "Write a partial report every N tasks")
	cmd.Flags().BoolVar(&withCSV, "csv", false, "Also export per-task scores as CSV")

	return cmd
}

func scoreCommandE(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(args)
	if err != nil {
		return err
	}

	tasks, err := dataset.Load(cfg.Dataset)
	if err != nil {
		return err
	}

	var opts []orchestration.RunnerOption
	if cfg.CheckpointDir != "" {
		w, err := checkpoint.NewWriter(cfg.CheckpointDir)
		if err != nil {
			return err
		}
		opts = append(opts, orchestration.WithCheckpoints(w))
	}

	runner := orchestration.NewRunner(cfg, opts...)
	printer := newProgressPrinter(cmd.OutOrStdout(), verbose)
	runner.OnProgress(printer.handle)

	report, runErr := runner.Run(cmd.Context(), tasks)
	if runErr != nil && !errors.Is(runErr, aggregate.ErrEmptyCorpus) {
		return runErr
	}

	snap := reporting.BuildSnapshot(cfg.Name, report)
	written, err := reporting.Export(snap, cfg.Exporters, cfg.OutputDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	if err := reporting.WriteStats(out, snap); err != nil {
		return err
	}
	fmt.Fprintln(out)
	for _, path := range written {
		fmt.Fprintf(out, "Wrote %s\n", path)
	}

	// An empty corpus is reported once, here at the end.
	return runErr
}

// resolveConfig builds the effective run configuration: YAML file if given,
// then flag overrides, then defaults.
func resolveConfig(args []string) (*config.RunConfig, error) {
	var cfg *config.RunConfig
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = &config.RunConfig{}
	}

	if len(args) == 1 {
		cfg.Dataset = args[0]
	}
	if cfg.Dataset == "" {
		return nil, fmt.Errorf("an evaluation file is required (argument or config 'dataset')")
	}
	if runName != "" {
		cfg.Name = runName
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if parallel {
		cfg.Concurrent = true
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if checkpointDir != "" {
		cfg.CheckpointDir = checkpointDir
	}
	if checkpointEvery > 0 {
		cfg.CheckpointEvery = checkpointEvery
	}
	cfg.ApplyDefaults()
	if withCSV && !hasExporter(cfg, "csv") {
		cfg.Exporters = append(cfg.Exporters, config.ExporterConfig{Kind: "csv"})
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func hasExporter(cfg *config.RunConfig, kind string) bool {
	for _, e := range cfg.Exporters {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
