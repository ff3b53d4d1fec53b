// Package wizard collects a run configuration interactively.
package wizard

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/viki-bench/planeval/internal/config"
)

// RunConfigWizard runs an interactive huh form and returns a validated
// RunConfig. If initialDataset is non-empty it pre-populates the dataset
// field.
func RunConfigWizard(in io.Reader, out io.Writer, initialDataset string) (*config.RunConfig, error) {
	var (
		name       string
		dataset    = initialDataset
		outputDir  = config.DefaultOutputDir
		concurrent bool
		workersRaw = strconv.Itoa(config.DefaultWorkers)
		exporters  = []string{"json", "stats"}
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Run name").
				Description("Shown in report headers").
				Placeholder("viki-l2-test").
				Value(&name),
			huh.NewInput().
				Title("Evaluation file").
				Description("JSON or JSONL file with reference and predicted plans").
				Placeholder("data/test.json").
				Value(&dataset).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("evaluation file is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Output directory").
				Value(&outputDir),
			huh.NewConfirm().
				Title("Score tasks concurrently?").
				Value(&concurrent),
			huh.NewInput().
				Title("Workers").
				Description("Concurrent workers (used with parallel scoring)").
				Value(&workersRaw).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 1 {
						return fmt.Errorf("workers must be a positive integer")
					}
					return nil
				}),
			huh.NewMultiSelect[string]().
				Title("Report formats").
				Options(
					huh.NewOption("JSON report", "json").Selected(true),
					huh.NewOption("Statistics text", "stats").Selected(true),
					huh.NewOption("Per-task CSV", "csv"),
				).
				Value(&exporters),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	workers, _ := strconv.Atoi(strings.TrimSpace(workersRaw))
	cfg := &config.RunConfig{
		Name:       strings.TrimSpace(name),
		Dataset:    strings.TrimSpace(dataset),
		OutputDir:  strings.TrimSpace(outputDir),
		Concurrent: concurrent,
		Workers:    workers,
	}
	for _, kind := range exporters {
		cfg.Exporters = append(cfg.Exporters, config.ExporterConfig{Kind: kind})
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
