package reporting

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-viper/mapstructure/v2"

	"github.com/viki-bench/planeval/internal/config"
)

// Export writes the snapshot in every configured format and returns the
// paths written. Unset paths fall back to conventional filenames under
// outputDir.
func Export(snap Snapshot, exporters []config.ExporterConfig, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("reporting: create output dir %s: %w", outputDir, err)
	}

	var written []string
	for _, exp := range exporters {
		var opts struct {
			Path string `mapstructure:"path"`
		}
		if err := mapstructure.Decode(exp.Options, &opts); err != nil {
			return written, fmt.Errorf("reporting: exporter %q options: %w", exp.Kind, err)
		}

		var path string
		var err error
		switch exp.Kind {
		case "json":
			path = resolvePath(opts.Path, outputDir, "report_final.json")
			err = WriteJSONFile(path, snap)
		case "csv":
			path = resolvePath(opts.Path, outputDir, "scores.csv")
			err = WriteCSVFile(path, snap)
		case "stats":
			path = resolvePath(opts.Path, outputDir, "stats.txt")
			err = writeStatsFile(path, snap)
		default:
			err = fmt.Errorf("reporting: unknown exporter type %q", exp.Kind)
		}
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func resolvePath(configured, outputDir, fallback string) string {
	if configured != "" {
		return configured
	}
	return filepath.Join(outputDir, fallback)
}

// WriteJSONFile writes the snapshot as indented JSON.
func WriteJSONFile(path string, snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("reporting: marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("reporting: write %s: %w", path, err)
	}
	return nil
}

var csvHeader = []string{
	"task_id",
	"robot_selection_score",
	"step_match",
	"prefix_match",
	"action_type_match",
	"length_ratio",
	"action_planning_score",
	"total_score",
}

// WriteCSVFile flattens the per-task score records to CSV, one row per task
// in the snapshot's (task-id sorted) order.
func WriteCSVFile(path string, snap Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("reporting: create %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("reporting: write csv header: %w", err)
	}
	for _, rec := range snap.Tasks {
		row := []string{
			rec.TaskID,
			formatScore(rec.RobotSelection),
			formatScore(rec.StepMatch),
			formatScore(rec.PrefixMatch),
			formatScore(rec.ActionTypeMatch),
			formatScore(rec.LengthRatio),
			formatScore(rec.ActionPlanning),
			formatScore(rec.Total),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("reporting: write csv row for %s: %w", rec.TaskID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("reporting: flush csv: %w", err)
	}
	return f.Close()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeStatsFile(path string, snap Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("reporting: create %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	if err := WriteStats(f, snap); err != nil {
		return fmt.Errorf("reporting: write stats: %w", err)
	}
	return f.Close()
}
