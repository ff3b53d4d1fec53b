// Package reporting renders a finalized corpus report for humans and
// machines: an indented JSON document, a plain-text statistics summary, and
// a per-task CSV export.
package reporting

import (
	"time"

	"github.com/viki-bench/planeval/internal/aggregate"
	"github.com/viki-bench/planeval/internal/models"
	"github.com/viki-bench/planeval/internal/statistics"
)

// bootstrapSeed fixes the CI resampling so the same report always renders
// the same numbers.
const bootstrapSeed = 1

// Snapshot is the machine-readable form of a finalized corpus report.
type Snapshot struct {
	Name           string                         `json:"name,omitempty"`
	GeneratedAt    time.Time                      `json:"generated_at"`
	Count          int                            `json:"count"`
	ExcludedCount  int                            `json:"excluded_count"`
	MeanTotalScore float64                        `json:"mean_total_score"`
	TotalScoreSum  float64                        `json:"total_score_sum"`
	MinScore       float64                        `json:"min_score"`
	MaxScore       float64                        `json:"max_score"`
	StdDev         float64                        `json:"std_dev"`
	MeanCI         *statistics.ConfidenceInterval `json:"mean_ci,omitempty"`
	Distribution   []BucketCount                  `json:"score_distribution"`
	Tasks          []models.ScoreRecord           `json:"tasks"`
	DataErrors     []models.DataError             `json:"data_errors,omitempty"`
}

// BucketCount is one histogram row.
type BucketCount struct {
	Bucket  string  `json:"bucket"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// BuildSnapshot converts a finalized report into its rendered form. The
// report must already be finalized so the task listing order is stable.
func BuildSnapshot(name string, report *aggregate.Report) Snapshot {
	snap := Snapshot{
		Name:           name,
		GeneratedAt:    time.Now().UTC(),
		Count:          report.Count,
		ExcludedCount:  len(report.DataErrors),
		MeanTotalScore: report.Mean(),
		TotalScoreSum:  report.Sum,
		MinScore:       report.MinScore,
		MaxScore:       report.MaxScore,
		StdDev:         report.StdDev(),
		Tasks:          report.Records,
		DataErrors:     report.DataErrors,
	}

	if report.Count >= 2 {
		totals := make([]float64, 0, len(report.Records))
		for _, rec := range report.Records {
			totals = append(totals, rec.Total)
		}
		ci := statistics.BootstrapCI(totals, 0.95, bootstrapSeed)
		snap.MeanCI = &ci
	}

	snap.Distribution = make([]BucketCount, aggregate.NumBuckets)
	for i := 0; i < aggregate.NumBuckets; i++ {
		count := report.BucketCounts[i]
		percent := 0.0
		if report.Count > 0 {
			percent = float64(count) / float64(report.Count) * 100
		}
		snap.Distribution[i] = BucketCount{
			Bucket:  aggregate.Bucket(i).Label(),
			Count:   count,
			Percent: percent,
		}
	}
	return snap
}
