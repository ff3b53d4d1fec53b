// Package aggregate folds per-task score records into a corpus-level report:
// running count, sum, extrema, and a six-bucket score histogram. Reports from
// disjoint task subsets merge associatively, so chunked, checkpointed, or
// parallel runs all converge on the same final report.
package aggregate

import (
	"errors"
	"math"
	"sort"

	"github.com/viki-bench/planeval/internal/models"
	"github.com/viki-bench/planeval/internal/scoring"
)

// ErrEmptyCorpus is reported once at the end of a run that scored no tasks.
var ErrEmptyCorpus = errors.New("aggregate: empty task corpus")

// Bucket identifies one of the six fixed total-score ranges.
type Bucket int

const (
	BucketZero Bucket = iota
	BucketLow
	BucketMediumLow
	BucketMediumHigh
	BucketHigh
	BucketPerfect

	NumBuckets = int(BucketPerfect) + 1
)

var bucketLabels = [NumBuckets]string{
	"Zero (0.0)",
	"Low (0.0-0.3]",
	"Medium-Low (0.3-0.6]",
	"Medium-High (0.6-0.9]",
	"High (0.9-1.0)",
	"Perfect (1.0)",
}

func (b Bucket) Label() string { return bucketLabels[b] }

// BucketFor assigns a total score to exactly one bucket. The extremes are
// singleton buckets; interior ranges are half-open, inclusive on the upper
// edge, so a boundary score falls in the lower-numbered bucket.
func BucketFor(score float64) Bucket {
	switch {
	case score == 0.0:
		return BucketZero
	case score == 1.0:
		return BucketPerfect
	case score <= 0.3:
		return BucketLow
	case score <= 0.6:
		return BucketMediumLow
	case score <= 0.9:
		return BucketMediumHigh
	default:
		return BucketHigh
	}
}

// Report is the corpus accumulator. The scalar fields are all
// associative-combinable, which is what makes Merge safe; Records and
// DataErrors are carried along for the final per-task listing. The JSON form
// round-trips losslessly, so partial reports can be checkpointed to disk and
// merged later.
type Report struct {
	Count        int                  `json:"count"`
	Sum          float64              `json:"sum"`
	SumSquares   float64              `json:"sum_squares"`
	MinScore     float64              `json:"min_score"`
	MaxScore     float64              `json:"max_score"`
	BucketCounts [NumBuckets]int      `json:"bucket_counts"`
	Records      []models.ScoreRecord `json:"records"`
	DataErrors   []models.DataError   `json:"data_errors,omitempty"`
}

// New returns an empty report.
func New() *Report {
	return &Report{}
}

// Fold accumulates one score record.
func (r *Report) Fold(rec models.ScoreRecord) {
	if r.Count == 0 || rec.Total < r.MinScore {
		r.MinScore = rec.Total
	}
	if r.Count == 0 || rec.Total > r.MaxScore {
		r.MaxScore = rec.Total
	}
	r.Count++
	r.Sum += rec.Total
	r.SumSquares += rec.Total * rec.Total
	r.BucketCounts[BucketFor(rec.Total)]++
	r.Records = append(r.Records, rec)
}

// AddDataError records a task excluded because its reference record was
// malformed. Excluded tasks never contribute to the mean or histogram.
func (r *Report) AddDataError(e models.DataError) {
	r.DataErrors = append(r.DataErrors, e)
}

// Merge combines another report into this one by summing counts, sums, and
// per-bucket counters. Merging partial reports from any partition of the
// corpus, in any order, yields the same result as a single sequential fold.
func (r *Report) Merge(other *Report) {
	if other == nil || (other.Count == 0 && len(other.DataErrors) == 0) {
		return
	}
	if other.Count > 0 {
		if r.Count == 0 || other.MinScore < r.MinScore {
			r.MinScore = other.MinScore
		}
		if r.Count == 0 || other.MaxScore > r.MaxScore {
			r.MaxScore = other.MaxScore
		}
	}
	r.Count += other.Count
	r.Sum += other.Sum
	r.SumSquares += other.SumSquares
	for i := range r.BucketCounts {
		r.BucketCounts[i] += other.BucketCounts[i]
	}
	r.Records = append(r.Records, other.Records...)
	r.DataErrors = append(r.DataErrors, other.DataErrors...)
}

// Mean returns the mean total score, or 0 for an empty report.
func (r *Report) Mean() float64 {
	if r.Count == 0 {
		return 0
	}
	return r.Sum / float64(r.Count)
}

// StdDev returns the population standard deviation of total scores.
func (r *Report) StdDev() float64 {
	if r.Count == 0 {
		return 0
	}
	mean := r.Mean()
	variance := r.SumSquares/float64(r.Count) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// Finalize sorts the per-task listings by task id so the report is
// reproducible regardless of completion order, and surfaces the
// empty-corpus condition once, at the end.
func (r *Report) Finalize() error {
	sort.Slice(r.Records, func(i, j int) bool { return r.Records[i].TaskID < r.Records[j].TaskID })
	sort.Slice(r.DataErrors, func(i, j int) bool { return r.DataErrors[i].TaskID < r.DataErrors[j].TaskID })
	if r.Count == 0 {
		return ErrEmptyCorpus
	}
	return nil
}

// Corpus scores every (already normalized) task and folds the results into
// a fresh report.
func Corpus(tasks []models.TaskRecord) *Report {
	report := New()
	for _, task := range tasks {
		report.Fold(scoring.ScoreTask(task))
	}
	return report
}
