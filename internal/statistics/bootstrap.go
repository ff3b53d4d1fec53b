// Package statistics provides the corpus-level statistics that cannot be
// folded incrementally and are computed once over the retained per-task
// scores.
package statistics

import (
	"math"
	"math/rand"
	"sort"
)

// ConfidenceInterval is a bootstrap confidence interval for the mean total
// score.
type ConfidenceInterval struct {
	Lower           float64 `json:"lower"`
	Upper           float64 `json:"upper"`
	Mean            float64 `json:"mean"`
	ConfidenceLevel float64 `json:"confidence_level"`
	NumBootstraps   int     `json:"num_bootstraps"`
}

// DefaultBootstrapIterations is the number of bootstrap resamples.
const DefaultBootstrapIterations = 10000

// BootstrapCI computes a percentile-method bootstrap confidence interval
// over the given scores. confidenceLevel should be in (0, 1), e.g. 0.95.
// The seed makes reports reproducible; fewer than 2 scores collapse the
// interval to the mean.
func BootstrapCI(scores []float64, confidenceLevel float64, seed int64) ConfidenceInterval {
	n := len(scores)
	m := Mean(scores)
	if n < 2 {
		return ConfidenceInterval{
			Lower:           m,
			Upper:           m,
			Mean:            m,
			ConfidenceLevel: confidenceLevel,
		}
	}

	rng := rand.New(rand.NewSource(seed))
	iters := DefaultBootstrapIterations

	bootMeans := make([]float64, iters)
	sample := make([]float64, n)
	for i := 0; i < iters; i++ {
		for j := 0; j < n; j++ {
			sample[j] = scores[rng.Intn(n)]
		}
		bootMeans[i] = Mean(sample)
	}
	sort.Float64s(bootMeans)

	alpha := 1.0 - confidenceLevel
	loIdx := int(math.Floor(alpha / 2.0 * float64(iters)))
	hiIdx := int(math.Floor((1.0 - alpha/2.0) * float64(iters)))
	if hiIdx >= iters {
		hiIdx = iters - 1
	}

	return ConfidenceInterval{
		Lower:           bootMeans[loIdx],
		Upper:           bootMeans[hiIdx],
		Mean:            m,
		ConfidenceLevel: confidenceLevel,
		NumBootstraps:   iters,
	}
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
