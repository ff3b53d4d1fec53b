package statistics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	require.Equal(t, 0.0, Mean(nil))
	require.Equal(t, 0.5, Mean([]float64{0.0, 1.0}))
	require.InDelta(t, 0.4, Mean([]float64{0.2, 0.4, 0.6}), 1e-12)
}

func TestBootstrapCI(t *testing.T) {
	t.Run("fewer than two points collapses to the mean", func(t *testing.T) {
		ci := BootstrapCI([]float64{0.7}, 0.95, 1)
		require.Equal(t, 0.7, ci.Lower)
		require.Equal(t, 0.7, ci.Upper)
		require.Equal(t, 0.7, ci.Mean)
		require.Zero(t, ci.NumBootstraps)
	})

	t.Run("interval brackets the mean", func(t *testing.T) {
		scores := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}
		ci := BootstrapCI(scores, 0.95, 1)
		require.LessOrEqual(t, ci.Lower, ci.Mean)
		require.GreaterOrEqual(t, ci.Upper, ci.Mean)
		require.Equal(t, DefaultBootstrapIterations, ci.NumBootstraps)
	})

	t.Run("same seed reproduces the interval", func(t *testing.T) {
		scores := []float64{0.1, 0.5, 0.9, 0.3}
		a := BootstrapCI(scores, 0.95, 42)
		b := BootstrapCI(scores, 0.95, 42)
		require.Equal(t, a, b)
	})

	t.Run("identical scores give a degenerate interval", func(t *testing.T) {
		ci := BootstrapCI([]float64{0.5, 0.5, 0.5, 0.5}, 0.95, 1)
		require.Equal(t, 0.5, ci.Lower)
		require.Equal(t, 0.5, ci.Upper)
	})
}
