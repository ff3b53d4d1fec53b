package orchestration

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/viki-bench/planeval/internal/aggregate"
	"github.com/viki-bench/planeval/internal/checkpoint"
	"github.com/viki-bench/planeval/internal/config"
	"github.com/viki-bench/planeval/internal/models"
)

func strptr(s string) *string { return &s }

// goodTask builds an input whose prediction matches the reference on the
// first matching of total steps.
func goodTask(id string, total, matching int) models.TaskInput {
	ref := models.PlanRecord{RobotSelection: []*string{strptr("r1")}}
	pred := models.PlanRecord{RobotSelection: []*string{strptr("r1")}}
	for i := 1; i <= total; i++ {
		ref.ActionPlan = append(ref.ActionPlan, models.RawStep{
			Step:    i,
			Actions: map[string][]string{"r1": {"Move", fmt.Sprintf("target-%d", i)}},
		})
		target := fmt.Sprintf("target-%d", i)
		if i > matching {
			target = "elsewhere"
		}
		pred.ActionPlan = append(pred.ActionPlan, models.RawStep{
			Step:    i,
			Actions: map[string][]string{"r1": {"Move", target}},
		})
	}
	return models.TaskInput{TaskID: id, Reference: ref, Predicted: &pred}
}

func brokenTask(id string) models.TaskInput {
	return models.TaskInput{
		TaskID:    id,
		Reference: models.PlanRecord{RobotSelection: nil},
	}
}

func corpus(n int) []models.TaskInput {
	inputs := make([]models.TaskInput, 0, n)
	for i := 0; i < n; i++ {
		inputs = append(inputs, goodTask(fmt.Sprintf("task_%03d", i), 4, i%5))
	}
	return inputs
}

func runConfig(concurrent bool) *config.RunConfig {
	cfg := &config.RunConfig{Dataset: "unused", Concurrent: concurrent}
	cfg.ApplyDefaults()
	return cfg
}

func TestRunner_Sequential(t *testing.T) {
	inputs := []models.TaskInput{
		goodTask("a", 3, 3),
		goodTask("b", 3, 1),
		brokenTask("c"),
	}

	runner := NewRunner(runConfig(false))
	report, err := runner.Run(context.Background(), inputs)
	require.NoError(t, err)
	require.NoError(t, report.Finalize())

	require.Equal(t, 2, report.Count)
	require.Len(t, report.DataErrors, 1)
	require.Equal(t, "c", report.DataErrors[0].TaskID)
	require.Equal(t, 1.0, report.Records[0].Total)
}

func TestRunner_ConcurrentMatchesSequential(t *testing.T) {
	inputs := corpus(37)
	inputs = append(inputs, brokenTask("task_bad"))

	seqReport, err := NewRunner(runConfig(false)).Run(context.Background(), inputs)
	require.NoError(t, err)

	for _, workers := range []int{1, 4, 16} {
		cfg := runConfig(true)
		cfg.Workers = workers
		conReport, err := NewRunner(cfg).Run(context.Background(), inputs)
		require.NoError(t, err)

		require.Equal(t, seqReport.Count, conReport.Count)
		require.InDelta(t, seqReport.Sum, conReport.Sum, 1e-9)
		require.Equal(t, seqReport.BucketCounts, conReport.BucketCounts)
		// Finalize sorts, so the task listings are identical too.
		require.Equal(t, seqReport.Records, conReport.Records)
		require.Equal(t, seqReport.DataErrors, conReport.DataErrors)
	}
}

func TestRunner_EmptyCorpus(t *testing.T) {
	runner := NewRunner(runConfig(false))

	t.Run("no inputs", func(t *testing.T) {
		_, err := runner.Run(context.Background(), nil)
		require.ErrorIs(t, err, aggregate.ErrEmptyCorpus)
	})

	t.Run("only data errors", func(t *testing.T) {
		report, err := runner.Run(context.Background(), []models.TaskInput{brokenTask("a")})
		require.ErrorIs(t, err, aggregate.ErrEmptyCorpus)
		require.Len(t, report.DataErrors, 1)
	})
}

func TestRunner_Checkpoints(t *testing.T) {
	dir := t.TempDir()
	w, err := checkpoint.NewWriter(dir)
	require.NoError(t, err)

	cfg := runConfig(false)
	cfg.CheckpointEvery = 10
	runner := NewRunner(cfg, WithCheckpoints(w))

	var checkpoints []string
	runner.OnProgress(func(event ProgressEvent) {
		if event.EventType == EventCheckpoint && event.CheckpointPath != "" {
			checkpoints = append(checkpoints, event.CheckpointPath)
		}
	})

	report, err := runner.Run(context.Background(), corpus(25))
	require.NoError(t, err)
	require.Equal(t, 25, report.Count)

	// Snapshots after tasks 10 and 20; no snapshot at the end of the run.
	require.Len(t, checkpoints, 2)

	partial, err := checkpoint.Read(checkpoints[0])
	require.NoError(t, err)
	require.Equal(t, 10, partial.Count)
}

func TestRunner_ProgressEvents(t *testing.T) {
	inputs := []models.TaskInput{goodTask("a", 2, 2), brokenTask("b")}

	var mu sync.Mutex
	counts := map[EventType]int{}
	runner := NewRunner(runConfig(false))
	runner.OnProgress(func(event ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		counts[event.EventType]++
	})

	_, err := runner.Run(context.Background(), inputs)
	require.NoError(t, err)

	require.Equal(t, 1, counts[EventRunStart])
	require.Equal(t, 1, counts[EventTaskComplete])
	require.Equal(t, 1, counts[EventTaskError])
	require.Equal(t, 1, counts[EventRunComplete])
}

func TestRunner_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(runConfig(false)).Run(ctx, corpus(5))
	require.ErrorIs(t, err, context.Canceled)
}
