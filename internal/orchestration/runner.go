// Package orchestration drives an evaluation run: it normalizes and scores
// each task, folds the results into a corpus report, snapshots checkpoints,
// and notifies progress listeners. Scoring itself is pure, so tasks may be
// evaluated by any number of workers; the report accumulator has a single
// writer.
package orchestration

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/viki-bench/planeval/internal/aggregate"
	"github.com/viki-bench/planeval/internal/checkpoint"
	"github.com/viki-bench/planeval/internal/config"
	"github.com/viki-bench/planeval/internal/models"
	"github.com/viki-bench/planeval/internal/normalize"
	"github.com/viki-bench/planeval/internal/scoring"
)

// EventType identifies a progress event.
type EventType string

const (
	EventRunStart     EventType = "run_start"
	EventTaskComplete EventType = "task_complete"
	EventTaskError    EventType = "task_error"
	EventCheckpoint   EventType = "checkpoint"
	EventRunComplete  EventType = "run_complete"
)

// ProgressEvent is a progress update delivered to listeners.
type ProgressEvent struct {
	EventType      EventType
	TaskID         string
	TaskNum        int
	TotalTasks     int
	Score          float64
	RunningMean    float64
	CheckpointPath string
	Reason         string
}

// ProgressListener receives progress updates.
type ProgressListener func(event ProgressEvent)

// Runner evaluates a corpus of tasks according to a RunConfig.
type Runner struct {
	cfg  *config.RunConfig
	ckpt *checkpoint.Writer

	progressMu sync.Mutex
	listeners  []ProgressListener
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithCheckpoints enables partial-report snapshots every
// cfg.CheckpointEvery completed tasks.
func WithCheckpoints(w *checkpoint.Writer) RunnerOption {
	return func(r *Runner) {
		r.ckpt = w
	}
}

// NewRunner creates a runner.
func NewRunner(cfg *config.RunConfig, opts ...RunnerOption) *Runner {
	r := &Runner{cfg: cfg}
	for _, o := range opts {
		o(r)
	}
	return r
}

// OnProgress registers a progress listener.
func (r *Runner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *Runner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := r.listeners
	r.progressMu.Unlock()
	for _, l := range listeners {
		l(event)
	}
}

// taskResult is one evaluated task: either a score record or a data error.
type taskResult struct {
	record  models.ScoreRecord
	dataErr *models.DataError
}

// Run evaluates every task and returns the finalized corpus report. A
// reference-side malformation excludes that task and is recorded as a data
// error; it never aborts the run. The returned error is non-nil when the
// corpus produced no scored tasks ([aggregate.ErrEmptyCorpus]) or when the
// context was cancelled.
func (r *Runner) Run(ctx context.Context, inputs []models.TaskInput) (*aggregate.Report, error) {
	r.notifyProgress(ProgressEvent{EventType: EventRunStart, TotalTasks: len(inputs)})

	var err error
	report := aggregate.New()
	if r.cfg.Concurrent {
		err = r.runConcurrent(ctx, inputs, report)
	} else {
		err = r.runSequential(ctx, inputs, report)
	}
	if err != nil {
		return report, err
	}

	finalizeErr := report.Finalize()
	r.notifyProgress(ProgressEvent{
		EventType:   EventRunComplete,
		TotalTasks:  len(inputs),
		RunningMean: report.Mean(),
	})
	return report, finalizeErr
}

func (r *Runner) runSequential(ctx context.Context, inputs []models.TaskInput, report *aggregate.Report) error {
	for i, input := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}
		res := evaluateTask(input)
		r.fold(report, res, i+1, len(inputs))
	}
	return nil
}

func (r *Runner) runConcurrent(ctx context.Context, inputs []models.TaskInput, report *aggregate.Report) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.cfg.Workers)

	results := make(chan taskResult)
	go func() {
		defer close(results)
		for _, input := range inputs {
			eg.Go(func() error {
				select {
				case results <- evaluateTask(input):
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
		}
		eg.Wait() //nolint:errcheck
	}()

	processed := 0
	for res := range results {
		processed++
		r.fold(report, res, processed, len(inputs))
	}
	return eg.Wait()
}

// fold applies one result to the report. Called from a single goroutine;
// the accumulator is never shared between writers.
func (r *Runner) fold(report *aggregate.Report, res taskResult, processed, total int) {
	if res.dataErr != nil {
		report.AddDataError(*res.dataErr)
		r.notifyProgress(ProgressEvent{
			EventType:  EventTaskError,
			TaskID:     res.dataErr.TaskID,
			TaskNum:    processed,
			TotalTasks: total,
			Reason:     res.dataErr.Reason,
		})
	} else {
		report.Fold(res.record)
		r.notifyProgress(ProgressEvent{
			EventType:   EventTaskComplete,
			TaskID:      res.record.TaskID,
			TaskNum:     processed,
			TotalTasks:  total,
			Score:       res.record.Total,
			RunningMean: report.Mean(),
		})
	}

	if r.ckpt != nil && processed%r.cfg.CheckpointEvery == 0 && processed < total {
		path, err := r.ckpt.Write(processed, report)
		if err != nil {
			r.notifyProgress(ProgressEvent{
				EventType:  EventCheckpoint,
				TaskNum:    processed,
				TotalTasks: total,
				Reason:     err.Error(),
			})
			return
		}
		r.notifyProgress(ProgressEvent{
			EventType:      EventCheckpoint,
			TaskNum:        processed,
			TotalTasks:     total,
			CheckpointPath: path,
		})
	}
}

// evaluateTask normalizes and scores one task. Pure: no shared state.
func evaluateTask(in models.TaskInput) taskResult {
	task, err := normalize.Task(in)
	if err != nil {
		reason := err.Error()
		var malformed *normalize.MalformedPlanError
		if errors.As(err, &malformed) {
			reason = malformed.Reason
		}
		return taskResult{dataErr: &models.DataError{TaskID: in.TaskID, Reason: reason}}
	}
	return taskResult{record: scoring.ScoreTask(task)}
}
