package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/viki-bench/planeval/internal/orchestration"
)

// progressPrinter renders runner progress events. In verbose mode every task
// gets a line; otherwise only checkpoints, data errors, and the run summary
// are shown. When stdout is a terminal the per-task line overwrites itself.
type progressPrinter struct {
	out     io.Writer
	verbose bool
	isTTY   bool
}

func newProgressPrinter(out io.Writer, verbose bool) *progressPrinter {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	return &progressPrinter{out: out, verbose: verbose, isTTY: isTTY}
}

func (p *progressPrinter) handle(event orchestration.ProgressEvent) {
	switch event.EventType {
	case orchestration.EventRunStart:
		fmt.Fprintf(p.out, "Scoring %d tasks\n", event.TotalTasks)
	case orchestration.EventTaskComplete:
		if p.verbose {
			fmt.Fprintf(p.out, "[%d/%d] %s score=%.4f mean=%.4f\n",
				event.TaskNum, event.TotalTasks, event.TaskID, event.Score, event.RunningMean)
		} else if p.isTTY {
			fmt.Fprintf(p.out, "\r[%d/%d] mean=%.4f", event.TaskNum, event.TotalTasks, event.RunningMean)
		}
	case orchestration.EventTaskError:
		p.clearLine()
		fmt.Fprintf(p.out, "[%d/%d] %s excluded: %s\n",
			event.TaskNum, event.TotalTasks, event.TaskID, event.Reason)
	case orchestration.EventCheckpoint:
		p.clearLine()
		if event.CheckpointPath != "" {
			fmt.Fprintf(p.out, "Checkpoint after %d tasks: %s\n", event.TaskNum, event.CheckpointPath)
		} else {
			fmt.Fprintf(p.out, "Checkpoint after %d tasks failed: %s\n", event.TaskNum, event.Reason)
		}
	case orchestration.EventRunComplete:
		p.clearLine()
		fmt.Fprintf(p.out, "Done: %d tasks, mean score %.4f\n", event.TotalTasks, event.RunningMean)
	}
}

func (p *progressPrinter) clearLine() {
	if p.isTTY && !p.verbose {
		fmt.Fprint(p.out, "\r\033[K")
	}
}
