package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/viki-bench/planeval/internal/aggregate"
)

// Exit codes for different failure modes
const (
	ExitSuccess     = 0 // Evaluation ran and produced a report
	ExitEmptyCorpus = 1 // No task could be scored
	ExitError       = 2 // Configuration or runtime error
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		if errors.Is(err, aggregate.ErrEmptyCorpus) {
			os.Exit(ExitEmptyCorpus)
		}
		os.Exit(ExitError)
	}
}
