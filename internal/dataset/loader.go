// Package dataset loads evaluation files: per-task entries pairing a
// ground-truth record with a predicted record. Both a JSON array and JSONL
// (one entry per line) are accepted. Predicted records come from an
// arbitrary external planner and are screened against a JSON schema before
// decoding; a record that fails the screen is degraded to "no prediction"
// rather than aborting the run.
package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/viki-bench/planeval/internal/models"
)

// rawEntry defers predicted-record decoding until after schema screening.
type rawEntry struct {
	TaskID      string            `json:"task_id"`
	Instruction string            `json:"instruction"`
	Reference   models.PlanRecord `json:"reference"`
	Predicted   json.RawMessage   `json:"predicted"`
}

// Load reads an evaluation file, dispatching on extension: .jsonl and
// .ndjson are read line by line, everything else as a JSON array.
func Load(path string) ([]models.TaskInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return LoadJSONL(f)
	default:
		return LoadJSON(f)
	}
}

// LoadJSON reads a JSON array of task entries.
func LoadJSON(r io.Reader) ([]models.TaskInput, error) {
	var entries []rawEntry
	dec := json.NewDecoder(r)
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("dataset: parse JSON array: %w", err)
	}
	return convert(entries)
}

// LoadJSONL reads one task entry per line, skipping blank lines.
func LoadJSONL(r io.Reader) ([]models.TaskInput, error) {
	var entries []rawEntry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var entry rawEntry
		if err := json.Unmarshal([]byte(text), &entry); err != nil {
			return nil, fmt.Errorf("dataset: parse line %d: %w", line, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dataset: read: %w", err)
	}
	return convert(entries)
}

func convert(entries []rawEntry) ([]models.TaskInput, error) {
	tasks := make([]models.TaskInput, 0, len(entries))
	for i, entry := range entries {
		taskID := entry.TaskID
		if taskID == "" {
			taskID = entry.Reference.TaskID
		}
		if taskID == "" {
			return nil, fmt.Errorf("dataset: entry %d has no task_id", i+1)
		}

		task := models.TaskInput{
			TaskID:      taskID,
			Instruction: entry.Instruction,
			Reference:   entry.Reference,
		}
		task.Predicted = decodePredicted(taskID, entry.Predicted)
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// decodePredicted screens and decodes a predicted record. An absent, null,
// schema-violating, or undecodable record yields nil, which downstream
// scores as an empty prediction.
func decodePredicted(taskID string, raw json.RawMessage) *models.PlanRecord {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	if err := ValidatePredicted(raw); err != nil {
		slog.Warn("predicted record failed schema validation, scoring as empty prediction",
			"task_id", taskID,
			"error", err)
		return nil
	}

	var rec models.PlanRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		slog.Warn("predicted record failed to decode, scoring as empty prediction",
			"task_id", taskID,
			"error", err)
		return nil
	}
	return &rec
}
