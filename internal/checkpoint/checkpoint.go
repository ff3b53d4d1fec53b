// Package checkpoint persists partial corpus reports during a long run: the
// runner snapshots its accumulator every N tasks, so progress is inspectable
// and the latest snapshot survives a crash. Reports produced over disjoint
// dataset shards can also be merged back into one. Files are zstd-compressed
// JSON, written atomically (temp file + rename) so a crash mid-write never
// leaves a truncated checkpoint behind.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/viki-bench/planeval/internal/aggregate"
)

const fileExt = ".json.zst"

// Writer writes numbered checkpoint files into a directory.
type Writer struct {
	dir string
}

// NewWriter creates the checkpoint directory if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("checkpoint: create dir %s: %w", dir, err)
	}
	return &Writer{dir: dir}, nil
}

// Write stores a partial report covering the first processed tasks of the
// run. Returns the path of the written file.
func (w *Writer) Write(processed int, report *aggregate.Report) (string, error) {
	path := filepath.Join(w.dir, fmt.Sprintf("report_partial_%06d%s", processed, fileExt))
	tmp, err := os.CreateTemp(w.dir, "checkpoint-*")
	if err != nil {
		return "", fmt.Errorf("checkpoint: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	enc, err := zstd.NewWriter(tmp)
	if err != nil {
		tmp.Close() //nolint:errcheck
		return "", fmt.Errorf("checkpoint: init compressor: %w", err)
	}
	if err := json.NewEncoder(enc).Encode(report); err != nil {
		enc.Close() //nolint:errcheck
		tmp.Close() //nolint:errcheck
		return "", fmt.Errorf("checkpoint: encode report: %w", err)
	}
	if err := enc.Close(); err != nil {
		tmp.Close() //nolint:errcheck
		return "", fmt.Errorf("checkpoint: flush compressor: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("checkpoint: close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("checkpoint: rename into place: %w", err)
	}
	return path, nil
}

// Read loads one report file. Plain .json files are accepted alongside
// compressed checkpoints, so externally produced partial reports merge too.
func Read(path string) (*aggregate.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("checkpoint: init decompressor: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	report := aggregate.New()
	if err := json.NewDecoder(r).Decode(report); err != nil {
		return nil, fmt.Errorf("checkpoint: decode %s: %w", path, err)
	}
	return report, nil
}

// MergeFiles reads every given report file and merges them into one report.
// Order does not affect the result.
func MergeFiles(paths []string) (*aggregate.Report, error) {
	merged := aggregate.New()
	for _, path := range paths {
		partial, err := Read(path)
		if err != nil {
			return nil, err
		}
		merged.Merge(partial)
	}
	return merged, nil
}

// List returns the checkpoint files in a directory, oldest first.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: read dir %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
