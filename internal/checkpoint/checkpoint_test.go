package checkpoint

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/viki-bench/planeval/internal/aggregate"
	"github.com/viki-bench/planeval/internal/models"
)

func sampleReport(ids []string, scores []float64) *aggregate.Report {
	r := aggregate.New()
	for i, id := range ids {
		r.Fold(models.ScoreRecord{TaskID: id, Total: scores[i]})
	}
	return r
}

func TestWriteRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	report := sampleReport([]string{"a", "b"}, []float64{0.5, 1.0})
	report.AddDataError(models.DataError{TaskID: "c", Reason: "empty robot set"})

	path, err := w.Write(2, report)
	require.NoError(t, err)
	require.FileExists(t, path)

	restored, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, report, restored)
}

func TestRead_PlainJSON(t *testing.T) {
	dir := t.TempDir()
	report := sampleReport([]string{"a"}, []float64{0.25})

	data, err := json.Marshal(report)
	require.NoError(t, err)
	path := filepath.Join(dir, "report.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	restored, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, report, restored)
}

func TestMergeFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	shard1 := sampleReport([]string{"a", "b"}, []float64{0.0, 0.5})
	shard2 := sampleReport([]string{"c"}, []float64{1.0})

	path1, err := w.Write(2, shard1)
	require.NoError(t, err)
	path2, err := w.Write(3, shard2)
	require.NoError(t, err)

	merged, err := MergeFiles([]string{path2, path1})
	require.NoError(t, err)

	whole := sampleReport([]string{"a", "b", "c"}, []float64{0.0, 0.5, 1.0})
	require.Equal(t, whole.Count, merged.Count)
	require.InDelta(t, whole.Sum, merged.Sum, 1e-12)
	require.Equal(t, whole.BucketCounts, merged.BucketCounts)
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	_, err = w.Write(100, sampleReport([]string{"a"}, []float64{0.1}))
	require.NoError(t, err)
	_, err = w.Write(50, sampleReport([]string{"b"}, []float64{0.2}))
	require.NoError(t, err)

	// Unrelated files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	paths, err := List(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	require.Contains(t, paths[0], "report_partial_000050")
	require.Contains(t, paths[1], "report_partial_000100")
}
