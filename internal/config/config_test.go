package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planeval.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
name: viki-l2-test
dataset: data/test.json
output_dir: out
parallel: true
max_workers: 8
checkpoint_every: 25
checkpoint_dir: out/checkpoints
exporters:
  - type: json
  - type: csv
    config:
      path: out/custom.csv
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "viki-l2-test", cfg.Name)
	require.Equal(t, "data/test.json", cfg.Dataset)
	require.True(t, cfg.Concurrent)
	require.Equal(t, 8, cfg.Workers)
	require.Equal(t, 25, cfg.CheckpointEvery)
	require.Len(t, cfg.Exporters, 2)
	require.Equal(t, "out/custom.csv", cfg.Exporters[1].Options["path"])
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "dataset: data/test.json\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DefaultWorkers, cfg.Workers)
	require.Equal(t, DefaultCheckpointEvery, cfg.CheckpointEvery)
	require.Equal(t, DefaultOutputDir, cfg.OutputDir)
	require.Equal(t, []ExporterConfig{{Kind: "json"}, {Kind: "stats"}}, cfg.Exporters)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("missing dataset", func(t *testing.T) {
		_, err := Load(writeConfig(t, "name: x\n"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "dataset")
	})

	t.Run("unknown exporter", func(t *testing.T) {
		_, err := Load(writeConfig(t, "dataset: d.json\nexporters:\n  - type: xml\n"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "xml")
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "dataset: [unclosed\n"))
		require.Error(t, err)
	})
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	cfg := &RunConfig{
		Name:    "round-trip",
		Dataset: "data/test.jsonl",
	}
	cfg.ApplyDefaults()

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}
