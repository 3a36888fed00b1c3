package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDefault checks the built-in packaging constants.
func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.Equal(t, "CUSTOM-AP-FIRMWARE", cfg.OutputBaseName)
	require.Equal(t, []string{".img", ".bin"}, cfg.SourceExtensions)
	require.Equal(t, ".lz4", cfg.CompressedExtension)
	require.Equal(t, "CUSTOM-AP-FIRMWARE.tar", cfg.ArchiveName())
	require.Equal(t, "CUSTOM-AP-FIRMWARE.tar.md5", cfg.DeliverableName())
	require.Equal(t, []string{"lz4", "tar", "md5sum"}, cfg.RequiredTools())
	require.Equal(t, 20, cfg.Archive.BlockingFactor)
	require.Equal(t, "644", cfg.Archive.Mode)
	require.False(t, cfg.FailOnCollision)
	require.NoError(t, Validate(cfg))
}

// TestValidate checks required fields and format validations.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.Error(t, Validate(nil))

	cases := map[string]*Config{
		"base name with separator": {OutputBaseName: "out/AP"},
		"dot base name":            {OutputBaseName: ".."},
		"option-like base name":    {OutputBaseName: "-AP"},
		"extension without dot":    {SourceExtensions: []string{"img"}},
		"bare dot extension":       {CompressedExtension: "."},
		"negative blocking factor": {Archive: Archive{BlockingFactor: -1}},
		"non-octal mode":           {Archive: Archive{Mode: "rw-r--r--"}},
		"mode with eight":          {Archive: Archive{Mode: "684"}},
	}
	for name, cfg := range cases {
		require.Error(t, Validate(cfg), name)
	}

	cfg := &Config{SourceExtensions: []string{".img"}}
	require.NoError(t, Validate(cfg))
	require.Equal(t, []string{".img"}, cfg.SourceExtensions)
	require.Equal(t, DefaultCompressor, cfg.Tools.Compressor)
}

// TestLoad ensures YAML overrides are read and remaining fields fall back to defaults.
func TestLoad(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	dir := t.TempDir()
	path := filepath.Join(dir, "firmware-maker.yaml")

	contents := []byte(`output_base_name: HOME-CSC
fail_on_collision: true
tools:
  compressor: lz4c
metrics_file: /tmp/metrics.prom
`)
	require.NoError(t, os.WriteFile(path, contents, 0o600))

	cfg, err = Load(path)
	require.NoError(t, err)
	require.Equal(t, "HOME-CSC.tar.md5", cfg.DeliverableName())
	require.True(t, cfg.FailOnCollision)
	require.Equal(t, "lz4c", cfg.Tools.Compressor)
	require.Equal(t, DefaultArchiver, cfg.Tools.Archiver)
	require.Equal(t, "/tmp/metrics.prom", cfg.MetricsFile)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("archive: [1, 2"), 0o600))

	_, err = Load(bad)
	require.Error(t, err)
}
