package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ctrkit/pkg/memory"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ctrkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, memory.LE, cfg.Darc.Endianness)
	require.Equal(t, 16, cfg.Darc.Padding)
	require.GreaterOrEqual(t, cfg.Workers, 1)
}

func TestLoad_NoPath(t *testing.T) {
	t.Setenv(EnvPath, "")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_PartialOverride(t *testing.T) {
	path := writeConfig(t, `
darc:
  endianness: big
workers: 3
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, memory.BE, cfg.Darc.Endianness)
	require.Equal(t, 16, cfg.Darc.Padding, "missing keys keep defaults")
	require.Equal(t, 3, cfg.Workers)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_FromEnv(t *testing.T) {
	path := writeConfig(t, "output:\n  format: json\n")
	t.Setenv(EnvPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "json", cfg.Output.Format)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "darc: [unclosed"))
	require.ErrorContains(t, err, "parse")

	_, err = Load(writeConfig(t, "darc:\n  endianness: middle\n"))
	require.Error(t, err)
}

func TestValidate_CollectsAll(t *testing.T) {
	cfg := Default()
	cfg.Darc.Padding = -1
	cfg.Workers = 0
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"
	cfg.Output.Format = "toml"

	err := cfg.Validate()
	require.Error(t, err)
	for _, key := range []string{"darc.padding", "workers", "log.level", "log.format", "output.format"} {
		require.ErrorContains(t, err, key)
	}
}

func TestLoggerOptions(t *testing.T) {
	cfg := Default()
	cfg.Log.Format = "json"
	cfg.Log.Level = "error"

	opts := cfg.LoggerOptions(false)
	require.True(t, opts.Enabled)
	require.Equal(t, "json", opts.Format)
	require.Equal(t, "ERROR", opts.Level.String())

	require.False(t, cfg.LoggerOptions(true).Enabled)
}
