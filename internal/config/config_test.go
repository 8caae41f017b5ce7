package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/debtidy/debtidy/internal/overrides"
)

// chdir changes the working directory for the duration of the test,
// matching the behavior of testing.T.Chdir (added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_MissingDefaultFile_YieldsDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(DefaultPath)
	require.NoError(t, err)
	require.Equal(t, overrides.DefaultLocations, cfg.OverridePaths)
	require.Empty(t, cfg.Fixers)
	require.False(t, cfg.Metrics.Enabled)

	d, err := cfg.DebounceDuration()
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, d)
}

func TestLoad_MissingExplicitFile_Fails(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load("nonexistent.yaml")
	require.Error(t, err)
}

func TestLoad_FileValues_OverrideDefaults(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "debtidy.yaml")
	content := "fixers:\n  - renamed-tags\nmetrics:\n  enabled: true\n  listen: \":9999\"\nwatch:\n  debounce: 500ms\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"renamed-tags"}, cfg.Fixers)
	require.True(t, cfg.Metrics.Enabled)
	require.Equal(t, ":9999", cfg.Metrics.Listen)

	d, err := cfg.DebounceDuration()
	require.NoError(t, err)
	require.Equal(t, 500*time.Millisecond, d)
}

func TestLoad_EnvOverrides_BeatFileValues(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "debtidy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fixers:\n  - renamed-tags\n"), 0o644))

	t.Setenv("DEBTIDY_FIXERS", "rules-requires-root, override-info-format")
	t.Setenv("DEBTIDY_METRICS_LISTEN", ":7070")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"rules-requires-root", "override-info-format"}, cfg.Fixers)
	require.True(t, cfg.Metrics.Enabled)
	require.Equal(t, ":7070", cfg.Metrics.Listen)
}

func TestLoad_EnvExpansionInYAML(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "debtidy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("metrics:\n  enabled: true\n  listen: \"${METRICS_ADDR}\"\n"), 0o644))
	t.Setenv("METRICS_ADDR", ":8181")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":8181", cfg.Metrics.Listen)
}

func TestLoad_BadDebounce_Fails(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "debtidy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("watch:\n  debounce: soon\n"), 0o644))

	_, err := Load(path)
	require.ErrorContains(t, err, "watch.debounce")
}

func TestLoad_DotEnvFile_FeedsExpansion(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOTENV_LISTEN=:6161\n"), 0o644))
	path := filepath.Join(dir, "debtidy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("metrics:\n  enabled: true\n  listen: \"${DOTENV_LISTEN}\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":6161", cfg.Metrics.Listen)
}
