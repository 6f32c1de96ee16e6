package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexandro/filesearch-mcp/filter"
)

func writeConfig(t *testing.T, dir string, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func Test_Load_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Level())
	assert.False(t, cfg.WatchEnabled())
	assert.Equal(t, 0, cfg.SyncInterval())
	assert.Equal(t, 50, cfg.ResultLimit())
	assert.Empty(t, cfg.Path())
}

func Test_Load_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.Error(t, err)
}

func Test_Defaults_TwoIndependentCeilings(t *testing.T) {
	cfg := Default()

	assert.Equal(t, filter.DefaultIndexedMaxFileSize, cfg.IndexedFilter().MaxFileSizeBytes)
	assert.Equal(t, filter.DefaultLiveMaxFileSize, cfg.LiveFilter().MaxFileSizeBytes)
	assert.NotEqual(t, cfg.IndexedFilter().MaxFileSizeBytes, cfg.LiveFilter().MaxFileSizeBytes)
	assert.Contains(t, cfg.LiveFilter().SkipDirs, "bin")
	assert.Contains(t, cfg.IndexedFilter().SkipDirs, "logs")
	assert.Equal(t, filter.DefaultHiddenPrefix, cfg.IndexedFilter().HiddenPrefix)
}

func Test_Load_OverridesFromYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
log_level: DEBUG
watch: true
sync_interval_seconds: 30
exclude: ["*.bak"]
indexed:
  max_file_size: 1024
  skip_dirs: [vendor]
  content_extensions: [.go]
  respect_gitignore: true
live:
  max_file_size: 2048
  include_hidden: true
  exclude: ["*.tmp"]
  text_extensions: [.rs]
  workers: 3
`)

	cfg, err := Load("", dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Level())
	assert.True(t, cfg.WatchEnabled())
	assert.Equal(t, 30, cfg.SyncInterval())

	indexed := cfg.IndexedFilter()
	assert.Equal(t, int64(1024), indexed.MaxFileSizeBytes)
	assert.Equal(t, []string{"vendor"}, indexed.SkipDirs)
	assert.True(t, indexed.RespectGitignore)
	assert.Equal(t, []string{"*.bak"}, indexed.ExcludePatterns)
	assert.Equal(t, []string{".go"}, cfg.ContentExtensions())

	live := cfg.LiveFilter()
	assert.Equal(t, int64(2048), live.MaxFileSizeBytes)
	assert.Empty(t, live.HiddenPrefix)
	assert.Equal(t, []string{"*.bak", "*.tmp"}, live.ExcludePatterns)
	assert.Equal(t, []string{".rs"}, cfg.TextExtensions())
	assert.Equal(t, 3, cfg.LiveWorkers())
}

func Test_Load_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "indexed: [not, a, map")

	_, err := Load("", dir)
	assert.ErrorContains(t, err, "malformed config file")
}

func Test_Validate_Bounds(t *testing.T) {
	negative := int64(-1)
	zero := 0
	minus := -5

	tests := []struct {
		name string
		cfg  Config
	}{
		{"log level", Config{LogLevel: "verbose"}},
		{"indexed size", Config{Indexed: Indexed{Walk: Walk{MaxFileSize: &negative}}}},
		{"live size", Config{Live: Live{Walk: Walk{MaxFileSize: &negative}}}},
		{"workers", Config{Live: Live{Workers: &minus}}},
		{"sync interval", Config{SyncIntervalSeconds: &minus}},
		{"max results", Config{MaxResults: &zero}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.cfg.Validate(), ErrInvalidValue)
		})
	}
}

func Test_Load_InvalidValueReported(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "live:\n  workers: -2\n")

	_, err := Load("", dir)
	assert.ErrorIs(t, err, ErrInvalidValue)
}
