// Package config loads filesearch configuration from a YAML file.
// Every field is optional; accessors return the documented default when a
// value is not set.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lexandro/filesearch-mcp/extract"
	"github.com/lexandro/filesearch-mcp/filter"
)

// FileName is the config file looked up in the search root when no explicit path is given.
const FileName = ".filesearch.yaml"

var (
	// ErrInvalidValue is returned when a config value is out of range.
	ErrInvalidValue = errors.New("invalid config value")
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Walk holds the traversal settings of one search mode.
type Walk struct {
	SkipDirs         []string `yaml:"skip_dirs,omitempty"`
	MaxFileSize      *int64   `yaml:"max_file_size,omitempty"`
	Exclude          []string `yaml:"exclude,omitempty"`
	RespectGitignore *bool    `yaml:"respect_gitignore,omitempty"`
	// IncludeHidden disables pruning of dot-prefixed directories.
	IncludeHidden *bool `yaml:"include_hidden,omitempty"`
}

// Indexed configures index builds.
type Indexed struct {
	Walk              `yaml:",inline"`
	ContentExtensions []string `yaml:"content_extensions,omitempty"`
}

// Live configures live searches.
type Live struct {
	Walk           `yaml:",inline"`
	TextExtensions []string `yaml:"text_extensions,omitempty"`
	// Workers bounds the parallel line scanners; 0 means one per CPU.
	Workers *int `yaml:"workers,omitempty"`
}

// Config contains configuration for filesearch.
type Config struct {
	Root                string   `yaml:"root,omitempty"`
	LogLevel            string   `yaml:"log_level,omitempty"`
	LogFile             string   `yaml:"log_file,omitempty"`
	Watch               *bool    `yaml:"watch,omitempty"`
	SyncIntervalSeconds *int     `yaml:"sync_interval_seconds,omitempty"`
	MaxResults          *int     `yaml:"max_results,omitempty"`
	Exclude             []string `yaml:"exclude,omitempty"` // applied to both modes
	Indexed             Indexed  `yaml:"indexed,omitempty"`
	Live                Live     `yaml:"live,omitempty"`

	// path is the file this config was loaded from ("" for defaults)
	path string
}

// Default returns a config with nothing set.
func Default() *Config {
	return &Config{}
}

// Load reads the config at path. An empty path means FileName inside rootDir.
// A missing file yields defaults; a malformed or invalid one is an error.
func Load(path string, rootDir string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(rootDir, FileName)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w", path, err)
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Path returns the file this config was loaded from, or "" for defaults.
func (c *Config) Path() string {
	return c.path
}

// Validate checks that all configured values are within acceptable bounds.
func (c *Config) Validate() error {
	if c.LogLevel != "" && !slices.Contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("%w: log_level must be one of %v, got %q", ErrInvalidValue, validLogLevels, c.LogLevel)
	}
	if v := c.Indexed.MaxFileSize; v != nil && *v <= 0 {
		return fmt.Errorf("%w: indexed.max_file_size must be positive, got %d", ErrInvalidValue, *v)
	}
	if v := c.Live.MaxFileSize; v != nil && *v <= 0 {
		return fmt.Errorf("%w: live.max_file_size must be positive, got %d", ErrInvalidValue, *v)
	}
	if v := c.Live.Workers; v != nil && *v < 0 {
		return fmt.Errorf("%w: live.workers must not be negative, got %d", ErrInvalidValue, *v)
	}
	if v := c.SyncIntervalSeconds; v != nil && *v < 0 {
		return fmt.Errorf("%w: sync_interval_seconds must not be negative, got %d", ErrInvalidValue, *v)
	}
	if v := c.MaxResults; v != nil && *v <= 0 {
		return fmt.Errorf("%w: max_results must be positive, got %d", ErrInvalidValue, *v)
	}
	return nil
}

// Level returns the log level (defaults to "info").
func (c *Config) Level() string {
	if c.LogLevel == "" {
		return "info"
	}
	return strings.ToLower(c.LogLevel)
}

// WatchEnabled returns whether filesystem changes trigger a rebuild (defaults to false).
func (c *Config) WatchEnabled() bool {
	return c.Watch != nil && *c.Watch
}

// SyncInterval returns the periodic consistency check interval in seconds (defaults to 0, disabled).
func (c *Config) SyncInterval() int {
	if c.SyncIntervalSeconds == nil {
		return 0
	}
	return *c.SyncIntervalSeconds
}

// ResultLimit returns the default maximum number of results shown (defaults to 50).
func (c *Config) ResultLimit() int {
	if c.MaxResults == nil {
		return 50
	}
	return *c.MaxResults
}

// IndexedFilter returns the path filter options for index builds.
func (c *Config) IndexedFilter() filter.Options {
	return c.walkOptions(c.Indexed.Walk, filter.DefaultIndexedSkipDirs(), filter.DefaultIndexedMaxFileSize)
}

// LiveFilter returns the path filter options for live searches.
func (c *Config) LiveFilter() filter.Options {
	return c.walkOptions(c.Live.Walk, filter.DefaultLiveSkipDirs(), filter.DefaultLiveMaxFileSize)
}

// ContentExtensions returns the plain-text extensions stored by index builds.
func (c *Config) ContentExtensions() []string {
	if len(c.Indexed.ContentExtensions) == 0 {
		return extract.DefaultContentExtensions()
	}
	return slices.Clone(c.Indexed.ContentExtensions)
}

// TextExtensions returns the extensions live content search treats as text.
func (c *Config) TextExtensions() []string {
	if len(c.Live.TextExtensions) == 0 {
		return extract.DefaultLiveTextExtensions()
	}
	return slices.Clone(c.Live.TextExtensions)
}

// LiveWorkers returns the live scanner bound (0 means one per CPU).
func (c *Config) LiveWorkers() int {
	if c.Live.Workers == nil {
		return 0
	}
	return *c.Live.Workers
}

func (c *Config) walkOptions(w Walk, defaultSkip []string, defaultMax int64) filter.Options {
	options := filter.Options{
		RootDir:          c.Root,
		SkipDirs:         defaultSkip,
		HiddenPrefix:     filter.DefaultHiddenPrefix,
		ExcludePatterns:  append(slices.Clone(c.Exclude), w.Exclude...),
		MaxFileSizeBytes: defaultMax,
	}
	if len(w.SkipDirs) > 0 {
		options.SkipDirs = slices.Clone(w.SkipDirs)
	}
	if w.MaxFileSize != nil {
		options.MaxFileSizeBytes = *w.MaxFileSize
	}
	if w.RespectGitignore != nil {
		options.RespectGitignore = *w.RespectGitignore
	}
	if w.IncludeHidden != nil && *w.IncludeHidden {
		options.HiddenPrefix = ""
	}
	return options
}
