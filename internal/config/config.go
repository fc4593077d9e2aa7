// Package config loads topsize settings from YAML files and command-line flags.
package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Outputs lists the supported output formats.
//
//nolint:gochecknoglobals // Config constant
var Outputs = []string{"text", "table", "json"}

// Config represents topsize configuration options.
type Config struct {
	// Folder is the directory to scan
	Folder string `yaml:"folder"`

	// FolderSize tracks folders by aggregate size instead of files
	FolderSize bool `yaml:"folder_size"`

	// Threads is the number of walker threads (1 = sequential)
	Threads uint8 `yaml:"threads"`

	// Track is the number of largest entries to report
	Track uint8 `yaml:"track"`

	// Excludes contains regex patterns for paths to skip
	Excludes []string `yaml:"excludes"`

	// Output is the output format (text, table, json)
	Output string `yaml:"output"`

	// ProgressInterval is how often the progress line refreshes
	ProgressInterval time.Duration `yaml:"-"`

	// Debug enables debug output
	Debug bool `yaml:"debug"`
}

// fileConfig mirrors Config for fields that need parsing.
type fileConfig struct {
	Config `yaml:",inline"`

	ProgressInterval string `yaml:"progress_interval"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Folder:           ".",
		FolderSize:       false,
		Threads:          1,
		Track:            10,
		Excludes:         []string{},
		Output:           "text",
		ProgressInterval: 500 * time.Millisecond,
		Debug:            false,
	}
}

// LoadConfig reads a YAML config file on top of the defaults.
// Keys missing from the file keep their default value.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	raw := fileConfig{Config: *DefaultConfig()}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config file %q: %w", path, err)
	}

	cfg := raw.Config

	if raw.ProgressInterval != "" {
		interval, err := time.ParseDuration(raw.ProgressInterval)
		if err != nil {
			return nil, fmt.Errorf("invalid progress_interval %q: %w", raw.ProgressInterval, err)
		}

		cfg.ProgressInterval = interval
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file %q: %w", path, err)
	}

	return &cfg, nil
}

// MergeFlags copies into c every value from flagged whose flag was set
// explicitly on the command line, so flags take precedence over the file.
func (c *Config) MergeFlags(flags *pflag.FlagSet, flagged *Config) {
	if flags.Changed("folder") {
		c.Folder = flagged.Folder
	}

	if flags.Changed("folder-size") {
		c.FolderSize = flagged.FolderSize
	}

	if flags.Changed("threads") {
		c.Threads = flagged.Threads
	}

	if flags.Changed("track") {
		c.Track = flagged.Track
	}

	if flags.Changed("exclude") {
		c.Excludes = flagged.Excludes
	}

	if flags.Changed("output") {
		c.Output = flagged.Output
	}

	if flags.Changed("debug") {
		c.Debug = flagged.Debug
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Threads < 1 {
		return fmt.Errorf("threads must be >= 1, got %d", c.Threads)
	}

	if !slices.Contains(Outputs, c.Output) {
		return fmt.Errorf("invalid output format %q: must be one of %v", c.Output, Outputs)
	}

	if c.ProgressInterval < 0 {
		return fmt.Errorf("progress_interval must be >= 0, got %v", c.ProgressInterval)
	}

	return nil
}
