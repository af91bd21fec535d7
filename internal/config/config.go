/*
PURPOSE:
  Defines the configuration structure and loading logic for busmerge.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Default paths are relative to the tool's own location:
    source = directory of the executable, output = <source>/json_processed.
  - Output file is combined_bus_schedules.json.

  Implementation-discovered:
  - Needs to support YAML and TOML parsing (chosen by file extension).
  - Needs to support Environment variables overrides (BUSMERGE_...).

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine
  - Dependencies: gopkg.in/yaml.v3, github.com/BurntSushi/toml

ERROR HANDLING:
  - Returns explicit error if config file is invalid.
  - Missing default config file falls back to defaults silently.

IMPLEMENTATION RULES:
  - Config struct tags must cover both yaml and toml.
  - Resolve() fills empty paths; Load() never touches the filesystem beyond the config file.

USAGE:
  cfg, err := config.Load("busmerge.yaml")
  err = cfg.Resolve()

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct and update DefaultConfig().

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Update when adding new tuning parameters.
*/

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultOutputFile   = "combined_bus_schedules.json"
	DefaultOutputSubdir = "json_processed"

	EnvSourceDir = "BUSMERGE_SOURCE_DIR"
	EnvOutputDir = "BUSMERGE_OUTPUT_DIR"
)

// Config represents the full configuration for busmerge.
type Config struct {
	// SourceDir is scanned (non-recursively) for input files.
	// Empty means the directory of the running executable.
	SourceDir string `yaml:"source_dir" toml:"source_dir"`
	// OutputDir receives the combined file. Empty means <SourceDir>/json_processed.
	OutputDir  string `yaml:"output_dir" toml:"output_dir"`
	OutputFile string `yaml:"output_file" toml:"output_file"`
	Field      string `yaml:"field" toml:"field"`
	Extension  string `yaml:"extension" toml:"extension"`

	// Optional sinks, disabled when empty.
	JSONLFile  string `yaml:"jsonl_file" toml:"jsonl_file"`
	SQLitePath string `yaml:"sqlite_path" toml:"sqlite_path"`
	ReportFile string `yaml:"report_file" toml:"report_file"`

	LogFile  string `yaml:"log_file" toml:"log_file"`
	LogLevel string `yaml:"log_level" toml:"log_level"`

	WatchDebounce time.Duration `yaml:"watch_debounce" toml:"watch_debounce"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		OutputFile:    DefaultOutputFile,
		Field:         "busSchedules",
		Extension:     ".json",
		LogLevel:      "info",
		WatchDebounce: 500 * time.Millisecond,
	}
}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches for default files in order.
// If no file found, returns default config.
// Environment overrides are applied after the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
	} else {
		defaults := []string{"busmerge.yaml", "busmerge.yml", "busmerge.toml"}
		for _, name := range defaults {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				break
			}
		}
	}

	if path != "" && data != nil {
		if err := decode(path, data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err := toml.Decode(string(data), cfg)
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvSourceDir); v != "" {
		c.SourceDir = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
}

// Resolve fills in location-dependent defaults and validates the result.
func (c *Config) Resolve() error {
	if c.SourceDir == "" {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to locate executable: %w", err)
		}
		c.SourceDir = filepath.Dir(exe)
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.SourceDir, DefaultOutputSubdir)
	}
	if c.OutputFile == "" {
		c.OutputFile = DefaultOutputFile
	}
	if c.Field == "" {
		return fmt.Errorf("field must not be empty")
	}
	if c.Extension == "" {
		return fmt.Errorf("extension must not be empty")
	}
	if filepath.Base(c.OutputFile) != c.OutputFile {
		return fmt.Errorf("output_file must be a plain file name, got %q", c.OutputFile)
	}
	return nil
}

// OutputPath is the full path of the combined file.
func (c *Config) OutputPath() string {
	return filepath.Join(c.OutputDir, c.OutputFile)
}
