// Package config loads the validation service configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds directory layout and feature switches for the validation
// pipeline.
type Config struct {
	// SchemaDir holds {version}.xsd schema files.
	SchemaDir string `yaml:"schema_dir"`

	// TemplateDir holds {version}.xml templates for CSV rendering.
	TemplateDir string `yaml:"template_dir"`

	// ReferenceDir holds ref_{NN}.xml reference documents.
	ReferenceDir string `yaml:"reference_dir"`

	// ReportsDir receives generated CSV and HTML reports.
	ReportsDir string `yaml:"reports_dir"`

	// RegistryDSN, when set, points the duplicate-message-ID registry at a
	// SQLite database. Empty means a process-local in-memory registry.
	RegistryDSN string `yaml:"registry_dsn"`

	EnableReferenceDiff bool `yaml:"enable_reference_diff"`
	EnableAnnotatedView bool `yaml:"enable_annotated_view"`

	// AllowVersionPrompt lets the CLI ask the operator for a version when
	// detection fails. Non-interactive callers leave this off.
	AllowVersionPrompt bool `yaml:"allow_version_prompt"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no config file is present.
func Default() Config {
	return Config{
		SchemaDir:           "schemas",
		TemplateDir:         "templates",
		ReferenceDir:        "references",
		ReportsDir:          "reports",
		EnableAnnotatedView: true,
		LogLevel:            "info",
	}
}

// Load reads the configuration at path, filling defaults for unset fields.
// A missing file yields the defaults without error; an unreadable or
// malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.SchemaDir == "" {
		cfg.SchemaDir = Default().SchemaDir
	}
	if cfg.TemplateDir == "" {
		cfg.TemplateDir = Default().TemplateDir
	}
	if cfg.ReferenceDir == "" {
		cfg.ReferenceDir = Default().ReferenceDir
	}
	if cfg.ReportsDir == "" {
		cfg.ReportsDir = Default().ReportsDir
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = Default().LogLevel
	}
	return cfg, nil
}

// SlogLevel maps the configured log level onto slog's levels. Unknown
// values fall back to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
