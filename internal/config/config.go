// Package config holds the pattern catalog and the runtime settings.
// Settings come from built-in defaults, an optional YAML file and CMOLE_*
// environment variables, in that order of precedence; command-line flags are
// applied on top by the cmd package.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/lakshaymaurya-felt/cachemole/internal/core"
	"gopkg.in/yaml.v3"
)

// Config errors.
var (
	ErrEmptyConfigPath  = fmt.Errorf("config file path cannot be empty")
	ErrConfigParse      = fmt.Errorf("failed to parse config")
	ErrConfigValidation = fmt.Errorf("invalid configuration")
	ErrConfigEnv        = fmt.Errorf("failed to read environment overrides")
)

// Config represents the application configuration.
type Config struct {
	Settings Settings `yaml:"settings"`
	Projects Projects `yaml:"projects"`

	// ExtraPatterns are appended to the built-in catalog.
	ExtraPatterns []Pattern `yaml:"extra_patterns,omitempty"`

	// ExtraProtected are appended to the built-in protected list.
	ExtraProtected []string `yaml:"extra_protected,omitempty"`
}

// Settings are general scan and output settings.
type Settings struct {
	// MinSize is the smallest candidate offered, e.g. "100MB".
	MinSize string `yaml:"min_size" env:"MIN_SIZE"`

	// DryRun runs every check but removes nothing.
	DryRun bool `yaml:"dry_run" env:"DRY_RUN"`

	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL"`   // debug, info, warn, error
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT"` // text, json
}

// Projects configures the build-artifact scan.
type Projects struct {
	Enabled   bool          `yaml:"enabled" env:"ENABLED"`
	Roots     []string      `yaml:"roots" env:"ROOTS" envSeparator:":"`
	Markers   []string      `yaml:"markers" env:"MARKERS" envSeparator:","`
	Artifacts []string      `yaml:"artifacts" env:"ARTIFACTS" envSeparator:","`
	Exclude   []string      `yaml:"exclude" env:"EXCLUDE" envSeparator:":"`
	MinAge    time.Duration `yaml:"min_age" env:"MIN_AGE"`
	MaxDepth  int           `yaml:"max_depth" env:"MAX_DEPTH"`
}

// Default configuration values.
const (
	// DefaultMinSize is the candidate size threshold.
	DefaultMinSize = "100MiB"

	// DefaultMinAge is how long an artifact directory must sit untouched.
	DefaultMinAge = 24 * time.Hour

	// DefaultMaxDepth bounds the project walk below each root.
	DefaultMaxDepth = 4

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "CMOLE_"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{
			MinSize:   DefaultMinSize,
			LogLevel:  "info",
			LogFormat: "text",
		},
		Projects: Projects{
			Enabled: true,
			Roots: []string{
				"~/Development",
				"~/Projects",
				"~/Code",
				"~/dev",
				"~/projects",
				"~/workspace",
				"~/Documents/Projects",
				"~/Documents/Development",
				"~/Desktop",
			},
			Markers: []string{
				"package.json",
				"Cargo.toml",
				"go.mod",
				"pom.xml",
				"build.gradle",
				"build.gradle.kts",
				"pyproject.toml",
				"requirements.txt",
				"composer.json",
				"Gemfile",
			},
			Artifacts: []string{
				"node_modules",
				"target",
				"build",
				"dist",
				".next",
				"__pycache__",
				".venv",
				".gradle",
			},
			Exclude:  []string{"~/Library", "~/.cache"},
			MinAge:   DefaultMinAge,
			MaxDepth: DefaultMaxDepth,
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, ErrEmptyConfigPath
	}

	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := DefaultConfig()
			if err := cfg.ApplyEnv(); err != nil {
				return nil, err
			}
			if err := cfg.Validate(); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, core.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader. Keys absent
// from the document keep their default values.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, core.Wrap(err, "failed to read config data")
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, core.Wrap(ErrConfigParse, err.Error())
	}
	cfg.applyDefaults()

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays CMOLE_* and CMOLE_PROJECTS_* environment variables.
// Unset variables leave the current values untouched.
func (c *Config) ApplyEnv() error {
	if err := ParseEnv(&c.Settings, EnvPrefix); err != nil {
		return core.Wrap(ErrConfigEnv, err.Error())
	}
	if err := ParseEnv(&c.Projects, EnvPrefix+"PROJECTS_"); err != nil {
		return core.Wrap(ErrConfigEnv, err.Error())
	}
	return nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any, prefix string) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// applyDefaults fills zero values that an explicit YAML document may have
// cleared.
func (c *Config) applyDefaults() {
	if c.Settings.MinSize == "" {
		c.Settings.MinSize = DefaultMinSize
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = "info"
	}
	if c.Settings.LogFormat == "" {
		c.Settings.LogFormat = "text"
	}
	if c.Projects.MaxDepth == 0 {
		c.Projects.MaxDepth = DefaultMaxDepth
	}
	for i := range c.ExtraPatterns {
		if c.ExtraPatterns[i].Kind == "" {
			c.ExtraPatterns[i].Kind = KindLiteral
		}
		if c.ExtraPatterns[i].Category == "" {
			c.ExtraPatterns[i].Category = CategorySystem
		}
	}
}

// Validate checks the configuration for values the scanners cannot use.
func (c *Config) Validate() error {
	if _, err := core.ParseSize(c.Settings.MinSize); err != nil {
		return core.Wrap(ErrConfigValidation, "min_size: "+err.Error())
	}
	if c.Projects.MinAge < 0 {
		return core.Wrap(ErrConfigValidation, "projects.min_age must not be negative")
	}
	if c.Projects.MaxDepth < 1 {
		return core.Wrap(ErrConfigValidation, "projects.max_depth must be at least 1")
	}
	for _, p := range c.ExtraPatterns {
		if p.Name == "" || p.Path == "" {
			return core.Wrap(ErrConfigValidation, "extra_patterns entries need a name and a path")
		}
		switch p.Kind {
		case KindLiteral, KindGlob, KindApps:
		default:
			return core.Wrapf(ErrConfigValidation, "pattern %s: unknown kind %q", p.Name, p.Kind)
		}
	}
	return nil
}

// MinSizeBytes returns the parsed size threshold.
func (c *Config) MinSizeBytes() (int64, error) {
	return core.ParseSize(c.Settings.MinSize)
}

// Catalog returns the built-in catalog extended with the configured extras.
func (c *Config) Catalog() Catalog {
	return DefaultCatalog().WithExtras(c.ExtraPatterns, c.ExtraProtected)
}

// Encode writes the configuration as YAML.
func (c *Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(YAMLIndent)
	if err := enc.Encode(c); err != nil {
		return core.Wrap(err, "failed to encode config")
	}
	return enc.Close()
}
