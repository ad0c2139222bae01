// Package config handles tracker configuration stored in the .jot directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/jot-sh/jot/internal/span"
)

const (
	// FileName is the config file name within the .jot directory.
	FileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 1

	// DefaultDecayAfter is the default age threshold for decay.
	DefaultDecayAfter = "7d"

	fileMode = 0o600
)

// Backend names accepted in the config.
const (
	BackendDir = "fs"
	BackendJJ  = "jj"
)

// Sentinel errors.
var (
	ErrNotFound = errors.New("no task tracker found (run 'jot init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config holds tracker settings read from config.yml.
type Config struct {
	Version      int    `yaml:"version"`
	Backend      string `yaml:"backend"`
	DefaultAgent string `yaml:"default_agent,omitempty"`
	DecayAfter   string `yaml:"decay_after,omitempty"`

	// dir is the absolute path to the .jot directory (not serialized).
	dir string `yaml:"-"`
}

// NewDefault creates a Config with default values for the given backend.
func NewDefault(backend string) *Config {
	return &Config{
		Version:    CurrentVersion,
		Backend:    backend,
		DecayAfter: DefaultDecayAfter,
	}
}

// Dir returns the absolute path to the .jot directory.
func (c *Config) Dir() string { return c.dir }

// SetDir sets the .jot directory path on the config.
func (c *Config) SetDir(dir string) { c.dir = dir }

// Path returns the absolute path to the config file.
func (c *Config) Path() string { return filepath.Join(c.dir, FileName) }

// DecayThreshold parses decay_after into a duration. Returns the
// default threshold if the field is empty.
func (c *Config) DecayThreshold() (time.Duration, error) {
	s := c.DecayAfter
	if s == "" {
		s = DefaultDecayAfter
	}
	return span.Parse(s)
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Backend != BackendDir && c.Backend != BackendJJ {
		return fmt.Errorf("%w: unknown backend %q (expected %s or %s)", ErrInvalid, c.Backend, BackendDir, BackendJJ)
	}
	if c.DecayAfter != "" {
		if _, err := span.Parse(c.DecayAfter); err != nil {
			return fmt.Errorf("%w: decay_after: %w", ErrInvalid, err)
		}
	}
	return nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.Path(), data, fileMode)
}

// Load reads and validates a config from the given .jot directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	data, err := os.ReadFile(filepath.Join(absDir, FileName)) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.dir = absDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
