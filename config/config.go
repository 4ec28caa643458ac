// Package config handles persistent CLI defaults.
//
// Config is stored at $XDG_CONFIG_HOME/stepline/config.yaml (defaults to
// ~/.config/stepline/config.yaml). A missing file is not an error; it reads
// as the zero config, which leaves every rendering default in place.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stepline"

	"gopkg.in/yaml.v3"
)

// Config holds rendering defaults applied before command-line flags.
type Config struct {
	// Width is the default viewport width in cells. Zero means detect from
	// the terminal, falling back to unconstrained.
	Width int `yaml:"width,omitempty"`
	// Labels is the default label mode: auto, always, or never.
	Labels string `yaml:"labels,omitempty"`
}

// Path returns the config file location. It respects XDG_CONFIG_HOME,
// falling back to ~/.config/stepline/config.yaml.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".config", "stepline", "config.yaml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "stepline", "config.yaml")
}

// Load reads the config file. If the file does not exist, a zero Config is
// returned (not an error).
func Load() (*Config, error) {
	return loadFrom(Path())
}

func loadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if _, err := cfg.LabelMode(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to disk, creating directories as needed.
func (c *Config) Save() error {
	p := Path()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// LabelMode parses the Labels field. An empty field means LabelsAuto.
func (c *Config) LabelMode() (stepline.LabelMode, error) {
	switch strings.ToLower(strings.TrimSpace(c.Labels)) {
	case "", "auto":
		return stepline.LabelsAuto, nil
	case "always":
		return stepline.LabelsAlways, nil
	case "never":
		return stepline.LabelsNever, nil
	default:
		return stepline.LabelsAuto, fmt.Errorf("invalid labels mode %q", c.Labels)
	}
}
