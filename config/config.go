// Package config loads the settings shared by the shapecache tools.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/shapecache/catalog"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

var ErrInvalid = errors.New("config: invalid")

// Config holds all tool configuration.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Physics PhysicsConfig `yaml:"physics"`
	Viewer  ViewerConfig  `yaml:"viewer"`
}

// CatalogConfig selects the documents to load and how to interpret them.
type CatalogConfig struct {
	Mode           string   `yaml:"mode"`
	NormalizeScale bool     `yaml:"normalize_scale"`
	Documents      []string `yaml:"documents"`
	Watch          bool     `yaml:"watch"`
	WatchDirs      []string `yaml:"watch_dirs"`
}

// PhysicsConfig holds space parameters.
type PhysicsConfig struct {
	GravityX   float64 `yaml:"gravity_x"`
	GravityY   float64 `yaml:"gravity_y"`
	Iterations int     `yaml:"iterations"`
	Damping    float64 `yaml:"damping"`
	Timestep   float64 `yaml:"timestep"`
}

// ViewerConfig holds shapeview window and scene settings.
type ViewerConfig struct {
	Width  int      `yaml:"width"`
	Height int      `yaml:"height"`
	Ground string   `yaml:"ground"`
	Spawn  []string `yaml:"spawn"`
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if _, err := catalog.ParseMode(c.Catalog.Mode); err != nil {
		return fmt.Errorf("%w: catalog.mode: %v", ErrInvalid, err)
	}
	if c.Physics.Iterations < 0 {
		return fmt.Errorf("%w: physics.iterations must not be negative", ErrInvalid)
	}
	if c.Physics.Damping < 0 || c.Physics.Damping > 1 {
		return fmt.Errorf("%w: physics.damping must be within [0, 1]", ErrInvalid)
	}
	if c.Physics.Timestep <= 0 {
		return fmt.Errorf("%w: physics.timestep must be positive", ErrInvalid)
	}
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		return fmt.Errorf("%w: viewer size must be positive", ErrInvalid)
	}
	return nil
}

// Options returns the catalog options described by the configuration.
func (c *Config) Options() catalog.Options {
	mode, err := catalog.ParseMode(c.Catalog.Mode)
	if err != nil {
		mode = catalog.CollisionOnly
	}
	return catalog.Options{Mode: mode, NormalizeScale: c.Catalog.NormalizeScale}
}

// Gravity returns the configured gravity vector.
func (c *Config) Gravity() cp.Vector {
	return cp.Vector{X: c.Physics.GravityX, Y: c.Physics.GravityY}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
