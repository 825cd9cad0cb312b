// Package config loads exporter settings from JSON, YAML or TOML files and
// merges them with command-line overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"urdf-scene-exporter/internal/kinematics"
	"urdf-scene-exporter/internal/logging"
	"urdf-scene-exporter/internal/motion"
)

// Config holds all configurable paths and export settings.
type Config struct {
	// Paths
	URDF         string            `json:"urdf" yaml:"urdf" toml:"urdf"`
	BaseDir      string            `json:"base_dir" yaml:"base_dir" toml:"base_dir"`
	OutputDir    string            `json:"output_dir" yaml:"output_dir" toml:"output_dir"`
	Packages     map[string]string `json:"packages" yaml:"packages" toml:"packages"`
	PackageRoots []string          `json:"package_roots" yaml:"package_roots" toml:"package_roots"`

	// Export settings
	EntityPrefix string    `json:"entity_prefix" yaml:"entity_prefix" toml:"entity_prefix"`
	Mode         string    `json:"mode" yaml:"mode" toml:"mode"`
	Frames       int       `json:"frames" yaml:"frames" toml:"frames"`
	Seed         int64     `json:"seed" yaml:"seed" toml:"seed"`
	Workers      int       `json:"workers" yaml:"workers" toml:"workers"`
	DefaultColor []float64 `json:"default_color" yaml:"default_color" toml:"default_color"`
	Textures     bool      `json:"textures" yaml:"textures" toml:"textures"`
	Preview      bool      `json:"preview" yaml:"preview" toml:"preview"`
	PreviewSize  int       `json:"preview_size" yaml:"preview_size" toml:"preview_size"`
	LogLevel     string    `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// Load reads a config file, choosing the decoder by extension
// (.json, .yaml/.yml or .toml). Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("config: %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
// Zero values mean "not set".
type Flags struct {
	URDF      string
	BaseDir   string
	OutputDir string
	Prefix    string
	Mode      string
	Frames    int
	Seed      int64
	Workers   int
	LogLevel  string
	Textures  bool
	Preview   bool
}

// Resolve applies flag overrides, then fills empty fields with defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.URDF != "" {
		c.URDF = flags.URDF
	}
	if flags.BaseDir != "" {
		c.BaseDir = flags.BaseDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Prefix != "" {
		c.EntityPrefix = flags.Prefix
	}
	if flags.Mode != "" {
		c.Mode = flags.Mode
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Seed != 0 {
		c.Seed = flags.Seed
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.Textures {
		c.Textures = true
	}
	if flags.Preview {
		c.Preview = true
	}

	// Base dir defaults to the directory holding the description
	if c.BaseDir == "" && c.URDF != "" {
		c.BaseDir = filepath.Dir(c.URDF)
	}

	// Resolve relative paths against base dir
	if c.BaseDir != "" {
		if c.OutputDir == "" {
			c.OutputDir = filepath.Join(c.BaseDir, "scene-out")
		} else if !filepath.IsAbs(c.OutputDir) {
			c.OutputDir = filepath.Join(c.BaseDir, c.OutputDir)
		}
		for name, dir := range c.Packages {
			if !filepath.IsAbs(dir) {
				c.Packages[name] = filepath.Join(c.BaseDir, dir)
			}
		}
		for i, root := range c.PackageRoots {
			if !filepath.IsAbs(root) {
				c.PackageRoots[i] = filepath.Join(c.BaseDir, root)
			}
		}
	}

	// Defaults for export settings
	if c.Mode == "" {
		c.Mode = motion.Original.String()
	}
	if c.Frames < 0 {
		c.Frames = 0
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.PreviewSize <= 0 {
		c.PreviewSize = 512
	}
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if c.URDF == "" {
		return fmt.Errorf("config: no urdf file given")
	}
	if _, err := motion.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.DefaultColor != nil && len(c.DefaultColor) != 4 {
		return fmt.Errorf("config: default_color needs 4 components, got %d", len(c.DefaultColor))
	}
	return nil
}

// Color returns DefaultColor as a kinematics.Color, or nil when unset.
func (c *Config) Color() *kinematics.Color {
	if len(c.DefaultColor) != 4 {
		return nil
	}
	col := kinematics.Color{c.DefaultColor[0], c.DefaultColor[1], c.DefaultColor[2], c.DefaultColor[3]}
	return &col
}

// MotionMode returns the parsed Mode. Call Validate first.
func (c *Config) MotionMode() motion.Mode {
	m, _ := motion.ParseMode(c.Mode)
	return m
}
