package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ftkit/ftkit/internal/display"
	"github.com/ftkit/ftkit/internal/pixels"
)

// FileName is the configuration file looked up by LoadConfig.
const FileName = "ftkit.yaml"

// Config represents the ftkit.yaml configuration file
type Config struct {
	Progress ProgressConfig `yaml:"progress"`
	Display  DisplayConfig  `yaml:"display"`
	Filters  []string       `yaml:"filters"`
}

// ProgressConfig contains progress display and demo settings
type ProgressConfig struct {
	Width       int           `yaml:"width"`
	ASCII       bool          `yaml:"ascii"`
	MinInterval time.Duration `yaml:"min_interval"`
	Description string        `yaml:"description"`
	Delay       time.Duration `yaml:"delay"`
	Count       int           `yaml:"count"`
}

// DisplayConfig contains image display settings
type DisplayConfig struct {
	Colormap string `yaml:"colormap"`
	Mode     string `yaml:"mode"`
	MaxWidth int    `yaml:"max_width"`
	SaveDir  string `yaml:"save_dir"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Progress: ProgressConfig{
			Delay: 500 * time.Millisecond,
			Count: 10,
		},
		Display: DisplayConfig{
			Mode:     string(display.ModeAuto),
			MaxWidth: display.DefaultMaxWidth,
		},
	}
}

// LoadConfig loads ftkit.yaml from the current directory or a parent
// directory. When there is none, the defaults are returned with an empty
// directory.
func LoadConfig() (*Config, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	return loadConfigFromDir(dir)
}

// LoadConfigFromPath loads the configuration from a specific path. Fields
// missing from the file keep their defaults.
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.Display.Mode == "" {
		config.Display.Mode = string(display.ModeAuto)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return config, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Progress.Width < 0 {
		errs = append(errs, fmt.Errorf("progress.width must not be negative, got %d", c.Progress.Width))
	}
	if c.Progress.MinInterval < 0 {
		errs = append(errs, fmt.Errorf("progress.min_interval must not be negative, got %s", c.Progress.MinInterval))
	}
	if c.Progress.Delay < 0 {
		errs = append(errs, fmt.Errorf("progress.delay must not be negative, got %s", c.Progress.Delay))
	}
	if c.Progress.Count < 0 {
		errs = append(errs, fmt.Errorf("progress.count must not be negative, got %d", c.Progress.Count))
	}
	if c.Display.MaxWidth < 0 {
		errs = append(errs, fmt.Errorf("display.max_width must not be negative, got %d", c.Display.MaxWidth))
	}
	if _, err := display.ParseColormap(c.Display.Colormap); err != nil {
		errs = append(errs, fmt.Errorf("display.colormap: %w", err))
	}
	if _, err := display.ParseMode(c.Display.Mode); err != nil {
		errs = append(errs, fmt.Errorf("display.mode: %w", err))
	}
	for _, name := range c.Filters {
		if _, ok := pixels.Lookup(name); !ok {
			errs = append(errs, fmt.Errorf("filters: unknown filter %q", name))
		}
	}

	return errors.Join(errs...)
}

// loadConfigFromDir searches for ftkit.yaml in the given directory and its parents
func loadConfigFromDir(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			config, err := LoadConfigFromPath(configPath)
			if err != nil {
				return nil, "", err
			}
			return config, dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return Default(), "", nil
}
