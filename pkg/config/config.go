// Package config loads linemate settings from a YAML file.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"linemate/pkg/linemate"
)

var validate = validator.New()

type Viewport struct {
	Width  float64 `yaml:"width" validate:"gt=0"`
	Height float64 `yaml:"height" validate:"gt=0"`
}

// Config is the contents of a settings file.
//
//	viewport: {width: 1024, height: 768}
//	pixelRatio: 2
//	defaults:
//	  strokeColor: orange
//	  strategy: square-v
type Config struct {
	Viewport   Viewport         `yaml:"viewport"`
	PixelRatio float64          `yaml:"pixelRatio" validate:"gt=0"`
	Defaults   linemate.Options `yaml:"defaults" validate:"-"`
}

func Default() *Config {
	return &Config{
		Viewport:   Viewport{Width: 800, Height: 600},
		PixelRatio: 1,
	}
}

// Load reads and validates the file at path. Missing keys keep the values
// from Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Defaults.Validate(); err != nil {
		return fmt.Errorf("config defaults: %w", err)
	}
	return nil
}

// Apply merges the configured defaults into s.
func (c *Config) Apply(s *linemate.Session) error {
	_, err := s.Configure(c.Defaults)
	return err
}
