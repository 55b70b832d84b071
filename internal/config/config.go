// Package config loads the engine's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/lowengine/internal/core/observability/log"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Window         Window    `yaml:"window"`
	TPS            int       `yaml:"tps"`
	LogLevel       string    `yaml:"log_level"`
	AssetsManifest string    `yaml:"assets_manifest,omitempty"`
	StartupScene   string    `yaml:"startup_scene"`
	Inspector      Inspector `yaml:"inspector"`
}

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// Inspector configures the websocket editor endpoint.
type Inspector struct {
	Enabled        bool          `yaml:"enabled"`
	Addr           string        `yaml:"addr"`
	MaxClients     int           `yaml:"max_clients"`
	CommandTimeout time.Duration `yaml:"command_timeout"`
}

func Default() Config {
	return Config{
		Window: Window{
			Width:  1280,
			Height: 720,
			Title:  "lowengine",
		},
		TPS:          60,
		LogLevel:     "info",
		StartupScene: "Main",
		Inspector: Inspector{
			Enabled:        false,
			Addr:           "127.0.0.1:7777",
			MaxClients:     16,
			CommandTimeout: 2 * time.Second,
		},
	}
}

// Load reads the file at path over the defaults. An empty path yields the
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses YAML over the defaults and validates the result. Unknown keys
// are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height))
	}
	if c.TPS <= 0 {
		errs = append(errs, fmt.Errorf("%w: tps must be positive, got %d", ErrInvalidConfig, c.TPS))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidConfig, err))
	}
	if c.StartupScene == "" {
		errs = append(errs, fmt.Errorf("%w: startup_scene is required", ErrInvalidConfig))
	}
	if c.Inspector.Enabled && c.Inspector.Addr == "" {
		errs = append(errs, fmt.Errorf("%w: inspector.addr is required when enabled", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// Level is the parsed LogLevel. Validate has already rejected bad values.
func (c Config) Level() log.Level {
	level, _ := log.ParseLevel(c.LogLevel)
	return level
}
