// Package config loads trellis settings from a TOML file, with environment
// overrides applied on top.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/chazu/trellis/pkg/engine"
	"github.com/chazu/trellis/pkg/kernel"
	"github.com/chazu/trellis/pkg/logging"
)

// EnvLogLevel overrides Log.Level when set.
const EnvLogLevel = "TRELLIS_LOG_LEVEL"

// Config is the top-level configuration.
type Config struct {
	Log    Log    `toml:"log"`
	Kernel Kernel `toml:"kernel"`
	Engine Engine `toml:"engine"`
}

// Log configures the logger built by logging.New.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Kernel configures tessellation.
type Kernel struct {
	// Cells is the marching cubes resolution along the longest axis.
	Cells int `toml:"cells"`
}

// Engine configures script evaluation.
type Engine struct {
	Timeout Duration `toml:"timeout"`
}

// Duration is a time.Duration written as a string such as "5s" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log:    Log{Level: "info", Format: logging.FormatText},
		Kernel: Kernel{Cells: kernel.DefaultCells},
		Engine: Engine{Timeout: Duration{engine.DefaultTimeout}},
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
// Environment overrides are applied in both cases.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		defer f.Close()
		if cfg, err = Decode(f); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = v
	}
	return cfg, cfg.Validate()
}

// Decode reads TOML from r over the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, errors.New(strings.TrimSpace(strict.String()))
		}
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := logging.New(c.Log.Level, c.Log.Format, io.Discard); err != nil {
		return fmt.Errorf("config: log: %w", err)
	}
	if c.Kernel.Cells <= 0 {
		return fmt.Errorf("config: kernel.cells must be positive, got %d", c.Kernel.Cells)
	}
	if c.Engine.Timeout.Duration <= 0 {
		return fmt.Errorf("config: engine.timeout must be positive, got %s", c.Engine.Timeout)
	}
	return nil
}
