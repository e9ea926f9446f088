// Package config loads ctrtool settings from a YAML file.
//
// The lookup order is an explicit path, then $CTRKIT_CONFIG, then built-in
// defaults. Flags applied by the CLI override whatever is loaded here.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/ctrkit/internal/logger"
	"github.com/joshuapare/ctrkit/pkg/darc"
	"github.com/joshuapare/ctrkit/pkg/memory"
	"github.com/joshuapare/ctrkit/pkg/printer"
)

// EnvPath names the environment variable consulted when no path is given.
const EnvPath = "CTRKIT_CONFIG"

// Config is the on-disk settings file.
type Config struct {
	Darc    DarcConfig   `yaml:"darc"`
	Workers int          `yaml:"workers"`
	Log     LogConfig    `yaml:"log"`
	Output  OutputConfig `yaml:"output"`
}

// DarcConfig holds defaults for building archives.
type DarcConfig struct {
	Endianness memory.Endianness `yaml:"endianness"`
	Padding    int               `yaml:"padding"`
}

// LogConfig mirrors logger.Options.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Dir    string `yaml:"dir,omitempty"`
}

// OutputConfig selects how listings are printed.
type OutputConfig struct {
	Format string `yaml:"format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Darc: DarcConfig{
			Endianness: memory.LE,
			Padding:    darc.DefaultPadding,
		},
		Workers: runtime.NumCPU(),
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Output: OutputConfig{Format: string(printer.FormatText)},
	}
}

// Load reads path, or $CTRKIT_CONFIG when path is empty. Missing keys keep
// their defaults. With neither a path nor the variable set, Load returns
// Default().
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.Darc.Endianness != memory.LE && c.Darc.Endianness != memory.BE {
		errs = append(errs, fmt.Errorf("darc.endianness: invalid value %d", c.Darc.Endianness))
	}
	if c.Darc.Padding < 0 || int64(c.Darc.Padding) > 0xFFFFFFFF {
		errs = append(errs, fmt.Errorf("darc.padding: %d out of range", c.Darc.Padding))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers: must be at least 1, got %d", c.Workers))
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	if _, err := printer.ParseFormat(c.Output.Format); err != nil {
		errs = append(errs, fmt.Errorf("output.format: %w", err))
	}

	return errors.Join(errs...)
}

// LoggerOptions converts the log section for logger.Init. Logging is
// enabled unless quiet is set.
func (c Config) LoggerOptions(quiet bool) logger.Options {
	level, err := logger.ParseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelWarn
	}
	return logger.Options{
		Enabled: !quiet,
		Level:   level,
		Format:  c.Log.Format,
		LogDir:  c.Log.Dir,
	}
}
