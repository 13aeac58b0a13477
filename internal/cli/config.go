package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read from the working directory when --config is
// not given. A missing default file is not an error.
const DefaultConfigFile = "epsql.yaml"

// Config is the optional config file. Command-line flags override it.
type Config struct {
	// Database is the result file used when --db is not given.
	Database string `yaml:"db"`

	// BusyTimeout is how long a statement waits on a locked file,
	// e.g. "5s".
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// CreateIndexes adds the optional read indexes on open.
	CreateIndexes bool `yaml:"create_indexes"`

	// Format is "text" or "json".
	Format string `yaml:"format"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// LoadConfig reads a config file. An empty path reads DefaultConfigFile
// when it exists. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.Format != "" && !isValidFormat(c.Format) {
		errs = append(errs, fmt.Errorf("invalid format %q: must be one of %v", c.Format, ValidFormats))
	}
	if c.LogLevel != "" {
		if _, err := parseLevel(c.LogLevel); err != nil {
			errs = append(errs, err)
		}
	}
	if c.BusyTimeout < 0 {
		errs = append(errs, fmt.Errorf("busy_timeout must not be negative, got %s", c.BusyTimeout))
	}
	return errors.Join(errs...)
}

// Level returns the log level: debug when verbose, else the configured
// level, else warn.
func (c Config) Level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	if lvl, err := parseLevel(c.LogLevel); err == nil && c.LogLevel != "" {
		return lvl
	}
	return slog.LevelWarn
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return lvl, nil
}
