// Package config loads cardb settings from flags, a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix marks environment variables read as configuration.
// CARDB_LOG_LEVEL sets the "log-level" key.
const EnvPrefix = "CARDB_"

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all application configuration.
type Config struct {
	DB         string `koanf:"db" validate:"required"`
	Addr       string `koanf:"addr" validate:"required,hostname_port"`
	LogLevel   string `koanf:"log-level" validate:"oneof=debug info warn error"`
	LogFormat  string `koanf:"log-format" validate:"oneof=text json"`
	ImportDir  string `koanf:"import-dir" validate:"omitempty,dir"`
	ImportGit  string `koanf:"import-git"`
	ReposDir   string `koanf:"repos-dir" validate:"required"`
	ImportOnly bool   `koanf:"import-only"`
}

// Flags returns the flag set Load understands. Flag defaults are the lowest
// configuration layer.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "Path to a YAML config file")
	fs.String("db", "cardb.db", "Path to the SQLite database file")
	fs.String("addr", "localhost:8080", "HTTP listen address")
	fs.String("log-level", "info", "Log level: debug, info, warn or error")
	fs.String("log-format", "text", "Log format: text or json")
	fs.String("import-dir", "", "Import markdown decks from this directory at startup")
	fs.String("import-git", "", "Import markdown decks from this git repository at startup")
	fs.String("repos-dir", "repos", "Directory for git checkouts")
	fs.Bool("import-only", false, "Exit after importing instead of serving HTTP")
	return fs
}

// Load parses args and layers flag defaults, the config file, CARDB_*
// environment variables and explicitly set flags, in that order.
func Load(args []string) (*Config, error) {
	fs := Flags("cardb")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if path, _ := fs.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	// Flags set on the command line override everything loaded so far.
	// Unset flags only fill keys that are still missing.
	if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps CARDB_LOG_LEVEL to log-level.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", "-")
}

// Validate checks the struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Logger builds the process logger described by the config.
func (c *Config) Logger() *slog.Logger {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
