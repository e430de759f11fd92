// Package config resolves runtime settings from flags, the environment and
// an optional .env file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

type Config struct {
	Addr        string
	Driver      string
	DSN         string
	Markup      string
	Concurrency string
	SessionKey  string
	LogLevel    string
}

// Load reads .env from envFile if it exists, then parses args. Flags win
// over environment variables, which win over built-in defaults.
func Load(args []string, envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	flags := pflag.NewFlagSet("grove", pflag.ContinueOnError)
	flags.StringVar(&cfg.Addr, "addr", getenv("GROVE_ADDR", ":8030"), "HTTP listen address")
	flags.StringVar(&cfg.Driver, "driver", getenv("GROVE_DRIVER", "sqlite3"), "database driver: sqlite3 or postgres")
	flags.StringVar(&cfg.DSN, "dsn", getenv("GROVE_DSN", getenv("DB", "grove.db")), "database connection string")
	flags.StringVar(&cfg.Markup, "markup", getenv("GROVE_MARKUP", "markdown"), "page markup: markdown or org")
	flags.StringVar(&cfg.Concurrency, "concurrency", getenv("GROVE_CONCURRENCY", "optimistic"), "concurrent edit handling: optimistic or last-write-wins")
	flags.StringVar(&cfg.SessionKey, "session-key", getenv("GROVE_SESSION_KEY", ""), "key for signing flash message cookies (at least 32 bytes)")
	flags.StringVar(&cfg.LogLevel, "log-level", getenv("GROVE_LOG_LEVEL", "info"), "log level: debug, info, warn or error")
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("unsupported driver %q", c.Driver)
	}
	switch c.Markup {
	case "markdown", "org":
	default:
		return fmt.Errorf("unsupported markup %q", c.Markup)
	}
	if c.DSN == "" {
		return errors.New("dsn must not be empty")
	}
	if c.SessionKey != "" && len(c.SessionKey) < 32 {
		return errors.New("session key must be at least 32 characters long")
	}
	return nil
}

// Level maps LogLevel to a slog level, defaulting to info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
