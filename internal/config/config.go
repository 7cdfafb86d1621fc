// Package config resolves trestle settings from defaults, an optional YAML
// file, TRESTLE_* environment variables and command-line flags, in that
// order of increasing precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DBPath             string  `yaml:"db"`
	RemoteURL          string  `yaml:"remote_url"`
	Listen             string  `yaml:"listen"`
	LogLevel           string  `yaml:"log_level"`
	LogCalls           bool    `yaml:"log_calls"`
	RequestTimeoutMs   int     `yaml:"request_timeout_ms"`
	RateLimit          float64 `yaml:"rate_limit"`
	HydrateConcurrency int     `yaml:"hydrate_concurrency"`
}

// Dir is where trestle keeps its database and config file.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".trestle"
	}
	return filepath.Join(home, ".trestle")
}

// DefaultPath is the config file read when no path is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

func Default() Config {
	return Config{
		DBPath:             filepath.Join(Dir(), "trestle.db"),
		Listen:             "127.0.0.1:8080",
		LogLevel:           "warn",
		RequestTimeoutMs:   10000,
		RateLimit:          20,
		HydrateConcurrency: 4,
	}
}

// Load builds a Config from defaults, the YAML file at path and the
// environment. An empty path reads DefaultPath and tolerates its absence;
// an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if err := cfg.mergeFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	cfg.applyEnv(os.Getenv)
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays TRESTLE_* variables. Values that do not parse are
// ignored and the previous setting stays.
func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("TRESTLE_DB"); v != "" {
		c.DBPath = v
	}
	if v := getenv("TRESTLE_REMOTE_URL"); v != "" {
		c.RemoteURL = v
	}
	if v := getenv("TRESTLE_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := getenv("TRESTLE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("TRESTLE_LOG_CALLS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.LogCalls = b
		}
	}
	if v := getenv("TRESTLE_REQUEST_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.RequestTimeoutMs = n
		}
	}
	if v := getenv("TRESTLE_RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			c.RateLimit = f
		}
	}
	if v := getenv("TRESTLE_HYDRATE_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.HydrateConcurrency = n
		}
	}
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

// Remote reports whether commands should go to a server instead of the
// local database.
func (c Config) Remote() bool {
	return c.RemoteURL != ""
}

// ParseLevel maps a level name onto slog. Unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger writes text records at the configured level to w.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(c.LogLevel)}))
}
