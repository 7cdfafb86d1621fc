package config

import (
	"github.com/spf13/pflag"
)

// Flag names shared by every command.
const (
	FlagConfig             = "config"
	FlagDB                 = "db"
	FlagRemote             = "remote"
	FlagLogLevel           = "log-level"
	FlagRequestTimeoutMs   = "request-timeout-ms"
	FlagHydrateConcurrency = "hydrate-concurrency"
)

// RegisterFlags declares the persistent flags that can override a loaded
// Config. Defaults shown in help are the built-in ones.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String(FlagConfig, "", "config file (default "+DefaultPath()+")")
	fs.String(FlagDB, d.DBPath, "SQLite database path for local mode")
	fs.String(FlagRemote, "", "base URL of a trestle server; empty uses the local database")
	fs.String(FlagLogLevel, d.LogLevel, "log level: debug, info, warn, error")
	fs.Int(FlagRequestTimeoutMs, d.RequestTimeoutMs, "per-request timeout against a server")
	fs.Int(FlagHydrateConcurrency, d.HydrateConcurrency, "parallel task fetches while loading a project")
}

// ApplyFlags overrides c with every flag the user set explicitly.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	if fs.Changed(FlagDB) {
		v, err := fs.GetString(FlagDB)
		if err != nil {
			return err
		}
		c.DBPath = v
	}
	if fs.Changed(FlagRemote) {
		v, err := fs.GetString(FlagRemote)
		if err != nil {
			return err
		}
		c.RemoteURL = v
	}
	if fs.Changed(FlagLogLevel) {
		v, err := fs.GetString(FlagLogLevel)
		if err != nil {
			return err
		}
		c.LogLevel = v
	}
	if fs.Changed(FlagRequestTimeoutMs) {
		v, err := fs.GetInt(FlagRequestTimeoutMs)
		if err != nil {
			return err
		}
		if v > 0 {
			c.RequestTimeoutMs = v
		}
	}
	if fs.Changed(FlagHydrateConcurrency) {
		v, err := fs.GetInt(FlagHydrateConcurrency)
		if err != nil {
			return err
		}
		if v > 0 {
			c.HydrateConcurrency = v
		}
	}
	return nil
}

// FromFlags loads the file named by --config (or the default file), then
// the environment, then explicit flags.
func FromFlags(fs *pflag.FlagSet) (Config, error) {
	path, err := fs.GetString(FlagConfig)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyFlags(fs); err != nil {
		return cfg, err
	}
	return cfg, nil
}
