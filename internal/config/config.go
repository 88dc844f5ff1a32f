// Package config resolves vpgsync settings.
//
// Precedence, lowest first: built-in defaults, the TOML config file,
// VPGSYNC_* environment variables, then command-line flags (applied by the
// binaries).
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultHistorySize  = 250
	DefaultLogLevel     = "info"
)

// Config holds resolved settings
type Config struct {
	DBPath       string
	PollInterval time.Duration
	HistorySize  int
	LogLevel     string
	WatchDisk    bool   // reload buffers when tracked files change on disk
	Editor       string // overrides $EDITOR for the edit command
}

// fileConfig mirrors the TOML file; every field is optional
type fileConfig struct {
	DB           *string `toml:"db"`
	PollInterval *string `toml:"poll_interval"`
	HistorySize  *int    `toml:"history_size"`
	LogLevel     *string `toml:"log_level"`
	WatchDisk    *bool   `toml:"watch_disk"`
	Editor       *string `toml:"editor"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		DBPath:       DefaultDBPath(),
		PollInterval: DefaultPollInterval,
		HistorySize:  DefaultHistorySize,
		LogLevel:     DefaultLogLevel,
		WatchDisk:    true,
	}
}

// DefaultDBPath returns the database path under the XDG data directory
func DefaultDBPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "vpgsync", "scene.db")
}

// FilePath returns the config file path from VPGSYNC_CONFIG env var,
// falling back to config.toml under the XDG config directory.
func FilePath() string {
	if env := os.Getenv("VPGSYNC_CONFIG"); env != "" {
		return env
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "vpgsync", "config.toml")
}

// Load resolves settings from defaults, the config file at path (FilePath
// when empty; a missing file is not an error) and the environment
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = FilePath()
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := cfg.applyFile(path, data); err != nil {
			return cfg, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyFile(path string, data []byte) error {
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if fc.DB != nil {
		c.DBPath = *fc.DB
	}
	if fc.PollInterval != nil {
		d, err := time.ParseDuration(*fc.PollInterval)
		if err != nil {
			return fmt.Errorf("config file %s: poll_interval: %w", path, err)
		}
		c.PollInterval = d
	}
	if fc.HistorySize != nil {
		c.HistorySize = *fc.HistorySize
	}
	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
	}
	if fc.WatchDisk != nil {
		c.WatchDisk = *fc.WatchDisk
	}
	if fc.Editor != nil {
		c.Editor = *fc.Editor
	}
	return nil
}

func (c *Config) applyEnv() error {
	if env := os.Getenv("VPGSYNC_DB"); env != "" {
		c.DBPath = env
	}
	if env := os.Getenv("VPGSYNC_POLL_INTERVAL"); env != "" {
		d, err := time.ParseDuration(env)
		if err != nil {
			return fmt.Errorf("VPGSYNC_POLL_INTERVAL: %w", err)
		}
		c.PollInterval = d
	}
	if env := os.Getenv("VPGSYNC_HISTORY_SIZE"); env != "" {
		n, err := strconv.Atoi(env)
		if err != nil {
			return fmt.Errorf("VPGSYNC_HISTORY_SIZE: %w", err)
		}
		c.HistorySize = n
	}
	if env := os.Getenv("VPGSYNC_LOG_LEVEL"); env != "" {
		c.LogLevel = env
	}
	if env := os.Getenv("VPGSYNC_WATCH_DISK"); env != "" {
		b, err := strconv.ParseBool(env)
		if err != nil {
			return fmt.Errorf("VPGSYNC_WATCH_DISK: %w", err)
		}
		c.WatchDisk = b
	}
	return nil
}

// Validate checks resolved settings
func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("db path is required")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if c.HistorySize <= 0 {
		return fmt.Errorf("history size must be positive, got %d", c.HistorySize)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name to a slog level
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// NewLogger builds the text logger every binary uses
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl, _ := ParseLevel(level)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
