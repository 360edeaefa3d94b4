// Package config loads server configuration from an optional YAML file
// with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Environment variables recognized by Load. Env values override the
// config file, which overrides defaults.
const (
	EnvHome        = "CRYSTAL_HOME"
	EnvConfig      = "CRYSTAL_CONFIG"
	EnvProtocolDir = "CRYSTAL_PROTOCOL_DIR"
	EnvCodexDir    = "CRYSTAL_CODEX_DIR"
	EnvStoreDir    = "CRYSTAL_STORE_DIR"
	EnvLogLevel    = "CRYSTAL_LOG_LEVEL"
)

// Config holds the server's directory layout and logging level. The
// three content directories are resolved relative to Home unless given
// as absolute paths, and must stay inside it either way.
type Config struct {
	// Home is the server root; the sole trust boundary for all path
	// resolution.
	Home string `yaml:"home"`

	// ProtocolDir holds protocol specification documents (.txt).
	ProtocolDir string `yaml:"protocol_dir"`

	// CodexDir holds codex documents (.cp).
	CodexDir string `yaml:"codex_dir"`

	// StoreDir holds persisted crystal records.
	StoreDir string `yaml:"store_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration: everything under
// ~/.crystal-mcp
func Default() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}

	return &Config{
		Home:        filepath.Join(home, ".crystal-mcp"),
		ProtocolDir: "protocols",
		CodexDir:    "codex",
		StoreDir:    "crystals",
		LogLevel:    "info",
	}, nil
}

// Load builds the effective configuration: defaults, then the YAML
// config file if one exists, then environment overrides.
func Load() (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	// CRYSTAL_HOME has to apply before the config file lookup so the
	// default config path follows the overridden home.
	if home := os.Getenv(EnvHome); home != "" {
		cfg.Home = home
	}

	path := os.Getenv(EnvConfig)
	explicit := path != ""
	if !explicit {
		path = filepath.Join(cfg.Home, "config.yaml")
	}

	if err := cfg.loadFile(path, explicit); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

// loadFile merges a YAML config file into cfg. A missing file is only
// an error when the path was explicitly requested.
func (c *Config) loadFile(path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	return nil
}

// applyEnv applies environment overrides on top of file values
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvHome); v != "" {
		c.Home = v
	}
	if v := os.Getenv(EnvProtocolDir); v != "" {
		c.ProtocolDir = v
	}
	if v := os.Getenv(EnvCodexDir); v != "" {
		c.CodexDir = v
	}
	if v := os.Getenv(EnvStoreDir); v != "" {
		c.StoreDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// ZapLevel parses LogLevel, defaulting to info on anything unknown
func (c *Config) ZapLevel() zapcore.Level {
	switch c.LogLevel {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
