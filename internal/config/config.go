package config

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ooti/prompt-lab/internal/errors"
	"github.com/ooti/prompt-lab/internal/frameworks"
	"github.com/ooti/prompt-lab/internal/models"
	"github.com/ooti/prompt-lab/internal/vibe"
)

// Version is set at build time with -ldflags "-X .../internal/config.Version=..."
var Version = "dev"

// Environment variables read by Load
const (
	EnvDir              = "PROMPT_LAB_DIR"
	EnvPort             = "PROMPT_LAB_PORT"
	EnvExportDir        = "PROMPT_LAB_EXPORT_DIR"
	EnvLogLevel         = "PROMPT_LAB_LOG_LEVEL"
	EnvDefaultFramework = "PROMPT_LAB_DEFAULT_FRAMEWORK"
)

// Config holds user preferences for every surface
type Config struct {
	DefaultFramework models.FrameworkID `yaml:"default_framework"`
	DefaultModel     models.ModelKey    `yaml:"default_model"`
	DefaultVibe      models.VibeKey     `yaml:"default_vibe"`
	ExportDir        string             `yaml:"export_dir"`
	FrontMatter      bool               `yaml:"front_matter"`
	Port             int                `yaml:"port"`
	LogLevel         string             `yaml:"log_level"`
	CacheSize        int                `yaml:"cache_size"`

	path string
}

// DefaultConfig returns the built-in settings
func DefaultConfig() *Config {
	return &Config{
		DefaultFramework: frameworks.RTF,
		DefaultModel:     vibe.DefaultModel,
		DefaultVibe:      vibe.DefaultVibe,
		ExportDir:        ".",
		Port:             8080,
		LogLevel:         "info",
		CacheSize:        256,
	}
}

// Dir returns the prompt-lab data directory: $PROMPT_LAB_DIR or ~/.prompt-lab
func Dir() (string, error) {
	if dir := os.Getenv(EnvDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".prompt-lab"), nil
}

// DefaultPath returns the default config file location
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LogDir returns the directory used for the TUI error log
func LogDir() string {
	dir, err := Dir()
	if err != nil {
		return filepath.Join(os.TempDir(), "prompt-lab", "logs")
	}
	return filepath.Join(dir, "logs")
}

// Load reads the config at path (or the default path when empty), then applies
// .env and environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, os.ErrNotExist) {
		slog.Debug("could not load .env", "error", err)
	}

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "could not resolve config path")
		}
	}

	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse config").
				WithContext("path", path)
		}
	case stderrors.Is(err, os.ErrNotExist):
		slog.Debug("no config file, using defaults", "path", path)
	default:
		return nil, errors.StorageError("read config", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigInvalid, fmt.Sprintf("%s must be a number", EnvPort))
		}
		c.Port = port
	}
	if v := os.Getenv(EnvExportDir); v != "" {
		c.ExportDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvDefaultFramework); v != "" {
		c.DefaultFramework = models.FrameworkID(strings.ToLower(v))
	}
	return nil
}

// Validate rejects settings that name things outside the catalog
func (c *Config) Validate() error {
	if !frameworks.Exists(c.DefaultFramework) {
		return errors.NewAppError(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("default_framework %q is not a known framework", c.DefaultFramework))
	}
	if _, ok := vibe.LookupModel(c.DefaultModel); !ok {
		return errors.NewAppError(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("default_model %q is not a known model", c.DefaultModel))
	}
	if _, ok := vibe.LookupVibe(c.DefaultVibe); !ok {
		return errors.NewAppError(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("default_vibe %q is not a known vibe", c.DefaultVibe))
	}
	if c.Port < 1 || c.Port > 65535 {
		return errors.NewAppError(errors.ErrCodeConfigInvalid, fmt.Sprintf("port %d out of range", c.Port))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.CacheSize < 1 {
		return errors.NewAppError(errors.ErrCodeConfigInvalid, "cache_size must be positive")
	}
	return nil
}

// Path returns the file the config was loaded from
func (c *Config) Path() string {
	return c.path
}

// Save writes the config back to its path
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return errors.StorageError("resolve config path", err)
		}
		c.path = path
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.StorageError("create config directory", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.StorageError("write config", err)
	}
	return nil
}

// ParseLogLevel maps debug, info, warn and error to slog levels
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.NewAppError(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("unknown log level %q (use debug, info, warn or error)", s))
	}
}
