// Package config loads ndk settings from defaults, an ndk.yaml file,
// NDK_* environment variables, and command-line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/roach88/ndk/internal/scoped"
)

// Keys double as flag names so BindPFlags lines them up.
const (
	KeyDatabase    = "db"
	KeyFormat      = "format"
	KeyLogLevel    = "log-level"
	KeyLabels      = "labels"
	KeyConcurrency = "concurrency"
)

// Label generator names.
const (
	LabelsSequential = "sequential"
	LabelsUUID       = "uuid"
)

var (
	validFormats   = []string{"text", "json"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
	validLabels    = []string{LabelsSequential, LabelsUUID}
)

// Config is the effective configuration.
type Config struct {
	// Database is the theorem store path. Empty disables recording.
	Database string `mapstructure:"db" yaml:"db"`

	// Format is the CLI output format: text or json.
	Format string `mapstructure:"format" yaml:"format"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log-level" yaml:"log-level"`

	// Labels selects the generator for scoped hypotheses: sequential or uuid.
	Labels string `mapstructure:"labels" yaml:"labels"`

	// Concurrency bounds how many scripts are checked at once.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// Defaults returns the built-in defaults.
func Defaults() map[string]any {
	return map[string]any{
		KeyDatabase:    "",
		KeyFormat:      "text",
		KeyLogLevel:    "warn",
		KeyLabels:      LabelsSequential,
		KeyConcurrency: runtime.NumCPU(),
	}
}

// UserConfigPath returns $XDG_CONFIG_HOME/ndk/ndk.yaml (or the platform equivalent).
func UserConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(dir, "ndk", "ndk.yaml"), nil
}

// Load builds the effective Config for cmd. If path is non-empty that file
// must exist; otherwise ndk.yaml is searched in the user config directory
// and the working directory, and a missing file is fine.
func Load(cmd *cobra.Command, path string) (Config, error) {
	var c Config
	v := viper.New()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigName("ndk")
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	}
	if userPath, err := UserConfigPath(); err == nil {
		v.AddConfigPath(filepath.Dir(userPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return c, fmt.Errorf("read config: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("ndk")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, fmt.Errorf("bind flags: %w", err)
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	if !slices.Contains(validFormats, c.Format) {
		return fmt.Errorf("invalid format %q (must be one of: %s)", c.Format, strings.Join(validFormats, ", "))
	}
	if !slices.Contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log-level %q (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if !slices.Contains(validLabels, c.Labels) {
		return fmt.Errorf("invalid labels %q (must be one of: %s)", c.Labels, strings.Join(validLabels, ", "))
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("invalid concurrency %d (must be at least 1)", c.Concurrency)
	}
	return nil
}

// SlogLevel maps LogLevel onto slog.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// NewLabels returns a fresh generator of the configured kind.
func (c Config) NewLabels() scoped.LabelGenerator {
	if c.Labels == LabelsUUID {
		return scoped.UUIDLabels{}
	}
	return scoped.NewSequentialLabels("h")
}

// Write stores c as YAML at path, creating parent directories.
func Write(path string, c Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
