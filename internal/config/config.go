// Package config provides configuration management for todo.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/xvierd/todo-cli/internal/domain"
)

// EnvPrefix is the prefix for environment overrides, e.g. TODO_LOG_LEVEL.
const EnvPrefix = "TODO"

// Config holds all configuration for the todo application.
type Config struct {
	Tasks TasksConfig `mapstructure:"tasks"`
	Log   LogConfig   `mapstructure:"log"`
	Theme ThemeConfig `mapstructure:"theme"`
}

// TasksConfig holds task list settings.
type TasksConfig struct {
	IDStrategy string `mapstructure:"id_strategy"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// ThemeConfig holds theme customization settings (colors and icons).
type ThemeConfig struct {
	ColorPrimary string `mapstructure:"color_primary"`
	ColorDanger  string `mapstructure:"color_danger"`
	ColorSuccess string `mapstructure:"color_success"`
	ColorBorder  string `mapstructure:"color_border"`
	ColorText    string `mapstructure:"color_text"`
	ColorMuted   string `mapstructure:"color_muted"`
	IconAdd      string `mapstructure:"icon_add"`
	IconEdit     string `mapstructure:"icon_edit"`
	IconDelete   string `mapstructure:"icon_delete"`
	IconSave     string `mapstructure:"icon_save"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorPrimary: "#007BFF",
		ColorDanger:  "#ff5c5c",
		ColorSuccess: "#28a745",
		ColorBorder:  "#cccccc",
		ColorText:    "#f5f5f5",
		ColorMuted:   "#95A5A6",
		IconAdd:      "+",
		IconEdit:     "✏️",
		IconDelete:   "🗑️",
		IconSave:     "✔️",
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Tasks: TasksConfig{
			IDStrategy: string(domain.IDStrategyCounter),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Theme: DefaultThemeConfig(),
	}
}

// IDStrategy returns the validated ID strategy.
func (c *Config) IDStrategy() (domain.IDStrategy, error) {
	return domain.ValidateIDStrategy(c.Tasks.IDStrategy)
}

// Load reads the configuration at path, or at the default path when path is
// empty. A missing file is not an error: defaults and environment apply.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	v := newViper(path)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if _, err := cfg.IDStrategy(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to path, or to the default path when path
// is empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")

	v.Set("tasks.id_strategy", cfg.Tasks.IDStrategy)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("log.file", cfg.Log.File)
	v.Set("theme.color_primary", cfg.Theme.ColorPrimary)
	v.Set("theme.color_danger", cfg.Theme.ColorDanger)
	v.Set("theme.color_success", cfg.Theme.ColorSuccess)
	v.Set("theme.color_border", cfg.Theme.ColorBorder)
	v.Set("theme.color_text", cfg.Theme.ColorText)
	v.Set("theme.color_muted", cfg.Theme.ColorMuted)
	v.Set("theme.icon_add", cfg.Theme.IconAdd)
	v.Set("theme.icon_edit", cfg.Theme.IconEdit)
	v.Set("theme.icon_delete", cfg.Theme.IconDelete)
	v.Set("theme.icon_save", cfg.Theme.IconSave)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".todo", "config.toml"), nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults sets default values for viper. Every key needs a default so
// AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("tasks.id_strategy", defaults.Tasks.IDStrategy)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("log.file", defaults.Log.File)

	// Theme defaults
	theme := defaults.Theme
	v.SetDefault("theme.color_primary", theme.ColorPrimary)
	v.SetDefault("theme.color_danger", theme.ColorDanger)
	v.SetDefault("theme.color_success", theme.ColorSuccess)
	v.SetDefault("theme.color_border", theme.ColorBorder)
	v.SetDefault("theme.color_text", theme.ColorText)
	v.SetDefault("theme.color_muted", theme.ColorMuted)
	v.SetDefault("theme.icon_add", theme.IconAdd)
	v.SetDefault("theme.icon_edit", theme.IconEdit)
	v.SetDefault("theme.icon_delete", theme.IconDelete)
	v.SetDefault("theme.icon_save", theme.IconSave)
}
