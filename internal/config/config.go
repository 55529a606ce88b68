// Package config loads and saves hydrate's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/hydrate/internal/model"
)

// Config holds all hydrate configuration.
type Config struct {
	General       GeneralConfig       `toml:"general"`
	Reminders     ReminderConfig      `toml:"reminders"`
	Notifications NotificationsConfig `toml:"notifications"`
	Appearance    AppearanceConfig    `toml:"appearance"`
	Logging       LoggingConfig       `toml:"logging"`
}

// GeneralConfig holds the goal and quick-add amounts.
type GeneralConfig struct {
	DailyGoalML int    `toml:"daily_goal_ml"`
	QuickAddML  []int  `toml:"quick_add_ml"`
	DataDir     string `toml:"data_dir,omitempty"`
}

// ReminderConfig holds reminder scheduling preferences.
type ReminderConfig struct {
	Enabled         bool   `toml:"enabled"`
	IntervalMinutes int    `toml:"interval_minutes"`
	BodyTemplate    string `toml:"body_template,omitempty"`
}

// NotificationsConfig records the user's notification permission.
type NotificationsConfig struct {
	Permission string `toml:"permission,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LoggingConfig holds log verbosity.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// DefaultQuickAdd are the fixed quick-add amounts in milliliters.
var DefaultQuickAdd = []int{100, 250, 500}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DailyGoalML: model.DefaultDailyGoal,
			QuickAddML:  append([]int(nil), DefaultQuickAdd...),
		},
		Reminders: ReminderConfig{
			IntervalMinutes: model.DefaultReminderInterval,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hydrate")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "hydrate")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DefaultDataDir returns where the database and log live.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "hydrate")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "hydrate")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path. Missing files yield defaults;
// out-of-range values are normalized.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config location
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}

	cfg.normalize()
	applyEnv(&cfg)
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to path, creating its directory.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // see LoadFrom
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// DataDir resolves the data directory: config override, then XDG default.
func (c Config) DataDir() string {
	if c.General.DataDir != "" {
		return c.General.DataDir
	}
	return DefaultDataDir()
}

// Permission returns the stored notification decision.
func (c Config) Permission() model.Permission {
	return model.ParsePermission(c.Notifications.Permission)
}

// SavePermission persists a notification decision without touching
// other settings on disk.
func SavePermission(p model.Permission) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	cfg.Notifications.Permission = string(p)
	return Save(cfg)
}

func (c *Config) normalize() {
	if c.General.DailyGoalML <= 0 {
		c.General.DailyGoalML = model.DefaultDailyGoal
	}

	amounts := c.General.QuickAddML[:0]
	for _, a := range c.General.QuickAddML {
		if a > 0 {
			amounts = append(amounts, a)
		}
	}
	if len(amounts) == 0 {
		amounts = append([]int(nil), DefaultQuickAdd...)
	}
	c.General.QuickAddML = amounts

	if !model.ValidInterval(c.Reminders.IntervalMinutes) {
		c.Reminders.IntervalMinutes = model.DefaultReminderInterval
	}
	c.Notifications.Permission = string(model.ParsePermission(c.Notifications.Permission))
}

// applyEnv lets HYDRATE_GOAL_ML override the configured goal.
func applyEnv(c *Config) {
	if v := os.Getenv("HYDRATE_GOAL_ML"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.General.DailyGoalML = n
		}
	}
}
