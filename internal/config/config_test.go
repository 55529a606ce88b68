package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/hydrate/internal/model"
)

func TestLoadFromMissingReturnsDefaults(t *testing.T) {
	t.Setenv("HYDRATE_GOAL_ML", "")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.General.DailyGoalML != 2000 {
		t.Fatalf("DailyGoalML = %d, want 2000", cfg.General.DailyGoalML)
	}
	if len(cfg.General.QuickAddML) != 3 || cfg.General.QuickAddML[1] != 250 {
		t.Fatalf("QuickAddML = %v", cfg.General.QuickAddML)
	}
	if cfg.Reminders.IntervalMinutes != 60 {
		t.Fatalf("IntervalMinutes = %d, want 60", cfg.Reminders.IntervalMinutes)
	}
	if cfg.Permission() != model.PermissionUndetermined {
		t.Fatalf("Permission = %v, want undetermined", cfg.Permission())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HYDRATE_GOAL_ML", "")
	path := filepath.Join(t.TempDir(), "hydrate", "config.toml")

	cfg := DefaultConfig()
	cfg.General.DailyGoalML = 2500
	cfg.General.QuickAddML = []int{200, 330, 750}
	cfg.Reminders.Enabled = true
	cfg.Reminders.IntervalMinutes = 45
	cfg.Reminders.BodyTemplate = "{{remaining}} ml to go"
	cfg.Notifications.Permission = "granted"
	cfg.Appearance.Theme = "tokyo-night"

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("config mode = %v, want 0600", info.Mode().Perm())
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.General.DailyGoalML != 2500 || got.Reminders.IntervalMinutes != 45 || !got.Reminders.Enabled {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.General.QuickAddML[2] != 750 || got.Reminders.BodyTemplate != "{{remaining}} ml to go" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Permission() != model.PermissionGranted || got.Appearance.Theme != "tokyo-night" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestLoadFromNormalizes(t *testing.T) {
	t.Setenv("HYDRATE_GOAL_ML", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	raw := `
[general]
daily_goal_ml = -1
quick_add_ml = [0, -20]

[reminders]
interval_minutes = 7

[notifications]
permission = "sometimes"
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.General.DailyGoalML != 2000 {
		t.Errorf("DailyGoalML = %d, want default", cfg.General.DailyGoalML)
	}
	if len(cfg.General.QuickAddML) != 3 {
		t.Errorf("QuickAddML = %v, want defaults", cfg.General.QuickAddML)
	}
	if cfg.Reminders.IntervalMinutes != 60 {
		t.Errorf("IntervalMinutes = %d, want 60", cfg.Reminders.IntervalMinutes)
	}
	if cfg.Notifications.Permission != "" {
		t.Errorf("Permission = %q, want undetermined", cfg.Notifications.Permission)
	}
}

func TestLoadFromMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[general\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg.General.DailyGoalML != 2000 {
		t.Fatalf("malformed config should still hand back defaults, got %+v", cfg)
	}
}

func TestGoalEnvOverride(t *testing.T) {
	t.Setenv("HYDRATE_GOAL_ML", "3000")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.General.DailyGoalML != 3000 {
		t.Fatalf("DailyGoalML = %d, want 3000 from env", cfg.General.DailyGoalML)
	}
}

func TestDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	cfg := DefaultConfig()
	if got := cfg.DataDir(); got != filepath.Join("/tmp/xdg-data", "hydrate") {
		t.Fatalf("DataDir = %q", got)
	}
	cfg.General.DataDir = "/srv/water"
	if got := cfg.DataDir(); got != "/srv/water" {
		t.Fatalf("DataDir override = %q", got)
	}
}
