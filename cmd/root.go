// Package cmd implements the hydrate CLI commands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hydrate/internal/cli"
	"github.com/theirongolddev/hydrate/internal/config"
	"github.com/theirongolddev/hydrate/internal/logging"
	"github.com/theirongolddev/hydrate/internal/reminder"
	"github.com/theirongolddev/hydrate/internal/store"
	"github.com/theirongolddev/hydrate/internal/tracker"
)

// dbName is the SQLite file holding the day's record inside the data dir.
const dbName = "hydrate.db"

var (
	flagDataDir  string
	flagGoal     int
	flagQuiet    bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:          "hydrate",
	Short:        "Daily water intake tracker",
	Long:         "Log the water you drink, watch progress toward a daily goal, and get reminded to hydrate.",
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Data directory (default $XDG_DATA_HOME/hydrate)")
	rootCmd.PersistentFlags().IntVarP(&flagGoal, "goal", "g", 0, "Daily goal in ml for this run")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: DEBUG, INFO, WARN, ERROR")
}

// session bundles what every command needs: config, logger and store.
type session struct {
	cfg      config.Config
	dataDir  string
	log      *slog.Logger
	logClose io.Closer
	kv       *store.KV
}

// loadConfigOrDefault loads config, returning defaults on error.
// This ensures commands can always run even if config is corrupted.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  %s\n", cli.WarnStyle.Render("Config unreadable, using defaults: "+err.Error()))
	}
	return cfg
}

func openSession() (*session, error) {
	cfg := loadConfigOrDefault()

	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = cfg.DataDir()
	}
	level := cfg.Logging.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}

	log, logClose, err := logging.New(dataDir, level)
	if err != nil {
		return nil, err
	}

	kv, err := store.Open(filepath.Join(dataDir, dbName))
	if err != nil {
		_ = logClose.Close()
		return nil, fmt.Errorf("opening store: %w", err)
	}

	return &session{cfg: cfg, dataDir: dataDir, log: log, logClose: logClose, kv: kv}, nil
}

func (s *session) Close() {
	_ = s.kv.Close()
	_ = s.logClose.Close()
}

func (s *session) goal() int {
	if flagGoal > 0 {
		return flagGoal
	}
	return s.cfg.General.DailyGoalML
}

// newTracker builds a tracker over the store and restores today's record.
func (s *session) newTracker(ctx context.Context, n reminder.Notifier) *tracker.Tracker {
	t := tracker.New(s.kv, tracker.SystemClock{}, tracker.Options{
		Goal:             s.goal(),
		Notifier:         n,
		ReminderInterval: s.cfg.Reminders.IntervalMinutes,
		ReminderTemplate: s.cfg.Reminders.BodyTemplate,
		Logger:           s.log,
	})
	t.Restore(ctx)
	return t
}

// saveReminderPrefs stores the reminder switch and interval without
// touching other settings.
func saveReminderPrefs(enabled bool, interval int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.Reminders.Enabled = enabled
	cfg.Reminders.IntervalMinutes = interval
	return config.Save(cfg)
}

func infof(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Printf(format, args...)
}
