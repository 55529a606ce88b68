package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hydrate/internal/cli"
	"github.com/theirongolddev/hydrate/internal/config"
	"github.com/theirongolddev/hydrate/internal/logging"
	"github.com/theirongolddev/hydrate/internal/model"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	quick := make([]string, len(cfg.General.QuickAddML))
	for i, ml := range cfg.General.QuickAddML {
		quick[i] = cli.FormatML(ml)
	}

	fmt.Println("  [General]")
	fmt.Printf("    Daily goal:     %s\n", cli.FormatML(cfg.General.DailyGoalML))
	fmt.Printf("    Quick add:      %s\n", strings.Join(quick, ", "))
	fmt.Printf("    Data directory: %s\n", cfg.DataDir())
	fmt.Println()

	fmt.Println("  [Reminders]")
	fmt.Printf("    Enabled:  %v\n", cfg.Reminders.Enabled)
	fmt.Printf("    Interval: %s\n", model.IntervalLabel(cfg.Reminders.IntervalMinutes))
	if cfg.Reminders.BodyTemplate != "" {
		fmt.Printf("    Template: %s\n", cfg.Reminders.BodyTemplate)
	}
	fmt.Println()

	fmt.Println("  [Notifications]")
	fmt.Printf("    Permission: %s\n", cfg.Permission())
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level: %s\n", logging.ParseLevel(cfg.Logging.Level))
	fmt.Println()

	fmt.Println("  Run `hydrate setup` to reconfigure.")
	return nil
}
