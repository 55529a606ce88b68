package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hydrate/internal/config"
	"github.com/theirongolddev/hydrate/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runSetupForm()
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// runSetupForm walks through the wizard and saves the answers.
func runSetupForm() error {
	cfg := loadConfigOrDefault()

	vals := tui.SetupValuesFrom(cfg)
	if err := tui.NewSetupForm(&vals).Run(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	vals.Apply(&cfg)

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `hydrate setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
