package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear today's total and log",
	RunE:  runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx := cmd.Context()
	t := sess.newTracker(ctx, nil)
	defer t.Close()

	if err := t.ResetDay(ctx); err != nil {
		return fmt.Errorf("resetting day: %w", err)
	}
	infof("  Today's intake cleared\n")
	return nil
}
