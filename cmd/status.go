package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hydrate/internal/cli"
	"github.com/theirongolddev/hydrate/internal/model"
	"github.com/theirongolddev/hydrate/internal/tracker"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's progress toward the goal",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx := cmd.Context()
	t := sess.newTracker(ctx, nil)
	defer t.Close()

	v := t.View()
	now := time.Now()
	entries := t.Entries()

	fmt.Println()
	fmt.Println(cli.RenderTitle("HYDRATE  " + now.Format("Mon Jan 2")))
	fmt.Println()
	fmt.Printf("  %s\n", cli.RenderGoalBar(v.Readout, v.Goal, 30))
	fmt.Printf("  Progress:   %s (%s)\n", cli.FormatPercent(v.Fraction), cli.FormatLiters(v.Readout))
	if v.Remaining == 0 {
		fmt.Printf("  Remaining:  goal reached\n")
	} else {
		fmt.Printf("  Remaining:  %s\n", cli.FormatML(v.Remaining))
	}
	fmt.Printf("  Drinks:     %d\n", len(entries))

	var last time.Time
	if len(entries) > 0 {
		last = entries[0].At
	}
	fmt.Printf("  Last drink: %s\n", cli.FormatAgo(last, now))
	if saved, ok, err := sess.kv.UpdatedAt(ctx, tracker.StorageKey); err != nil {
		sess.log.Warn("reading save time failed", "error", err)
	} else if ok {
		fmt.Printf("  Last saved: %s\n", cli.FormatAgo(saved, now))
	}

	if len(entries) > 0 {
		at := make([]time.Time, len(entries))
		amounts := make([]int, len(entries))
		for i, e := range entries {
			at[i], amounts[i] = e.At, e.Amount
		}
		fmt.Printf("  By hour:    %s\n", cli.RenderSparkline(cli.HourlyTotals(at, amounts)))
		fmt.Printf("              %s\n", cli.Muted("0h          12h        23h"))
	}

	rem := "off"
	if sess.cfg.Reminders.Enabled {
		rem = "every " + model.IntervalLabel(sess.cfg.Reminders.IntervalMinutes)
	}
	fmt.Printf("  Reminders:  %s (notifications %s)\n", rem, sess.cfg.Permission())
	fmt.Println()
	return nil
}
