package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hydrate/internal/cli"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "List today's drinks, newest first",
	RunE:  runLog,
}

func init() {
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, _ []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx := cmd.Context()
	t := sess.newTracker(ctx, nil)
	defer t.Close()

	entries := t.Entries()
	if len(entries) == 0 {
		fmt.Println("  Nothing logged today")
		return nil
	}

	// Running totals are computed oldest-first, then shown newest-first.
	running := make([]int, len(entries))
	sum := 0
	for i := len(entries) - 1; i >= 0; i-- {
		sum += entries[i].Amount
		running[i] = sum
	}

	rows := make([][]string, 0, len(entries)+2)
	for i, e := range entries {
		rows = append(rows, []string{e.Time, cli.FormatML(e.Amount), cli.FormatML(running[i])})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"Total", cli.FormatML(t.Current()), cli.FormatPercent(t.View().Fraction)})

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Today",
		Headers: []string{"Time", "Amount", "Running"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}
