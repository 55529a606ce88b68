package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hydrate/internal/cli"
	"github.com/theirongolddev/hydrate/internal/tracker"
)

var addCmd = &cobra.Command{
	Use:   "add <ml>",
	Short: "Log a drink",
	Long:  "Log a drink of the given size in milliliters. Amounts that are not positive whole numbers are ignored.",

	// Flags are parsed in runAdd so that "-5" arrives as an amount
	// instead of an unknown shorthand flag.
	DisableFlagParsing: true,
	RunE:               runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	input, help, err := parseAddArgs(cmd, args)
	if err != nil {
		return err
	}
	if help {
		return cmd.Help()
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	amount, ok := tracker.ParseCustomAmount(input)
	if !ok {
		sess.log.Info("ignoring invalid amount", "input", input)
		infof("  Ignored %q: enter a positive number of ml\n", input)
		return nil
	}

	ctx := cmd.Context()
	t := sess.newTracker(ctx, nil)
	defer t.Close()

	if err := t.AddIntake(ctx, amount); err != nil {
		return fmt.Errorf("adding intake: %w", err)
	}

	v := t.View()
	infof("  Added %s\n", cli.FormatML(amount))
	infof("  %s\n", cli.RenderGoalBar(v.Readout, v.Goal, 30))
	if v.Remaining == 0 {
		infof("  Goal reached!\n")
	} else {
		infof("  %s to go\n", cli.FormatML(v.Remaining))
	}
	return nil
}

// parseAddArgs splits negative numbers out as arguments, parses the rest
// against the command's own and inherited flags, and returns the single
// amount argument.
func parseAddArgs(cmd *cobra.Command, args []string) (input string, help bool, err error) {
	var flagArgs, positional []string
	for i, a := range args {
		if a == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if isNegativeNumber(a) {
			positional = append(positional, a)
			continue
		}
		flagArgs = append(flagArgs, a)
	}

	cmd.InitDefaultHelpFlag()
	fs := cmd.Flags()
	fs.AddFlagSet(cmd.InheritedFlags())
	if err := fs.Parse(flagArgs); err != nil {
		return "", false, err
	}
	if h, _ := fs.GetBool("help"); h {
		return "", true, nil
	}

	positional = append(positional, fs.Args()...)
	if len(positional) != 1 {
		return "", false, fmt.Errorf("accepts 1 arg(s), received %d", len(positional))
	}
	return positional[0], false, nil
}

func isNegativeNumber(s string) bool {
	rest, ok := strings.CutPrefix(s, "-")
	return ok && rest != "" && (rest[0] >= '0' && rest[0] <= '9' || rest[0] == '.')
}
