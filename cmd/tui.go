package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/hydrate/internal/config"
	"github.com/theirongolddev/hydrate/internal/reminder"
	"github.com/theirongolddev/hydrate/internal/tui"
	"github.com/theirongolddev/hydrate/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if !config.Exists() && !flagQuiet {
		if err := runSetupForm(); err != nil {
			return err
		}
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	theme.SetActive(sess.cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	perms := reminder.NewPermissions(sess.cfg.Permission(), tui.PromptPermission, config.SavePermission)
	if _, err := perms.Request(); err != nil {
		sess.log.Warn("notification permission not recorded", "error", err)
	}

	// The program does not exist until the tracker and app are built, so
	// the display resolves it at fire time.
	var p *tea.Program
	notifier := &reminder.Gated{
		Perms: perms,
		Display: func(n reminder.Notification) error {
			if p == nil {
				return nil
			}
			return tui.ProgramDisplay(p)(n)
		},
	}

	ctx := cmd.Context()
	t := sess.newTracker(ctx, notifier)
	defer t.Close()

	app := tui.NewApp(ctx, t, tui.Options{
		QuickAdd:          sess.cfg.General.QuickAddML,
		SaveReminderPrefs: saveReminderPrefs,
		Logger:            sess.log,
	})
	p = tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	t.SetRemindersEnabled(sess.cfg.Reminders.Enabled)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
