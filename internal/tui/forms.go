package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/hydrate/internal/config"
	"github.com/theirongolddev/hydrate/internal/model"
	"github.com/theirongolddev/hydrate/internal/tui/theme"
)

// PromptPermission asks whether hydrate may show reminders.
func PromptPermission() (bool, error) {
	allow := true
	err := huh.NewConfirm().
		Title("Allow hydration reminders?").
		Description("hydrate can nudge you to drink water while it runs.").
		Affirmative("Allow").
		Negative("Don't allow").
		Value(&allow).
		Run()
	if err != nil {
		return false, fmt.Errorf("permission prompt: %w", err)
	}
	return allow, nil
}

// SetupValues holds the answers of the setup form as strings and flags
// so huh fields can bind to them directly.
type SetupValues struct {
	Goal       string
	QuickAdd   string
	Reminders  bool
	Interval   int
	Theme      string
	Permission bool
}

// SetupValuesFrom seeds the form from an existing config.
func SetupValuesFrom(cfg config.Config) SetupValues {
	parts := make([]string, len(cfg.General.QuickAddML))
	for i, ml := range cfg.General.QuickAddML {
		parts[i] = strconv.Itoa(ml)
	}
	return SetupValues{
		Goal:       strconv.Itoa(cfg.General.DailyGoalML),
		QuickAdd:   strings.Join(parts, ", "),
		Reminders:  cfg.Reminders.Enabled,
		Interval:   cfg.Reminders.IntervalMinutes,
		Theme:      cfg.Appearance.Theme,
		Permission: cfg.Permission() != model.PermissionDenied,
	}
}

// Apply writes the answers into cfg. Values that fail validation are
// left untouched.
func (v SetupValues) Apply(cfg *config.Config) {
	if goal, err := parseGoal(v.Goal); err == nil {
		cfg.General.DailyGoalML = goal
	}
	if amounts, err := parseQuickAdd(v.QuickAdd); err == nil {
		cfg.General.QuickAddML = amounts
	}
	cfg.Reminders.Enabled = v.Reminders
	if model.ValidInterval(v.Interval) {
		cfg.Reminders.IntervalMinutes = v.Interval
	}
	cfg.Appearance.Theme = theme.ByName(v.Theme).Name

	cfg.Notifications.Permission = string(model.PermissionDenied)
	if v.Permission {
		cfg.Notifications.Permission = string(model.PermissionGranted)
	}
}

// NewSetupForm builds the setup wizard bound to v.
func NewSetupForm(v *SetupValues) *huh.Form {
	intervals := make([]huh.Option[int], 0, len(model.ReminderIntervals))
	for _, m := range model.ReminderIntervals {
		intervals = append(intervals, huh.NewOption(model.IntervalLabel(m), m))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to hydrate").
				Description("A few questions to set up your daily water goal."),
			huh.NewInput().
				Title("Daily goal (ml)").
				Placeholder("2000").
				Value(&v.Goal).
				Validate(func(s string) error {
					_, err := parseGoal(s)
					return err
				}),
			huh.NewInput().
				Title("Quick-add amounts (ml)").
				Description("Comma-separated, bound to keys 1, 2, 3...").
				Placeholder("100, 250, 500").
				Value(&v.QuickAdd).
				Validate(func(s string) error {
					_, err := parseQuickAdd(s)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable reminders?").
				Value(&v.Reminders),
			huh.NewSelect[int]().
				Title("Remind me every").
				Options(intervals...).
				Value(&v.Interval),
			huh.NewConfirm().
				Title("Allow reminder notifications?").
				Affirmative("Allow").
				Negative("Don't allow").
				Value(&v.Permission),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&v.Theme),
		),
	)
}

func parseGoal(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, errors.New("enter a positive number of milliliters")
	}
	return n, nil
}

func parseQuickAdd(s string) ([]int, error) {
	var out []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%q is not a positive amount", f)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, errors.New("enter at least one amount")
	}
	if len(out) > 9 {
		return nil, errors.New("at most nine amounts fit on the number keys")
	}
	return out, nil
}
