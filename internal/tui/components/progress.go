package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hydrate/internal/tui/theme"
)

// ColorForFraction returns the bar color for progress toward the goal:
// warning when far off, water while drinking, success once reached.
func ColorForFraction(f float64) lipgloss.Color {
	t := theme.Active
	switch {
	case f >= 1:
		return t.Success
	case f >= 0.25:
		return t.Water
	default:
		return t.Warning
	}
}

// NewGoalBar returns an animated progress bar sized to width.
func NewGoalBar(width int) progress.Model {
	bar := progress.New(
		progress.WithSolidFill(string(theme.Active.Water)),
		progress.WithWidth(max(width, 4)),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(theme.Active.TextDim)
	return bar
}

// GoalBarLine renders a bar view followed by the percentage label.
func GoalBarLine(bar string, f float64) string {
	t := theme.Active
	pctStyle := lipgloss.NewStyle().
		Foreground(ColorForFraction(f)).
		Background(t.Surface).
		Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return bar + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%3.0f%%", clamp01(f)*100))
}

// StaticGoalBar renders a non-animated bar at fraction f.
func StaticGoalBar(f float64, width int) string {
	bar := progress.New(
		progress.WithSolidFill(string(ColorForFraction(f))),
		progress.WithWidth(max(width, 4)),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(theme.Active.TextDim)
	return GoalBarLine(bar.ViewAs(clamp01(f)), f)
}

func clamp01(f float64) float64 {
	return min(max(f, 0), 1)
}
