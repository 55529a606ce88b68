package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hydrate/internal/tui/theme"
)

// GlassRows scales a fill height (out of maxHeight) to a whole number of
// rows, clamped to [0, rows].
func GlassRows(fillHeight, maxHeight float64, rows int) int {
	if maxHeight <= 0 || rows <= 0 {
		return 0
	}
	n := int(math.Round(fillHeight / maxHeight * float64(rows)))
	return min(max(n, 0), rows)
}

// Glass renders a glass of the given interior size filled to fillHeight
// out of maxHeight. The top row of water is drawn as a rippled surface.
func Glass(fillHeight, maxHeight float64, rows, width int) string {
	t := theme.Active
	n := GlassRows(fillHeight, maxHeight, rows)

	base := lipgloss.NewStyle().Background(t.Surface)
	wall := base.Foreground(t.Glass)
	water := base.Foreground(t.Water)
	surface := base.Foreground(t.WaterBright)

	lines := make([]string, 0, rows+1)
	for r := range rows {
		var inner string
		switch {
		case r < rows-n:
			inner = base.Render(strings.Repeat(" ", width))
		case r == rows-n:
			inner = surface.Render(strings.Repeat("≈", width))
		default:
			inner = water.Render(strings.Repeat("█", width))
		}
		lines = append(lines, wall.Render("│")+inner+wall.Render("│"))
	}
	lines = append(lines, wall.Render("╰"+strings.Repeat("─", width)+"╯"))
	return strings.Join(lines, "\n")
}
