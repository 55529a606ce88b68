package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hydrate/internal/tui/theme"
)

const (
	// RingRows and RingCols size the character grid; columns are doubled
	// to offset the roughly 2:1 cell aspect ratio.
	RingRows = 9
	RingCols = 19

	ringSamples = 360
)

// RingFill converts a stroke dash array and offset into the drawn
// fraction of the ring, clamped to [0, 1].
func RingFill(dashArray, dashOffset float64) float64 {
	if dashArray <= 0 {
		return 0
	}
	return clamp01((dashArray - dashOffset) / dashArray)
}

// Ring renders a progress ring that starts at twelve o'clock and fills
// clockwise. label is centered inside it.
func Ring(dashArray, dashOffset float64, label string) string {
	t := theme.Active
	fill := RingFill(dashArray, dashOffset)

	// 0 = blank, 1 = track, 2 = filled
	var grid [RingRows][RingCols]int
	cx, cy := float64(RingCols-1)/2, float64(RingRows-1)/2
	rx, ry := cx-1, cy

	for i := range ringSamples {
		p := (float64(i) + 0.5) / ringSamples
		theta := 2 * math.Pi * p
		col := int(math.Round(cx + rx*math.Sin(theta)))
		row := int(math.Round(cy - ry*math.Cos(theta)))

		cell := 1
		if p < fill {
			cell = 2
		}
		grid[row][col] = max(grid[row][col], cell)
	}

	base := lipgloss.NewStyle().Background(t.Surface)
	filled := base.Foreground(t.Water)
	track := base.Foreground(t.TextDim)
	labelStyle := base.Foreground(t.TextPrimary).Bold(true)

	labelRunes := []rune(label)
	labelRow := RingRows / 2
	labelStart := (RingCols - len(labelRunes)) / 2

	lines := make([]string, RingRows)
	for r := range RingRows {
		var b strings.Builder
		for c := range RingCols {
			if r == labelRow && c >= labelStart && c < labelStart+len(labelRunes) {
				b.WriteString(labelStyle.Render(string(labelRunes[c-labelStart])))
				continue
			}
			switch grid[r][c] {
			case 2:
				b.WriteString(filled.Render("●"))
			case 1:
				b.WriteString(track.Render("·"))
			default:
				b.WriteString(base.Render(" "))
			}
		}
		lines[r] = b.String()
	}
	return strings.Join(lines, "\n")
}
