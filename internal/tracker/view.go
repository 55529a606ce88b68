package tracker

import (
	"math"

	"github.com/theirongolddev/hydrate/internal/model"
)

const (
	// RingRadius is the radius of the circular progress indicator.
	RingRadius = 90
	// GlassHeight is the height of the fill-level indicator at 100%.
	GlassHeight = 250
)

// View is the presentation derived from tracker state. Render adapters
// draw from a View and never reach into the tracker.
type View struct {
	Readout   int
	Goal      int
	Remaining int
	Fraction  float64

	RingDashArray  float64
	RingDashOffset float64

	FillHeight float64
	FillStart  float64
	FillFinal  float64
	// Filling marks a render caused by an add; adapters animate
	// FillStart -> FillFinal.
	Filling bool

	Lines []string
}

// Fraction returns min(amount/goal, 1). A non-positive goal yields 0.
func Fraction(amount, goal int) float64 {
	if goal <= 0 || amount <= 0 {
		return 0
	}
	return math.Min(float64(amount)/float64(goal), 1)
}

// Render is the pure state -> presentation mapping.
func Render(amount, goal, previous int, log []model.Entry, filling bool) View {
	frac := Fraction(amount, goal)
	circumference := 2 * math.Pi * RingRadius

	remaining := goal - amount
	if remaining < 0 {
		remaining = 0
	}

	lines := make([]string, 0, len(log))
	for _, e := range log {
		lines = append(lines, e.Line())
	}

	height := frac * GlassHeight
	return View{
		Readout:        amount,
		Goal:           goal,
		Remaining:      remaining,
		Fraction:       frac,
		RingDashArray:  circumference,
		RingDashOffset: circumference * (1 - frac),
		FillHeight:     height,
		FillStart:      Fraction(previous, goal) * GlassHeight,
		FillFinal:      height,
		Filling:        filling,
		Lines:          lines,
	}
}
