package reminder

import (
	"strings"

	"github.com/cbroglie/mustache"
)

const (
	// Title is the heading of every reminder.
	Title = "Time to Hydrate!"
	// DefaultBody is used when no template is configured or it fails to render.
	DefaultBody = "Drink some water to stay healthy!"
	// Icon is attached to notifications for displays that support one.
	Icon = "https://cdn-icons-png.flaticon.com/512/824/824748.png"
)

// Notification is one reminder ready for display.
type Notification struct {
	Title string
	Body  string
	Icon  string
}

// Progress is the intake snapshot a reminder body can reference.
type Progress struct {
	Current int
	Goal    int
}

// Compose renders a reminder from a mustache body template. Available
// variables: current, goal, remaining, percent.
func Compose(tmpl string, p Progress) Notification {
	n := Notification{Title: Title, Body: DefaultBody, Icon: Icon}
	if strings.TrimSpace(tmpl) == "" {
		return n
	}

	remaining := p.Goal - p.Current
	if remaining < 0 {
		remaining = 0
	}
	percent := 0
	if p.Goal > 0 {
		percent = p.Current * 100 / p.Goal
	}

	body, err := mustache.Render(tmpl, map[string]any{
		"current":   p.Current,
		"goal":      p.Goal,
		"remaining": remaining,
		"percent":   percent,
	})
	if err != nil || strings.TrimSpace(body) == "" {
		return n
	}
	n.Body = body
	return n
}
