package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/hydrate/internal/reminder"
)

// ReminderMsg carries a fired reminder into the update loop.
type ReminderMsg struct {
	Notification reminder.Notification
}

// Sender is the part of *tea.Program a display needs.
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramDisplay delivers reminders to a running program as ReminderMsg,
// which the dashboard shows as a banner. The send runs on its own
// goroutine: the scheduler lock is held during delivery and the update
// loop may be waiting on it.
func ProgramDisplay(p Sender) reminder.Display {
	return func(n reminder.Notification) error {
		go p.Send(ReminderMsg{Notification: n})
		return nil
	}
}
