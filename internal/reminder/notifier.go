package reminder

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/theirongolddev/hydrate/internal/model"
)

// Notifier is the notification service reminders are delivered through.
type Notifier interface {
	// Permission returns the current decision without prompting.
	Permission() model.Permission
	// Show displays n. Delivery is fire-and-forget.
	Show(n Notification) error
}

// Display puts a notification in front of the user.
type Display func(n Notification) error

// Permissions holds the notification decision and knows how to ask for
// and persist it.
type Permissions struct {
	mu      sync.Mutex
	state   model.Permission
	prompt  func() (bool, error)
	persist func(model.Permission) error
}

// NewPermissions starts from state. prompt asks the user; persist records
// the answer. Either may be nil: without a prompt the state never leaves
// undetermined.
func NewPermissions(state model.Permission, prompt func() (bool, error), persist func(model.Permission) error) *Permissions {
	return &Permissions{state: state, prompt: prompt, persist: persist}
}

// State returns the current decision.
func (p *Permissions) State() model.Permission {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Request prompts only when the decision is undetermined.
func (p *Permissions) Request() (model.Permission, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != model.PermissionUndetermined || p.prompt == nil {
		return p.state, nil
	}

	ok, err := p.prompt()
	if err != nil {
		return p.state, fmt.Errorf("requesting notification permission: %w", err)
	}
	p.state = model.PermissionDenied
	if ok {
		p.state = model.PermissionGranted
	}
	if p.persist != nil {
		if err := p.persist(p.state); err != nil {
			return p.state, fmt.Errorf("saving notification permission: %w", err)
		}
	}
	return p.state, nil
}

// Gated is a Notifier that shows through a Display and defers permission
// handling to Permissions.
type Gated struct {
	Perms   *Permissions
	Display Display
}

// Permission implements Notifier.
func (g *Gated) Permission() model.Permission {
	return g.Perms.State()
}

// Show implements Notifier.
func (g *Gated) Show(n Notification) error {
	if g.Display == nil {
		return nil
	}
	return g.Display(n)
}

// TerminalDisplay writes a timestamped reminder line and rings the bell.
func TerminalDisplay(w io.Writer, now func() time.Time) Display {
	if now == nil {
		now = time.Now
	}
	return func(n Notification) error {
		_, err := fmt.Fprintf(w, "\a  [%s] %s %s\n", now().Format("15:04"), n.Title, n.Body)
		return err
	}
}
