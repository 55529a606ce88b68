// Package tracker holds hydrate's intake state: the running total, the
// newest-first log, the day-partitioned persistence and the reminder
// scheduler it owns.
package tracker

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/theirongolddev/hydrate/internal/logging"
	"github.com/theirongolddev/hydrate/internal/model"
	"github.com/theirongolddev/hydrate/internal/reminder"
)

// ErrInvalidAmount is returned for non-positive intake amounts.
var ErrInvalidAmount = errors.New("intake amount must be a positive number of milliliters")

// Store is the persistent key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Options configures a Tracker. Zero values fall back to defaults.
type Options struct {
	Goal int

	Notifier         reminder.Notifier
	NewTimer         reminder.TimerFunc
	ReminderInterval int
	ReminderTemplate string

	Logger *slog.Logger
}

// Tracker is the intake state machine. It is not safe for concurrent
// mutation; drive it from one goroutine (the UI loop or a CLI command).
// Reminder ticks only read the published snapshot.
type Tracker struct {
	store Store
	clock Clock
	log   *slog.Logger
	goal  int

	current  int
	entries  []model.Entry
	previous int
	filling  bool

	snapshot  atomic.Pointer[model.Record]
	reminders *reminder.Scheduler
}

// New builds a tracker at its initial state (0 ml, empty log). Call
// Restore to load today's persisted record.
func New(store Store, clock Clock, opts Options) *Tracker {
	if clock == nil {
		clock = SystemClock{}
	}
	if opts.Goal <= 0 {
		opts.Goal = model.DefaultDailyGoal
	}

	t := &Tracker{
		store: store,
		clock: clock,
		log:   logging.OrDiscard(opts.Logger),
		goal:  opts.Goal,
	}
	t.publish()

	tmpl := opts.ReminderTemplate
	t.reminders = reminder.NewScheduler(opts.Notifier, reminder.Options{
		Interval: opts.ReminderInterval,
		NewTimer: opts.NewTimer,
		Message: func() reminder.Notification {
			rec := t.snapshot.Load()
			return reminder.Compose(tmpl, reminder.Progress{Current: rec.CurrentAmount, Goal: t.goal})
		},
		Logger: t.log,
	})

	return t
}

// AddIntake records amount milliliters, re-renders and persists. The
// in-memory state is kept even when the write fails.
func (t *Tracker) AddIntake(ctx context.Context, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	now := t.clock.Now()
	entry := model.Entry{
		ID:     uuid.NewString(),
		Amount: amount,
		At:     now,
		Time:   now.Format(model.TimeLayout),
	}

	t.previous = t.current
	t.current += amount
	t.entries = append([]model.Entry{entry}, t.entries...)
	t.filling = true
	t.publish()

	t.log.Info("intake added", "amount_ml", amount, "total_ml", t.current)
	return t.Save(ctx)
}

// ResetDay clears the total and the log. Calling it repeatedly is harmless.
func (t *Tracker) ResetDay(ctx context.Context) error {
	t.previous = 0
	t.current = 0
	t.entries = nil
	t.filling = false
	t.publish()

	t.log.Info("day reset")
	return t.Save(ctx)
}

// View renders the current state.
func (t *Tracker) View() View {
	return Render(t.current, t.goal, t.previous, t.entries, t.filling)
}

// Current returns the running total in milliliters.
func (t *Tracker) Current() int { return t.current }

// Entries returns a copy of the log, newest first.
func (t *Tracker) Entries() []model.Entry {
	out := make([]model.Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Snapshot returns the state as it would be persisted now.
func (t *Tracker) Snapshot() model.Record {
	return *t.snapshot.Load()
}

// Reminders exposes the owned scheduler for status queries.
func (t *Tracker) Reminders() *reminder.Scheduler { return t.reminders }

// ToggleReminders flips reminders on or off and reports the new state.
func (t *Tracker) ToggleReminders() reminder.State {
	return t.reminders.Toggle()
}

// SetRemindersEnabled drives the reminder switch to on.
func (t *Tracker) SetRemindersEnabled(on bool) {
	t.reminders.SetEnabled(on)
}

// SetReminderInterval changes the reminder period, re-arming if enabled.
func (t *Tracker) SetReminderInterval(minutes int) {
	t.reminders.SetInterval(minutes)
}

// Close stops any live reminder timer.
func (t *Tracker) Close() {
	t.reminders.Disable()
}

// publish refreshes the snapshot reminder ticks read from.
func (t *Tracker) publish() {
	rec := model.Record{
		CurrentAmount: t.current,
		Log:           t.Entries(),
		Date:          t.clock.Now().Format(model.DateLayout),
	}
	t.snapshot.Store(&rec)
}

// ParseCustomAmount validates free-form input. Only positive base-10
// integers are accepted.
func ParseCustomAmount(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
