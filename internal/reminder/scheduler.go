// Package reminder schedules the periodic "time to hydrate" notification.
//
// The scheduler is a two-state machine. Disabled owns no timer; Enabled
// owns exactly one. Every transition that arms a timer stops the previous
// one first, under the same lock, so a replaced timer can never keep firing.
package reminder

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/theirongolddev/hydrate/internal/logging"
	"github.com/theirongolddev/hydrate/internal/model"
)

// State is the scheduler's machine state.
type State int

const (
	Disabled State = iota
	Enabled
)

func (s State) String() string {
	if s == Enabled {
		return "enabled"
	}
	return "disabled"
}

// Options configures a Scheduler.
type Options struct {
	// Interval is the reminder period in minutes.
	Interval int
	// NewTimer arms timers. Defaults to RepeatingTimer.
	NewTimer TimerFunc
	// Message builds the notification for a tick. Defaults to Compose("", ...).
	Message func() Notification
	Logger  *slog.Logger
}

// Stats counts ticks since the scheduler was created.
type Stats struct {
	Fired   int64
	Skipped int64
	Failed  int64
}

// Scheduler owns the reminder timer.
type Scheduler struct {
	notifier Notifier
	newTimer TimerFunc
	message  func() Notification
	log      *slog.Logger

	mu       sync.Mutex
	state    State
	interval int
	timer    Timer
	gen      uint64
	live     int

	fired   atomic.Int64
	skipped atomic.Int64
	failed  atomic.Int64
}

// NewScheduler returns a disabled scheduler delivering through n.
func NewScheduler(n Notifier, opts Options) *Scheduler {
	if opts.NewTimer == nil {
		opts.NewTimer = RepeatingTimer
	}
	if opts.Message == nil {
		opts.Message = func() Notification { return Compose("", Progress{}) }
	}
	if !model.ValidInterval(opts.Interval) {
		opts.Interval = model.DefaultReminderInterval
	}
	return &Scheduler{
		notifier: n,
		newTimer: opts.NewTimer,
		message:  opts.Message,
		log:      logging.OrDiscard(opts.Logger),
		interval: opts.Interval,
	}
}

// Enable arms a timer at the current interval, replacing any live one.
func (s *Scheduler) Enable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.arm()
}

// Disable stops the live timer, if any.
func (s *Scheduler) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel()
	s.state = Disabled
}

// SetEnabled drives the on/off toggle.
func (s *Scheduler) SetEnabled(on bool) {
	if on {
		s.Enable()
		return
	}
	s.Disable()
}

// Toggle flips the state and returns the new one.
func (s *Scheduler) Toggle() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Enabled {
		s.cancel()
		s.state = Disabled
	} else {
		s.arm()
	}
	return s.state
}

// SetInterval changes the period. While enabled this is a disable
// followed by an enable so the new period applies immediately.
// Intervals outside model.ReminderIntervals are ignored.
func (s *Scheduler) SetInterval(minutes int) {
	if !model.ValidInterval(minutes) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.interval = minutes
	if s.state == Enabled {
		s.cancel()
		s.state = Disabled
		s.arm()
	}
}

// State returns the machine state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Interval returns the configured period in minutes.
func (s *Scheduler) Interval() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Active reports how many timers are live. It is 0 or 1.
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// Stats returns tick counters.
func (s *Scheduler) Stats() Stats {
	return Stats{
		Fired:   s.fired.Load(),
		Skipped: s.skipped.Load(),
		Failed:  s.failed.Load(),
	}
}

// arm requires s.mu.
func (s *Scheduler) arm() {
	s.cancel()

	s.gen++
	gen := s.gen
	period := time.Duration(s.interval) * time.Minute
	s.timer = s.newTimer(period, func() { s.tick(gen) })
	s.live++
	s.state = Enabled

	s.log.Info("reminders armed", "interval_min", s.interval)
}

// cancel requires s.mu.
func (s *Scheduler) cancel() {
	if s.timer == nil {
		return
	}
	s.timer.Stop()
	s.timer = nil
	s.live--
	s.gen++
	s.log.Info("reminders cancelled")
}

// tick holds s.mu through delivery, so once Disable or SetInterval
// returns no tick from the replaced timer is shown. Notifiers must not
// call back into the Scheduler.
func (s *Scheduler) tick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}

	if s.notifier == nil || s.notifier.Permission() != model.PermissionGranted {
		s.skipped.Add(1)
		s.log.Debug("reminder skipped", "reason", "permission not granted")
		return
	}

	if err := s.notifier.Show(s.message()); err != nil {
		s.failed.Add(1)
		s.log.Warn("reminder display failed", "error", err)
		return
	}
	s.fired.Add(1)
}
