// Package daemon provides the long-running background reminder service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/hydrate/internal/logging"
	"github.com/theirongolddev/hydrate/internal/model"
	"github.com/theirongolddev/hydrate/internal/reminder"
	"github.com/theirongolddev/hydrate/internal/tracker"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr            string
	IntervalMinutes int
	EventsBuffer    int
	Goal            int
	Template        string
}

// Deps are the collaborators the service drives.
type Deps struct {
	Store    tracker.Store
	Clock    tracker.Clock
	Notifier reminder.Notifier
	NewTimer reminder.TimerFunc
	Logger   *slog.Logger
}

// Snapshot is today's intake as read from the store.
type Snapshot struct {
	At          time.Time `json:"at"`
	Date        string    `json:"date"`
	CurrentML   int       `json:"current_ml"`
	GoalML      int       `json:"goal_ml"`
	RemainingML int       `json:"remaining_ml"`
	Percent     int       `json:"percent"`
	Entries     int       `json:"entries"`
	LastIntake  time.Time `json:"last_intake,omitzero"`
}

// Event is emitted whenever a reminder is shown.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Title     string    `json:"title,omitempty"`
	Body      string    `json:"body,omitempty"`
	Snapshot  Snapshot  `json:"snapshot"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	Reminders       string    `json:"reminders"`
	IntervalMinutes int       `json:"interval_minutes"`
	Permission      string    `json:"permission"`
	Fired           int64     `json:"fired"`
	Skipped         int64     `json:"skipped"`
	Failed          int64     `json:"failed"`
	LastReminderAt  time.Time `json:"last_reminder_at,omitzero"`
	Today           Snapshot  `json:"today"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg   Config
	store tracker.Store
	clock tracker.Clock
	inner reminder.Notifier
	log   *slog.Logger
	sched *reminder.Scheduler

	mu             sync.RWMutex
	startedAt      time.Time
	lastReminderAt time.Time
	lastSnapshot   Snapshot
	nextEventID    int64
	events         []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config, deps Deps) *Service {
	if !model.ValidInterval(cfg.IntervalMinutes) {
		cfg.IntervalMinutes = model.DefaultReminderInterval
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8797"
	}
	if cfg.Goal <= 0 {
		cfg.Goal = model.DefaultDailyGoal
	}
	if deps.Clock == nil {
		deps.Clock = tracker.SystemClock{}
	}

	s := &Service{
		cfg:       cfg,
		store:     deps.Store,
		clock:     deps.Clock,
		inner:     deps.Notifier,
		log:       logging.OrDiscard(deps.Logger),
		startedAt: deps.Clock.Now(),
		subs:      make(map[int]chan Event),
	}
	s.sched = reminder.NewScheduler(s, reminder.Options{
		Interval: cfg.IntervalMinutes,
		NewTimer: deps.NewTimer,
		Message:  s.compose,
		Logger:   s.log,
	})
	return s
}

// Run arms reminders and serves HTTP endpoints until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.sched.Enable()
	defer s.sched.Disable()
	s.log.Info("reminder daemon started", "addr", s.cfg.Addr, "interval_minutes", s.cfg.IntervalMinutes)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("reminder daemon stopping")
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("daemon http server: %w", err)
	}
}

// Scheduler exposes the reminder scheduler the service drives.
func (s *Service) Scheduler() *reminder.Scheduler { return s.sched }

// Permission implements reminder.Notifier.
func (s *Service) Permission() model.Permission {
	if s.inner == nil {
		return model.PermissionDenied
	}
	return s.inner.Permission()
}

// Show implements reminder.Notifier. The reminder is shown through the
// wrapped notifier and then published to event subscribers.
func (s *Service) Show(n reminder.Notification) error {
	if s.inner != nil {
		if err := s.inner.Show(n); err != nil {
			return err
		}
	}

	now := s.clock.Now()
	s.mu.Lock()
	s.lastReminderAt = now
	s.nextEventID++
	ev := Event{
		ID:        s.nextEventID,
		Type:      "reminder",
		Timestamp: now,
		Title:     n.Title,
		Body:      n.Body,
		Snapshot:  s.lastSnapshot,
	}
	s.mu.Unlock()

	s.publishEvent(ev)
	return nil
}

// compose builds the notification for a tick from the stored record.
func (s *Service) compose() reminder.Notification {
	snap := s.readSnapshot(context.Background())
	s.mu.Lock()
	s.lastSnapshot = snap
	s.mu.Unlock()
	return reminder.Compose(s.cfg.Template, reminder.Progress{Current: snap.CurrentML, Goal: snap.GoalML})
}

func (s *Service) readSnapshot(ctx context.Context) Snapshot {
	now := s.clock.Now()
	rec, ok := tracker.ReadToday(ctx, s.store, s.clock, s.log)
	if !ok {
		rec = model.Record{Date: now.Format(model.DateLayout)}
	}
	return snapshotFromRecord(rec, s.cfg.Goal, now)
}

func snapshotFromRecord(rec model.Record, goal int, at time.Time) Snapshot {
	return Snapshot{
		At:          at,
		Date:        rec.Date,
		CurrentML:   rec.CurrentAmount,
		GoalML:      goal,
		RemainingML: max(goal-rec.CurrentAmount, 0),
		Percent:     int(tracker.Fraction(rec.CurrentAmount, goal) * 100),
		Entries:     len(rec.Log),
		LastIntake:  rec.LastIntake(),
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus(ctx context.Context) Status {
	today := s.readSnapshot(ctx)
	stats := s.sched.Stats()
	// Scheduler reads come before s.mu: ticks take the scheduler lock
	// first and then s.mu in Show.
	state := s.sched.State()
	interval := s.sched.Interval()
	perm := s.Permission()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		Reminders:       state.String(),
		IntervalMinutes: interval,
		Permission:      perm.String(),
		Fired:           stats.Fired,
		Skipped:         stats.Skipped,
		Failed:          stats.Failed,
		LastReminderAt:  s.lastReminderAt,
		Today:           today,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus(r.Context()))
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send today's state immediately.
	current := Event{
		Type:      "snapshot",
		Timestamp: s.clock.Now(),
		Snapshot:  s.readSnapshot(r.Context()),
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
