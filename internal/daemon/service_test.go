package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/theirongolddev/hydrate/internal/model"
	"github.com/theirongolddev/hydrate/internal/reminder"
	"github.com/theirongolddev/hydrate/internal/tracker"
)

type memStore map[string]string

func (m memStore) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memStore) Set(_ context.Context, key, value string) error {
	m[key] = value
	return nil
}

type manualTimer struct{ stopped bool }

func (m *manualTimer) Stop() { m.stopped = true }

type fakeNotifier struct {
	perm  model.Permission
	shown []reminder.Notification
	err   error
}

func (f *fakeNotifier) Permission() model.Permission { return f.perm }
func (f *fakeNotifier) Show(n reminder.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.shown = append(f.shown, n)
	return nil
}

var noon = time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

// newTestService returns a service whose timer ticks are driven by the
// returned func.
func newTestService(t *testing.T, store memStore, n reminder.Notifier) (*Service, func()) {
	t.Helper()

	var tick func()
	timer := &manualTimer{}
	svc := New(Config{Goal: 2000, Template: "{{current}}/{{goal}}"}, Deps{
		Store:    store,
		Clock:    tracker.ClockFunc(func() time.Time { return noon }),
		Notifier: n,
		NewTimer: func(_ time.Duration, f func()) reminder.Timer {
			tick = f
			return timer
		},
	})
	svc.Scheduler().Enable()
	t.Cleanup(svc.Scheduler().Disable)

	return svc, func() {
		if tick == nil {
			t.Fatal("no timer armed")
		}
		tick()
	}
}

func seedToday(t *testing.T, store memStore, amounts ...int) {
	t.Helper()
	rec := model.Record{Date: noon.Format(model.DateLayout)}
	for _, a := range amounts {
		rec.CurrentAmount += a
		rec.Log = append([]model.Entry{{Amount: a, At: noon, Time: noon.Format(model.TimeLayout)}}, rec.Log...)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	store[tracker.StorageKey] = string(data)
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2}, Deps{})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	s := New(Config{IntervalMinutes: 7}, Deps{})
	if s.cfg.IntervalMinutes != model.DefaultReminderInterval {
		t.Errorf("interval = %d, want default", s.cfg.IntervalMinutes)
	}
	if s.cfg.Goal != model.DefaultDailyGoal {
		t.Errorf("goal = %d, want default", s.cfg.Goal)
	}
	if s.cfg.Addr == "" || s.cfg.EventsBuffer < 1 {
		t.Errorf("addr/buffer not defaulted: %+v", s.cfg)
	}
}

func TestTickPublishesReminderWithTodaysProgress(t *testing.T) {
	store := memStore{}
	seedToday(t, store, 250, 500)
	n := &fakeNotifier{perm: model.PermissionGranted}
	svc, tick := newTestService(t, store, n)

	tick()

	if len(n.shown) != 1 {
		t.Fatalf("shown %d notifications, want 1", len(n.shown))
	}
	if n.shown[0].Body != "750/2000" {
		t.Errorf("body = %q, want 750/2000", n.shown[0].Body)
	}

	svc.mu.RLock()
	defer svc.mu.RUnlock()
	if len(svc.events) != 1 {
		t.Fatalf("events = %d, want 1", len(svc.events))
	}
	ev := svc.events[0]
	if ev.Type != "reminder" || ev.ID != 1 {
		t.Errorf("event = %+v", ev)
	}
	if ev.Snapshot.CurrentML != 750 || ev.Snapshot.RemainingML != 1250 || ev.Snapshot.Entries != 2 {
		t.Errorf("snapshot = %+v", ev.Snapshot)
	}
}

func TestTickWithoutPermissionPublishesNothing(t *testing.T) {
	n := &fakeNotifier{perm: model.PermissionDenied}
	svc, tick := newTestService(t, memStore{}, n)

	tick()

	if len(n.shown) != 0 {
		t.Fatal("reminder shown without permission")
	}
	if got := svc.Scheduler().Stats().Skipped; got != 1 {
		t.Fatalf("skipped = %d, want 1", got)
	}
	if st := svc.snapshotStatus(context.Background()); st.EventCount != 0 {
		t.Fatalf("event count = %d, want 0", st.EventCount)
	}
}

func TestFailedDisplayPublishesNothing(t *testing.T) {
	n := &fakeNotifier{perm: model.PermissionGranted, err: errors.New("tty gone")}
	svc, tick := newTestService(t, memStore{}, n)

	tick()

	st := svc.snapshotStatus(context.Background())
	if st.Failed != 1 || st.EventCount != 0 {
		t.Fatalf("status = %+v, want one failure and no events", st)
	}
}

func TestStatusEndpoint(t *testing.T) {
	store := memStore{}
	seedToday(t, store, 2500)
	svc, _ := newTestService(t, store, &fakeNotifier{perm: model.PermissionGranted})

	rec := httptest.NewRecorder()
	svc.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/v1/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d", rec.Code)
	}
	var st Status
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.Reminders != "enabled" || st.IntervalMinutes != model.DefaultReminderInterval {
		t.Errorf("reminder state = %q/%d", st.Reminders, st.IntervalMinutes)
	}
	if st.Permission != "granted" {
		t.Errorf("permission = %q", st.Permission)
	}
	if st.Today.CurrentML != 2500 || st.Today.Percent != 100 || st.Today.RemainingML != 0 {
		t.Errorf("today = %+v", st.Today)
	}
}

func TestStaleRecordReadsAsEmpty(t *testing.T) {
	store := memStore{}
	rec := model.Record{CurrentAmount: 900, Date: "2000-01-01", Log: []model.Entry{{Amount: 900}}}
	data, _ := json.Marshal(rec)
	store[tracker.StorageKey] = string(data)

	svc := New(Config{}, Deps{Store: store, Clock: tracker.ClockFunc(func() time.Time { return noon })})
	snap := svc.readSnapshot(context.Background())
	if snap.CurrentML != 0 || snap.Entries != 0 {
		t.Fatalf("snapshot = %+v, want empty", snap)
	}
	if snap.Date != noon.Format(model.DateLayout) {
		t.Fatalf("date = %q", snap.Date)
	}
}
