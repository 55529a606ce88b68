package tracker

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/hydrate/internal/model"
	"github.com/theirongolddev/hydrate/internal/reminder"
)

type memStore struct {
	data   map[string]string
	getErr error
	setErr error
	writes int
}

func newMemStore() *memStore { return &memStore{data: map[string]string{}} }

func (m *memStore) Get(_ context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Set(_ context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.writes++
	m.data[key] = value
	return nil
}

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }

func day(d, h, m int) time.Time {
	return time.Date(2025, time.June, d, h, m, 0, 0, time.Local)
}

func TestAddIntakeScenario(t *testing.T) {
	ctx := context.Background()
	clock := &stepClock{now: day(1, 9, 0)}
	tr := New(newMemStore(), clock, Options{})

	if err := tr.AddIntake(ctx, 250); err != nil {
		t.Fatalf("AddIntake: %v", err)
	}
	v := tr.View()
	if v.Readout != 250 {
		t.Fatalf("Readout = %d, want 250", v.Readout)
	}
	if v.Fraction != 0.125 {
		t.Fatalf("Fraction = %v, want 0.125", v.Fraction)
	}
	if len(v.Lines) != 1 || v.Lines[0] != "250ml at 9:00:00 AM" {
		t.Fatalf("Lines = %q", v.Lines)
	}

	clock.now = day(1, 11, 30)
	if err := tr.AddIntake(ctx, 1750); err != nil {
		t.Fatalf("AddIntake: %v", err)
	}
	v = tr.View()
	if v.Readout != 2000 || v.Fraction != 1.0 {
		t.Fatalf("Readout=%d Fraction=%v, want 2000 and 1.0", v.Readout, v.Fraction)
	}
	want := []string{"1750ml at 11:30:00 AM", "250ml at 9:00:00 AM"}
	if len(v.Lines) != 2 || v.Lines[0] != want[0] || v.Lines[1] != want[1] {
		t.Fatalf("Lines = %q, want %q", v.Lines, want)
	}
}

func TestSumInvariant(t *testing.T) {
	ctx := context.Background()
	tr := New(newMemStore(), &stepClock{now: day(1, 8, 0)}, Options{})

	amounts := []int{100, 250, 500, 33, 1, 900}
	for i, a := range amounts {
		if err := tr.AddIntake(ctx, a); err != nil {
			t.Fatalf("AddIntake(%d): %v", a, err)
		}
		if got, want := tr.Current(), model.SumLog(tr.Entries()); got != want {
			t.Fatalf("after %d adds: Current=%d sum(log)=%d", i+1, got, want)
		}
		if len(tr.Entries()) != i+1 {
			t.Fatalf("log length = %d, want %d", len(tr.Entries()), i+1)
		}
	}
}

func TestAddIntakeRejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	tr := New(st, &stepClock{now: day(1, 8, 0)}, Options{})

	for _, a := range []int{0, -5} {
		if err := tr.AddIntake(ctx, a); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("AddIntake(%d) err = %v, want ErrInvalidAmount", a, err)
		}
	}
	if tr.Current() != 0 || len(tr.Entries()) != 0 || st.writes != 0 {
		t.Fatalf("state changed by invalid input: current=%d entries=%d writes=%d",
			tr.Current(), len(tr.Entries()), st.writes)
	}
}

func TestAddIntakeExceedsGoal(t *testing.T) {
	tr := New(newMemStore(), &stepClock{now: day(1, 8, 0)}, Options{Goal: 2000})
	_ = tr.AddIntake(context.Background(), 5000)

	v := tr.View()
	if v.Readout != 5000 {
		t.Fatalf("raw total should not clamp: %d", v.Readout)
	}
	if v.Fraction != 1 || v.FillHeight != GlassHeight || v.Remaining != 0 {
		t.Fatalf("display should clamp: %+v", v)
	}
}

func TestResetDayIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	tr := New(st, &stepClock{now: day(1, 8, 0)}, Options{})
	_ = tr.AddIntake(ctx, 500)

	if err := tr.ResetDay(ctx); err != nil {
		t.Fatalf("ResetDay: %v", err)
	}
	once := tr.Snapshot()
	if err := tr.ResetDay(ctx); err != nil {
		t.Fatalf("ResetDay: %v", err)
	}
	twice := tr.Snapshot()

	if once.CurrentAmount != 0 || len(once.Log) != 0 {
		t.Fatalf("after reset: %+v", once)
	}
	if twice.CurrentAmount != once.CurrentAmount || len(twice.Log) != len(once.Log) {
		t.Fatalf("second reset changed state: %+v vs %+v", twice, once)
	}
	if v := tr.View(); v.FillHeight != 0 || len(v.Lines) != 0 {
		t.Fatalf("view after reset: %+v", v)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	clock := &stepClock{now: day(1, 10, 15)}

	first := New(st, clock, Options{})
	_ = first.AddIntake(ctx, 750)

	second := New(st, clock, Options{})
	if !second.Restore(ctx) {
		t.Fatal("Restore on the same day returned false")
	}
	if second.Current() != 750 {
		t.Fatalf("Current = %d, want 750", second.Current())
	}
	got, want := second.Entries(), first.Entries()
	if len(got) != 1 || got[0].ID != want[0].ID || got[0].Line() != want[0].Line() {
		t.Fatalf("log = %+v, want %+v", got, want)
	}
	if second.View().Filling {
		t.Fatal("restored view should not animate a fill")
	}
}

func TestRestoreDiscardsOtherDay(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	clock := &stepClock{now: day(1, 22, 0)}
	_ = New(st, clock, Options{}).AddIntake(ctx, 750)

	clock.now = day(2, 7, 0)
	tr := New(st, clock, Options{})
	if tr.Restore(ctx) {
		t.Fatal("Restore accepted yesterday's record")
	}
	if tr.Current() != 0 || len(tr.Entries()) != 0 {
		t.Fatalf("stale record leaked: current=%d entries=%d", tr.Current(), len(tr.Entries()))
	}
}

func TestRestoreTreatsFailuresAsNoData(t *testing.T) {
	ctx := context.Background()
	clock := &stepClock{now: day(1, 8, 0)}

	tests := []struct {
		name  string
		store *memStore
	}{
		{"absent", newMemStore()},
		{"malformed", &memStore{data: map[string]string{StorageKey: "{not json"}}},
		{"wrong shape", &memStore{data: map[string]string{StorageKey: `[1,2,3]`}}},
		{"read error", &memStore{data: map[string]string{}, getErr: errors.New("disk gone")}},
		{"negative entry", &memStore{data: map[string]string{StorageKey: `{"currentAmount":-200,"log":[{"amount":-200,"time":"7:00:00 AM"}],"date":"2025-06-01"}`}}},
		{"zero entry", &memStore{data: map[string]string{StorageKey: `{"currentAmount":250,"log":[{"amount":250,"time":"7:30:00 AM"},{"amount":0,"time":"7:00:00 AM"}],"date":"2025-06-01"}`}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(tt.store, clock, Options{})
			if tr.Restore(ctx) {
				t.Fatal("Restore reported success")
			}
			if tr.Current() != 0 || len(tr.Entries()) != 0 {
				t.Fatalf("state not at defaults: %+v", tr.Snapshot())
			}
		})
	}
}

func TestRestoreRepairsTotalFromLog(t *testing.T) {
	raw := `{"currentAmount":9999,"log":[{"amount":300,"time":"9:00:00 AM"},{"amount":200,"time":"8:00:00 AM"}],"date":"2025-06-01"}`
	st := &memStore{data: map[string]string{StorageKey: raw}}
	tr := New(st, &stepClock{now: day(1, 12, 0)}, Options{})

	if !tr.Restore(context.Background()) {
		t.Fatal("Restore failed")
	}
	if tr.Current() != 500 {
		t.Fatalf("Current = %d, want 500 (sum of log)", tr.Current())
	}
}

func TestSavedRecordShape(t *testing.T) {
	st := newMemStore()
	tr := New(st, &stepClock{now: day(3, 9, 0)}, Options{})
	_ = tr.AddIntake(context.Background(), 100)

	raw := st.data[StorageKey]
	for _, want := range []string{`"currentAmount":100`, `"date":"2025-06-03"`, `"amount":100`, `"time":"9:00:00 AM"`} {
		if !strings.Contains(raw, want) {
			t.Errorf("saved record %s missing %s", raw, want)
		}
	}
}

func TestSaveFailureKeepsState(t *testing.T) {
	st := newMemStore()
	st.setErr = errors.New("read-only")
	tr := New(st, &stepClock{now: day(1, 8, 0)}, Options{})

	err := tr.AddIntake(context.Background(), 250)
	if err == nil {
		t.Fatal("expected save error")
	}
	if tr.Current() != 250 {
		t.Fatalf("Current = %d, want 250", tr.Current())
	}
}

func TestProgressClamp(t *testing.T) {
	tests := []struct {
		amount int
		want   float64
	}{
		{0, 0},
		{1000, 0.5},
		{2000, 1},
		{5000, 1},
	}
	for _, tt := range tests {
		if got := Fraction(tt.amount, 2000); got != tt.want {
			t.Errorf("Fraction(%d, 2000) = %v, want %v", tt.amount, got, tt.want)
		}
	}
}

func TestRenderRingAndFill(t *testing.T) {
	v := Render(1000, 2000, 500, nil, true)

	circ := 2 * math.Pi * RingRadius
	if math.Abs(v.RingDashArray-circ) > 1e-9 {
		t.Fatalf("RingDashArray = %v, want %v", v.RingDashArray, circ)
	}
	if math.Abs(v.RingDashOffset-circ/2) > 1e-9 {
		t.Fatalf("RingDashOffset = %v, want %v", v.RingDashOffset, circ/2)
	}
	if v.FillStart != 62.5 || v.FillFinal != 125 || v.FillHeight != 125 {
		t.Fatalf("fill = start %v final %v height %v", v.FillStart, v.FillFinal, v.FillHeight)
	}
	if !v.Filling {
		t.Fatal("Filling should pass through")
	}
	if v.Remaining != 1000 {
		t.Fatalf("Remaining = %d, want 1000", v.Remaining)
	}
}

func TestParseCustomAmount(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"300", 300, true},
		{" 42 ", 42, true},
		{"-5", 0, false},
		{"abc", 0, false},
		{"0", 0, false},
		{"", 0, false},
		{"12.5", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseCustomAmount(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseCustomAmount(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

type nopTimer struct{ stopped *int }

func (n nopTimer) Stop() { *n.stopped++ }

type grantAll struct{ shown []reminder.Notification }

func (g *grantAll) Permission() model.Permission { return model.PermissionGranted }
func (g *grantAll) Show(n reminder.Notification) error {
	g.shown = append(g.shown, n)
	return nil
}

func TestRemindersUseCurrentProgress(t *testing.T) {
	var tick func()
	stops := 0
	n := &grantAll{}
	tr := New(newMemStore(), &stepClock{now: day(1, 8, 0)}, Options{
		Notifier:         n,
		ReminderInterval: 30,
		ReminderTemplate: "{{current}} of {{goal}} ml",
		NewTimer: func(_ time.Duration, fn func()) reminder.Timer {
			tick = fn
			return nopTimer{stopped: &stops}
		},
	})

	tr.SetRemindersEnabled(true)
	tr.SetRemindersEnabled(true)
	if tr.Reminders().Active() != 1 {
		t.Fatalf("Active = %d, want 1", tr.Reminders().Active())
	}

	_ = tr.AddIntake(context.Background(), 400)
	tick()
	if len(n.shown) != 1 || n.shown[0].Body != "400 of 2000 ml" {
		t.Fatalf("shown = %+v", n.shown)
	}

	tr.Close()
	if tr.Reminders().Active() != 0 {
		t.Fatal("Close left a timer running")
	}
	if stops != 2 {
		t.Fatalf("timer stops = %d, want 2", stops)
	}
}
