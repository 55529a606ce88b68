package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/theirongolddev/hydrate/internal/logging"
	"github.com/theirongolddev/hydrate/internal/model"
)

// StorageKey is the fixed key the day's record lives under.
const StorageKey = "waterTracker"

// Save writes {currentAmount, log, today} under StorageKey.
func (t *Tracker) Save(ctx context.Context) error {
	if t.store == nil {
		return nil
	}
	rec := t.Snapshot()
	rec.Date = t.clock.Now().Format(model.DateLayout)

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	if err := t.store.Set(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

// Restore loads today's record. It reports whether state was replaced;
// a missing, unreadable, malformed or stale record leaves the initial
// state in place.
func (t *Tracker) Restore(ctx context.Context) bool {
	rec, ok := ReadToday(ctx, t.store, t.clock, t.log)
	if !ok {
		return false
	}

	t.current = rec.CurrentAmount
	t.entries = rec.Log
	t.previous = t.current
	t.filling = false
	t.publish()
	return true
}

// ReadToday loads the persisted record if it belongs to the clock's
// current date. Failures are logged and reported as "no data".
func ReadToday(ctx context.Context, store Store, clock Clock, log *slog.Logger) (model.Record, bool) {
	log = logging.OrDiscard(log)
	if store == nil {
		return model.Record{}, false
	}
	if clock == nil {
		clock = SystemClock{}
	}

	raw, ok, err := store.Get(ctx, StorageKey)
	if err != nil {
		log.Warn("reading saved intake failed", "error", err)
		return model.Record{}, false
	}
	if !ok {
		return model.Record{}, false
	}

	var rec model.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		log.Warn("discarding malformed saved intake", "error", err)
		return model.Record{}, false
	}

	today := clock.Now().Format(model.DateLayout)
	if rec.Date != today {
		log.Info("discarding saved intake from another day", "saved", rec.Date, "today", today)
		return model.Record{}, false
	}

	for _, e := range rec.Log {
		if e.Amount <= 0 {
			log.Warn("discarding saved intake with non-positive entry", "amount_ml", e.Amount)
			return model.Record{}, false
		}
	}

	if sum := model.SumLog(rec.Log); sum != rec.CurrentAmount {
		log.Warn("saved total disagrees with log, using log sum", "saved_ml", rec.CurrentAmount, "log_ml", sum)
		rec.CurrentAmount = sum
	}
	return rec, true
}
