package reminder

import (
	"sync"
	"time"
)

// Timer is a live repeating timer handle.
type Timer interface {
	Stop()
}

// TimerFunc arms a repeating timer that calls tick every d until stopped.
type TimerFunc func(d time.Duration, tick func()) Timer

type tickerTimer struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

// RepeatingTimer is the production TimerFunc, backed by time.Ticker.
func RepeatingTimer(d time.Duration, tick func()) Timer {
	tt := &tickerTimer{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-tt.done:
				return
			case <-tt.ticker.C:
				tick()
			}
		}
	}()
	return tt
}

// Stop halts the ticker goroutine. Safe to call more than once.
func (tt *tickerTimer) Stop() {
	tt.once.Do(func() {
		tt.ticker.Stop()
		close(tt.done)
	})
}
