// Package model defines domain types for hydrate intake tracking.
package model

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the calendar-date format that partitions persisted state by day.
	DateLayout = "2006-01-02"
	// TimeLayout is the human-readable clock format stamped on each entry.
	TimeLayout = "3:04:05 PM"
	// DefaultDailyGoal is the target intake in milliliters.
	DefaultDailyGoal = 2000
)

// Entry is one recorded intake event.
type Entry struct {
	ID     string    `json:"id"`
	Amount int       `json:"amount"`
	At     time.Time `json:"at"`
	Time   string    `json:"time"`
}

// Line renders the entry the way the intake log shows it.
func (e Entry) Line() string {
	return fmt.Sprintf("%dml at %s", e.Amount, e.Time)
}

// Record is the persisted state for a single calendar day.
type Record struct {
	CurrentAmount int     `json:"currentAmount"`
	Log           []Entry `json:"log"`
	Date          string  `json:"date"`
}

// SumLog returns the total milliliters across entries.
func SumLog(log []Entry) int {
	total := 0
	for _, e := range log {
		total += e.Amount
	}
	return total
}

// LastIntake returns the newest entry's timestamp, or the zero time for an empty log.
func (r Record) LastIntake() time.Time {
	if len(r.Log) == 0 {
		return time.Time{}
	}
	return r.Log[0].At
}
