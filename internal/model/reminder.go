package model

import "fmt"

// Permission is the user's decision on desktop-style reminder notifications.
type Permission string

const (
	PermissionUndetermined Permission = ""
	PermissionGranted      Permission = "granted"
	PermissionDenied       Permission = "denied"
)

// ParsePermission maps a config value onto a Permission. Unknown values are undetermined.
func ParsePermission(s string) Permission {
	switch Permission(s) {
	case PermissionGranted:
		return PermissionGranted
	case PermissionDenied:
		return PermissionDenied
	default:
		return PermissionUndetermined
	}
}

func (p Permission) String() string {
	if p == PermissionUndetermined {
		return "undetermined"
	}
	return string(p)
}

// ReminderIntervals is the set of selectable reminder periods, in minutes.
var ReminderIntervals = []int{15, 30, 45, 60, 90, 120}

// DefaultReminderInterval is used when no valid interval is configured.
const DefaultReminderInterval = 60

// ValidInterval reports whether minutes is one of ReminderIntervals.
func ValidInterval(minutes int) bool {
	for _, m := range ReminderIntervals {
		if m == minutes {
			return true
		}
	}
	return false
}

// NextInterval cycles to the interval after current, wrapping around.
// An unknown current value restarts at the first option.
func NextInterval(current int) int {
	for i, m := range ReminderIntervals {
		if m == current {
			return ReminderIntervals[(i+1)%len(ReminderIntervals)]
		}
	}
	return ReminderIntervals[0]
}

// IntervalLabel formats a reminder period for selectors and status lines.
func IntervalLabel(minutes int) string {
	if minutes >= 60 && minutes%60 == 0 {
		h := minutes / 60
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	}
	return fmt.Sprintf("%d minutes", minutes)
}
