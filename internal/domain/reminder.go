package domain

import "time"

// Reminder is a scheduled one-shot notification.
type Reminder struct {
	ID        int64
	Message   string
	CreatedAt time.Time
	TriggerAt time.Time
	Triggered bool
}

// Remaining returns how long until the reminder fires, clamped at zero.
func (r Reminder) Remaining(now time.Time) time.Duration {
	if d := r.TriggerAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// ReminderCounts summarizes a cancel-all operation.
type ReminderCounts struct {
	Active    int
	Triggered int
	Total     int
}
