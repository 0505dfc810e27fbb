package conversation

import (
	"errors"
	"testing"
	"time"

	"github.com/hammamikhairi/voicedeck/internal/domain"
)

func TestParseReminder(t *testing.T) {
	tests := []struct {
		input   string
		message string
		delay   time.Duration
	}{
		{"set reminder to call mom in 5 minutes", "call mom", 5 * time.Minute},
		{"Remind me to stretch in 30 seconds", "stretch", 30 * time.Second},
		{"reminder to take the pizza out in 1 hour", "take the pizza out", time.Hour},
		{"set a reminder to water plants in 2 hours", "water plants", 2 * time.Hour},
		{"remind me to check in on dad in 10 minutes", "check in on dad", 10 * time.Minute},
		{"remind me to drink water in five minutes", "drink water", 5 * time.Minute},
		{"remind me to stand up in an hour", "stand up", time.Hour},
		{"remind me to rest in twenty-five seconds", "rest", 25 * time.Second},
		{"remind me to rest in twenty five mins", "rest", 25 * time.Minute},
		{"remind me to go in the kitchen in 3 min", "go in the kitchen", 3 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			msg, delay, err := ParseReminder(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if msg != tt.message {
				t.Errorf("message = %q, want %q", msg, tt.message)
			}
			if delay != tt.delay {
				t.Errorf("delay = %s, want %s", delay, tt.delay)
			}
		})
	}
}

func TestParseReminderMalformed(t *testing.T) {
	inputs := []string{
		"remind me to stretch",
		"set reminder",
		"remind me to stretch in 0 minutes",
		"remind me to stretch in many minutes",
		"remind me to stretch in 5 days",
		"play music",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, _, err := ParseReminder(in)
			if !errors.Is(err, domain.ErrMalformedCommand) {
				t.Errorf("expected ErrMalformedCommand, got %v", err)
			}
		})
	}
}

func TestFormatDelay(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{time.Second, "1 second"},
		{45 * time.Second, "45 seconds"},
		{time.Minute, "1 minute"},
		{90 * time.Second, "2 minutes"},
		{5 * time.Minute, "5 minutes"},
		{time.Hour, "1 hour"},
		{150 * time.Minute, "3 hours"},
	}
	for _, tt := range tests {
		if got := FormatDelay(tt.d); got != tt.want {
			t.Errorf("FormatDelay(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{-time.Second, "0s left"},
		{12 * time.Second, "12s left"},
		{4*time.Minute + 9*time.Second, "4m 09s left"},
		{time.Hour + 5*time.Minute + 30*time.Second, "1h 5m left"},
	}
	for _, tt := range tests {
		if got := FormatRemaining(tt.d); got != tt.want {
			t.Errorf("FormatRemaining(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
