package conversation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hammamikhairi/voicedeck/internal/domain"
)

// ReminderHelp tells the user the phrase shape ParseReminder accepts.
const ReminderHelp = `Say: "Set reminder to [task] in [number] [seconds/minutes/hours]"`

var reminderPattern = regexp.MustCompile(
	`(?:set\s+(?:a\s+)?reminder\s+to|remind\s+me\s+to|reminder\s+to)\s+(.+?)\s+in\s+(\d+|[a-z]+(?:[\s-][a-z]+)?)\s*(seconds?|secs?|minutes?|mins?|hours?|hrs?)\b`)

var smallNumbers = map[string]int{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11,
	"twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var tens = map[string]int{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

// ParseReminder extracts the message and delay from a reminder phrase
// such as "remind me to stretch in 10 minutes". Whisper often spells
// small numbers out, so "in five minutes" and "in twenty-five seconds"
// are accepted too. Any other shape, or a zero delay, returns
// ErrMalformedCommand.
func ParseReminder(utterance string) (string, time.Duration, error) {
	text := Normalize(utterance)
	m := reminderPattern.FindStringSubmatch(text)
	if m == nil {
		return "", 0, fmt.Errorf("%w: no reminder phrase in %q", domain.ErrMalformedCommand, text)
	}

	message := strings.TrimSpace(m[1])
	n, ok := parseCount(m[2])
	if !ok || n <= 0 {
		return "", 0, fmt.Errorf("%w: bad reminder amount %q", domain.ErrMalformedCommand, m[2])
	}

	var unit time.Duration
	switch {
	case strings.HasPrefix(m[3], "h"):
		unit = time.Hour
	case strings.HasPrefix(m[3], "m"):
		unit = time.Minute
	default:
		unit = time.Second
	}

	return message, time.Duration(n) * unit, nil
}

func parseCount(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}

	words := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '-' })
	switch len(words) {
	case 1:
		if n, ok := smallNumbers[words[0]]; ok {
			return n, true
		}
		n, ok := tens[words[0]]
		return n, ok
	case 2:
		t, ok := tens[words[0]]
		if !ok {
			return 0, false
		}
		u, ok := smallNumbers[words[1]]
		if !ok || u >= 10 || words[1] == "a" || words[1] == "an" {
			return 0, false
		}
		return t + u, true
	}
	return 0, false
}

// FormatDelay renders a delay in its largest whole unit, rounded:
// "2 hours", "5 minutes", "1 second".
func FormatDelay(d time.Duration) string {
	switch {
	case d >= time.Hour:
		return plural(int((d+time.Hour/2)/time.Hour), "hour")
	case d >= time.Minute:
		return plural(int((d+time.Minute/2)/time.Minute), "minute")
	default:
		return plural(int((d+time.Second/2)/time.Second), "second")
	}
}

// FormatRemaining renders a countdown like "1h 5m left", "4m 09s left"
// or "12s left".
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	s := int(d%time.Minute) / int(time.Second)
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm left", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %02ds left", m, s)
	default:
		return fmt.Sprintf("%ds left", s)
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
