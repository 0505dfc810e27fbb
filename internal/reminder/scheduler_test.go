package reminder

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/voicedeck/internal/domain"
	"github.com/hammamikhairi/voicedeck/internal/logger"
)

// mockNotifier collects status lines for testing.
type mockNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (m *mockNotifier) Status(_ context.Context, text string, _ domain.Severity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, text)
	return nil
}

func (m *mockNotifier) all() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages...)
}

type mockAlert struct {
	mu      sync.Mutex
	fired   []int64
	firedAt []time.Time
}

func (m *mockAlert) Alert(_ context.Context, r domain.Reminder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fired = append(m.fired, r.ID)
	m.firedAt = append(m.firedAt, time.Now())
}

func (m *mockAlert) times() []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Time(nil), m.firedAt...)
}

func (m *mockAlert) ids() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.fired...)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func setupScheduler(t *testing.T) (*Scheduler, *mockAlert, *mockNotifier) {
	t.Helper()
	alert := &mockAlert{}
	notifier := &mockNotifier{}
	s := New(alert, notifier, logger.New(logger.LevelOff, nil))
	s.Start(context.Background())
	t.Cleanup(s.Stop)
	return s, alert, notifier
}

func TestSchedulerFiresReminder(t *testing.T) {
	s, alert, notifier := setupScheduler(t)

	r := s.Set("drink water", 50*time.Millisecond)
	if r.ID != 1 {
		t.Errorf("first id = %d, want 1", r.ID)
	}

	waitFor(t, "alert", func() bool { return len(alert.ids()) == 1 })

	msgs := notifier.all()
	if len(msgs) != 1 || msgs[0] != "Reminder ready: drink water" {
		t.Errorf("messages = %v", msgs)
	}

	active, triggered := s.List()
	if len(active) != 0 || len(triggered) != 1 || !triggered[0].Triggered {
		t.Errorf("after firing: active=%v triggered=%v", active, triggered)
	}
}

func TestSetComputesTriggerTime(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := New(&mockAlert{}, &mockNotifier{}, logger.New(logger.LevelOff, nil),
		WithClock(func() time.Time { return base }))

	for _, d := range []time.Duration{time.Second, 90 * time.Second, 5 * time.Minute, 2 * time.Hour} {
		r := s.Set("stretch", d)
		if !r.CreatedAt.Equal(base) {
			t.Errorf("delay %s: CreatedAt = %v, want %v", d, r.CreatedAt, base)
		}
		if !r.TriggerAt.Equal(r.CreatedAt.Add(d)) {
			t.Errorf("delay %s: TriggerAt = %v, want %v", d, r.TriggerAt, r.CreatedAt.Add(d))
		}
	}
}

func TestAlertNeverFiresEarly(t *testing.T) {
	s, alert, _ := setupScheduler(t)

	const delay = 80 * time.Millisecond
	before := time.Now()
	s.Set("stand up", delay)

	waitFor(t, "alert", func() bool { return len(alert.times()) == 1 })

	if elapsed := alert.times()[0].Sub(before); elapsed < delay {
		t.Errorf("alert fired after %s, want at least %s", elapsed, delay)
	}
}

func TestSchedulerFiresInDueOrder(t *testing.T) {
	s, alert, _ := setupScheduler(t)

	late := s.Set("late", 120*time.Millisecond)
	early := s.Set("early", 30*time.Millisecond)

	waitFor(t, "both alerts", func() bool { return len(alert.ids()) == 2 })

	ids := alert.ids()
	if ids[0] != early.ID || ids[1] != late.ID {
		t.Errorf("fire order = %v, want [%d %d]", ids, early.ID, late.ID)
	}
}

func TestCancelAllCountsAndPreventsFiring(t *testing.T) {
	s, alert, _ := setupScheduler(t)

	s.Set("fires", 20*time.Millisecond)
	waitFor(t, "first alert", func() bool { return len(alert.ids()) == 1 })

	s.Set("pending a", 150*time.Millisecond)
	s.Set("pending b", time.Hour)

	counts := s.CancelAll()
	want := domain.ReminderCounts{Active: 2, Triggered: 1, Total: 3}
	if counts != want {
		t.Errorf("counts = %+v, want %+v", counts, want)
	}

	time.Sleep(250 * time.Millisecond)
	if n := len(alert.ids()); n != 1 {
		t.Errorf("cancelled reminders fired: %d alerts", n)
	}
	if c := s.Counts(); c.Total != 0 {
		t.Errorf("reminders left after cancel: %+v", c)
	}

	if again := s.CancelAll(); again.Total != 0 {
		t.Errorf("second cancel = %+v, want zero", again)
	}
}

func TestIDsNeverReused(t *testing.T) {
	s, _, _ := setupScheduler(t)

	a := s.Set("a", time.Hour)
	b := s.Set("b", time.Hour)
	s.CancelAll()
	c := s.Set("c", time.Hour)

	if !(a.ID < b.ID && b.ID < c.ID) {
		t.Errorf("ids not strictly increasing: %d %d %d", a.ID, b.ID, c.ID)
	}
}

func TestDismissTriggeredKeepsPending(t *testing.T) {
	s, alert, _ := setupScheduler(t)

	s.Set("now", 10*time.Millisecond)
	pending := s.Set("later", time.Hour)
	waitFor(t, "alert", func() bool { return len(alert.ids()) == 1 })

	if n := s.DismissTriggered(); n != 1 {
		t.Errorf("dismissed %d, want 1", n)
	}
	active, triggered := s.List()
	if len(triggered) != 0 {
		t.Errorf("triggered left: %v", triggered)
	}
	if len(active) != 1 || active[0].ID != pending.ID {
		t.Errorf("active = %v", active)
	}
	if next, ok := s.Next(); !ok || next.ID != pending.ID {
		t.Errorf("Next = %v %v", next, ok)
	}
}

func TestListSortedByTriggerTime(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := New(nil, &mockNotifier{}, logger.New(logger.LevelOff, nil),
		WithClock(func() time.Time { return base }))

	s.Set("third", 3*time.Minute)
	s.Set("first", time.Minute)
	s.Set("second", 2*time.Minute)

	active, _ := s.List()
	var got []string
	for _, r := range active {
		got = append(got, r.Message)
	}
	if strings.Join(got, ",") != "first,second,third" {
		t.Errorf("order = %v", got)
	}
	if active[0].Remaining(base) != time.Minute {
		t.Errorf("remaining = %s", active[0].Remaining(base))
	}
}

func TestStopPreventsFiring(t *testing.T) {
	alert := &mockAlert{}
	s := New(alert, &mockNotifier{}, logger.New(logger.LevelOff, nil))
	s.Start(context.Background())
	s.Set("never", 50*time.Millisecond)
	s.Stop()
	s.Stop() // idempotent

	time.Sleep(120 * time.Millisecond)
	if len(alert.ids()) != 0 {
		t.Error("stopped scheduler fired a reminder")
	}
}
