// Package reminder implements the background scheduler that holds
// user reminders and fires a notification when each one comes due.
package reminder

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/hammamikhairi/voicedeck/internal/domain"
	"github.com/hammamikhairi/voicedeck/internal/logger"
)

// idleWait is how long the loop sleeps when nothing is scheduled.
const idleWait = time.Hour

// Option configures the scheduler.
type Option func(*Scheduler)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// Scheduler runs in the background and fires reminders when they come
// due. Ids increase monotonically for the life of the scheduler and are
// never reused, even after CancelAll.
type Scheduler struct {
	alert    domain.ReminderAlert
	notifier domain.Notifier
	log      *logger.Logger
	now      func() time.Time

	mu        sync.Mutex
	nextID    int64
	reminders map[int64]*domain.Reminder
	wake      chan struct{}
	running   bool
	cancel    context.CancelFunc
}

// New creates a reminder scheduler with the given dependencies and options.
func New(alert domain.ReminderAlert, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Scheduler {
	if alert == nil {
		alert = domain.NoopAlert{}
	}
	s := &Scheduler{
		alert:     alert,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
		reminders: make(map[int64]*domain.Reminder),
		wake:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the background loop. Non-blocking.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("reminder scheduler already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	go s.loop(childCtx)
	s.log.Info("reminder scheduler started")
}

// Stop shuts down the loop. Pending reminders stay in memory but no
// longer fire.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.running = false
	s.log.Info("reminder scheduler stopped")
}

// Set schedules a reminder to fire after delay and returns it.
func (s *Scheduler) Set(message string, delay time.Duration) domain.Reminder {
	s.mu.Lock()
	s.nextID++
	now := s.now()
	r := &domain.Reminder{
		ID:        s.nextID,
		Message:   message,
		CreatedAt: now,
		TriggerAt: now.Add(delay),
	}
	s.reminders[r.ID] = r
	out := *r
	s.mu.Unlock()

	s.log.WithField("reminder", out.ID).Info("reminder set: %q in %s", message, delay)
	s.poke()
	return out
}

// CancelAll removes every reminder, active or triggered, and reports
// how many of each were dropped.
func (s *Scheduler) CancelAll() domain.ReminderCounts {
	s.mu.Lock()
	var counts domain.ReminderCounts
	for _, r := range s.reminders {
		if r.Triggered {
			counts.Triggered++
		} else {
			counts.Active++
		}
	}
	counts.Total = counts.Active + counts.Triggered
	clear(s.reminders)
	s.mu.Unlock()

	s.log.Info("reminders cancelled: %d active, %d triggered", counts.Active, counts.Triggered)
	s.poke()
	return counts
}

// List returns pending and triggered reminders, each sorted by trigger
// time.
func (s *Scheduler) List() (active, triggered []domain.Reminder) {
	all := s.snapshot()
	active = lo.Filter(all, func(r domain.Reminder, _ int) bool { return !r.Triggered })
	triggered = lo.Filter(all, func(r domain.Reminder, _ int) bool { return r.Triggered })
	return active, triggered
}

// DismissTriggered drops reminders that have already fired and returns
// how many were removed.
func (s *Scheduler) DismissTriggered() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, r := range s.reminders {
		if r.Triggered {
			delete(s.reminders, id)
			n++
		}
	}
	return n
}

// Next returns the earliest pending reminder.
func (s *Scheduler) Next() (domain.Reminder, bool) {
	active, _ := s.List()
	if len(active) == 0 {
		return domain.Reminder{}, false
	}
	return active[0], true
}

// Counts reports the current number of pending and triggered reminders.
func (s *Scheduler) Counts() domain.ReminderCounts {
	active, triggered := s.List()
	return domain.ReminderCounts{
		Active:    len(active),
		Triggered: len(triggered),
		Total:     len(active) + len(triggered),
	}
}

func (s *Scheduler) snapshot() []domain.Reminder {
	s.mu.Lock()
	all := lo.MapToSlice(s.reminders, func(_ int64, r *domain.Reminder) domain.Reminder { return *r })
	s.mu.Unlock()

	slices.SortFunc(all, func(a, b domain.Reminder) int {
		if c := a.TriggerAt.Compare(b.TriggerAt); c != 0 {
			return c
		}
		return int(a.ID - b.ID)
	})
	return all
}

func (s *Scheduler) poke() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// loop sleeps until the next reminder is due, or until Set/CancelAll
// changes the schedule.
func (s *Scheduler) loop(ctx context.Context) {
	timer := time.NewTimer(idleWait)
	defer timer.Stop()

	for {
		s.fireDue(ctx)
		timer.Reset(s.untilNext())

		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		case <-timer.C:
		}
	}
}

func (s *Scheduler) untilNext() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	wait := idleWait
	now := s.now()
	for _, r := range s.reminders {
		if r.Triggered {
			continue
		}
		if d := r.TriggerAt.Sub(now); d < wait {
			wait = d
		}
	}
	return max(wait, 0)
}

// fireDue marks every due reminder as triggered, then alerts outside
// the lock. A reminder cancelled before this point is simply absent.
func (s *Scheduler) fireDue(ctx context.Context) {
	s.mu.Lock()
	now := s.now()
	var due []domain.Reminder
	for _, r := range s.reminders {
		if r.Triggered || r.TriggerAt.After(now) {
			continue
		}
		r.Triggered = true
		due = append(due, *r)
	}
	s.mu.Unlock()

	slices.SortFunc(due, func(a, b domain.Reminder) int { return int(a.ID - b.ID) })
	for _, r := range due {
		s.log.WithField("reminder", r.ID).Info("reminder fired: %q", r.Message)
		s.alert.Alert(ctx, r)
		if err := s.notifier.Status(ctx, fmt.Sprintf("Reminder ready: %s", r.Message), domain.SeverityWarning); err != nil {
			s.log.Error("reminder: notifying: %v", err)
		}
	}
}
