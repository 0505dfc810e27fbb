package speech

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/voicedeck/internal/domain"
	"github.com/hammamikhairi/voicedeck/internal/logger"
)

// Compile-time interface check.
var _ domain.MediaLoader = (*SilentLoader)(nil)

// SilentLoader stands in for the media player when audio is disabled.
// Sessions behave normally; each "track" lasts for length, or forever
// when length is zero.
type SilentLoader struct {
	length time.Duration
	log    *logger.Logger
}

// NewSilentLoader creates a silent loader.
func NewSilentLoader(length time.Duration, log *logger.Logger) *SilentLoader {
	return &SilentLoader{length: length, log: log}
}

// Load returns a silent track for source without touching it.
func (l *SilentLoader) Load(_ context.Context, source string) (domain.Playable, error) {
	l.log.Debug("silent loader: would play %q", source)
	return &silentTrack{length: l.length}, nil
}

type silentTrack struct {
	length time.Duration

	mu    sync.Mutex
	timer *time.Timer
	done  bool
}

func (t *silentTrack) Play(onDone func(error)) error {
	if t.length <= 0 {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timer = time.AfterFunc(t.length, func() {
		t.mu.Lock()
		stopped := t.done
		t.done = true
		t.mu.Unlock()
		if !stopped && onDone != nil {
			onDone(nil)
		}
	})
	return nil
}

func (t *silentTrack) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done = true
	if t.timer != nil {
		t.timer.Stop()
	}
}

func (t *silentTrack) SetVolume(float64) {}
func (t *silentTrack) SetMuted(bool)     {}
