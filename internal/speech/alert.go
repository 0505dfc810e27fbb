package speech

import (
	"context"
	"time"

	"github.com/hammamikhairi/voicedeck/internal/domain"
	"github.com/hammamikhairi/voicedeck/internal/logger"
)

// Compile-time interface check.
var _ domain.ReminderAlert = (*AlertSound)(nil)

// MuteState reports the master mute flag.
type MuteState interface {
	Muted() bool
}

// AlertSound plays the reminder sound: a configured source at a fixed
// volume, or a short beep pattern when no source is set or it fails to
// load. Nothing plays while muted.
type AlertSound struct {
	loader domain.MediaLoader
	tones  domain.ToneNotifier
	mute   MuteState
	source string
	volume float64
	gap    time.Duration
	log    *logger.Logger
}

// NewAlertSound creates a reminder alert. source may be empty.
func NewAlertSound(loader domain.MediaLoader, tones domain.ToneNotifier, mute MuteState, source string, volume float64, log *logger.Logger) *AlertSound {
	return &AlertSound{
		loader: loader,
		tones:  tones,
		mute:   mute,
		source: source,
		volume: volume,
		gap:    200 * time.Millisecond,
		log:    log,
	}
}

// Alert plays the sound in the background.
func (a *AlertSound) Alert(ctx context.Context, r domain.Reminder) {
	if a.mute != nil && a.mute.Muted() {
		a.log.WithField("reminder", r.ID).Debug("alert: muted, skipping sound")
		return
	}
	go a.play(ctx, r)
}

func (a *AlertSound) play(ctx context.Context, r domain.Reminder) {
	log := a.log.WithField("reminder", r.ID)
	if a.source != "" && a.loader != nil {
		p, err := a.loader.Load(ctx, a.source)
		if err == nil {
			p.SetVolume(a.volume)
			if err = p.Play(func(error) { p.Stop() }); err == nil {
				return
			}
			p.Stop()
		}
		log.Warn("alert: %s unavailable, using beeps: %v", a.source, err)
	}
	a.beeps(ctx)
}

func (a *AlertSound) beeps(ctx context.Context) {
	for i := 0; i < 3; i++ {
		if i > 0 {
			select {
			case <-time.After(a.gap):
			case <-ctx.Done():
				return
			}
		}
		a.tones.PlayTone(domain.ToneStart)
	}
}
