// Package engine is the command interpreter: it classifies utterances
// and dispatches each intent to exactly one subsystem.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/hammamikhairi/voicedeck/internal/conversation"
	"github.com/hammamikhairi/voicedeck/internal/domain"
	"github.com/hammamikhairi/voicedeck/internal/logger"
	"github.com/hammamikhairi/voicedeck/internal/media"
)

// Sessions is the part of the media registry the interpreter uses.
type Sessions interface {
	Start(ctx context.Context, kind domain.SessionKind, source string, opts ...media.StartOption) (string, error)
	Stop(kind domain.SessionKind) bool
	StopAny(kinds ...domain.SessionKind) bool
	IsActive(kind domain.SessionKind) bool
	CurrentSource() (string, bool)
	AdjustVolume(delta float64) (float64, error)
	SetMuted(muted bool) bool
}

// Reminders is the part of the reminder scheduler the interpreter uses.
type Reminders interface {
	Set(message string, delay time.Duration) domain.Reminder
	CancelAll() domain.ReminderCounts
}

// Playlist is the part of the playlist engine the interpreter uses.
type Playlist interface {
	Create()
	Add(track string) bool
	Len() int
	Play(ctx context.Context) error
}

// Collaborators are the visual side effects. Nil fields are replaced
// with no-ops.
type Collaborators struct {
	Camera     domain.Camera
	Video      domain.Video
	Background domain.Background
	Clown      domain.ClownImage
}

func (c Collaborators) withDefaults() Collaborators {
	if c.Camera == nil {
		c.Camera = domain.NoopCamera{}
	}
	if c.Video == nil {
		c.Video = domain.NoopVideo{}
	}
	if c.Background == nil {
		c.Background = domain.NoopBackground{}
	}
	if c.Clown == nil {
		c.Clown = domain.NoopClown{}
	}
	return c
}

// Option configures the engine.
type Option func(*Engine)

// WithMusicSource sets the track "play music" starts.
func WithMusicSource(src string) Option {
	return func(e *Engine) { e.musicSource = src }
}

// WithClownSource sets the clown effect audio.
func WithClownSource(src string) Option {
	return func(e *Engine) { e.clownSource = src }
}

// WithVolumeStep sets how much "volume up/down" changes the volume.
func WithVolumeStep(step float64) Option {
	return func(e *Engine) { e.volumeStep = step }
}

// WithHeardHook is called with every utterance before it is handled.
func WithHeardHook(fn func(utterance string)) Option {
	return func(e *Engine) { e.onHeard = fn }
}

// Engine interprets utterances. It never blocks on media I/O: session
// starts return immediately and report progress through callbacks.
type Engine struct {
	parser    domain.IntentParser
	sessions  Sessions
	reminders Reminders
	playlist  Playlist
	overlay   Collaborators
	notifier  domain.Notifier
	tones     domain.ToneNotifier
	log       *logger.Logger

	musicSource string
	clownSource string
	volumeStep  float64
	onHeard     func(string)
}

// New creates an interpreter with the given dependencies and options.
func New(
	parser domain.IntentParser,
	sessions Sessions,
	reminders Reminders,
	playlist Playlist,
	overlay Collaborators,
	notifier domain.Notifier,
	tones domain.ToneNotifier,
	log *logger.Logger,
	opts ...Option,
) *Engine {
	if tones == nil {
		tones = domain.NoopTones{}
	}
	e := &Engine{
		parser:      parser,
		sessions:    sessions,
		reminders:   reminders,
		playlist:    playlist,
		overlay:     overlay.withDefaults(),
		notifier:    notifier,
		tones:       tones,
		log:         log,
		musicSource: "viper.mp3",
		clownSource: "clown.mp3",
		volumeStep:  0.1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Interpret classifies an utterance without acting on it.
func (e *Engine) Interpret(utterance string) domain.Intent {
	return e.parser.Parse(utterance)
}

// Handle interprets and dispatches one utterance.
func (e *Engine) Handle(ctx context.Context, utterance string) domain.Intent {
	if e.onHeard != nil {
		e.onHeard(utterance)
	}
	intent := e.Interpret(utterance)
	e.log.Info("engine: %q -> %s", intent.Utterance, intent.Type)
	e.Dispatch(ctx, intent)
	return intent
}

// Run handles utterances in arrival order until ctx is cancelled or
// the channel is closed.
func (e *Engine) Run(ctx context.Context, utterances <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-utterances:
			if !ok {
				return
			}
			e.Handle(ctx, u)
		}
	}
}

// Dispatch performs the action for intent.
func (e *Engine) Dispatch(ctx context.Context, intent domain.Intent) {
	switch intent.Type {
	case domain.IntentPlayMusic:
		e.startSession(ctx, domain.SessionMusic, e.musicSource, nil)
	case domain.IntentStopMusic:
		e.stopMusic(ctx)
	case domain.IntentBringClownEffect:
		e.startSession(ctx, domain.SessionClownEffect, e.clownSource, e.overlay.Clown.Show)
	case domain.IntentStopClownEffect:
		e.stopClown(ctx)
	case domain.IntentVolumeUp:
		e.adjustVolume(ctx, e.volumeStep)
	case domain.IntentVolumeDown:
		e.adjustVolume(ctx, -e.volumeStep)
	case domain.IntentMute:
		e.setMuted(ctx, true)
	case domain.IntentUnmute:
		e.setMuted(ctx, false)
	case domain.IntentChangeBackground:
		e.changeBackground(ctx)
	case domain.IntentPlayVideo:
		e.playVideo(ctx)
	case domain.IntentStopVideo:
		e.stopVideo(ctx)
	case domain.IntentRestartVideo:
		e.restartVideo(ctx)
	case domain.IntentOpenCamera:
		e.openCamera(ctx)
	case domain.IntentCloseCamera:
		e.closeCamera(ctx)
	case domain.IntentTakePhoto:
		e.takePhoto(ctx)
	case domain.IntentSetReminder:
		e.setReminder(ctx, intent)
	case domain.IntentStopReminder:
		e.stopReminders(ctx)
	case domain.IntentCreatePlaylist:
		e.createPlaylist(ctx)
	case domain.IntentAddToPlaylist:
		e.addToPlaylist(ctx)
	case domain.IntentPlayPlaylist:
		e.playPlaylist(ctx)
	default:
		e.status(ctx, lineHelp(), domain.SeverityWarning)
	}
}

// ── Sessions ─────────────────────────────────────────────────────

// startSession starts music or the clown effect. onStarted, if set,
// runs once the audio is playing.
func (e *Engine) startSession(ctx context.Context, kind domain.SessionKind, source string, onStarted func()) {
	if e.sessions.IsActive(kind) {
		e.status(ctx, lineAlreadyPlaying(kind), domain.SeverityInfo)
		return
	}
	e.status(ctx, lineLoading(kind), domain.SeverityInfo)

	_, err := e.sessions.Start(ctx, kind, source,
		media.OnStarted(func(domain.SessionSnapshot) {
			if onStarted != nil {
				onStarted()
			}
			e.status(ctx, linePlaying(kind), domain.SeveritySuccess)
			e.tones.PlayTone(domain.ToneSuccess)
		}),
		media.OnEnded(func(_ domain.SessionSnapshot, reason domain.EndReason, err error) {
			e.sessionEnded(ctx, kind, reason, err)
		}),
	)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyPlaying) {
			e.status(ctx, lineAlreadyPlaying(kind), domain.SeverityInfo)
			return
		}
		e.log.Error("engine: starting %s: %v", kind, err)
		e.status(ctx, lineLoadFailed(kind), domain.SeverityError)
		e.tones.PlayTone(domain.ToneError)
	}
}

func (e *Engine) sessionEnded(ctx context.Context, kind domain.SessionKind, reason domain.EndReason, err error) {
	if kind == domain.SessionClownEffect {
		e.overlay.Clown.Hide()
	}
	switch reason {
	case domain.EndFinished:
		e.status(ctx, lineFinished(kind), domain.SeverityInfo)
	case domain.EndFailed:
		e.log.Warn("engine: %s failed: %v", kind, err)
		e.status(ctx, lineLoadFailed(kind), domain.SeverityError)
		e.tones.PlayTone(domain.ToneError)
	}
}

func (e *Engine) stopMusic(ctx context.Context) {
	// The playlist resets itself when its track session ends.
	if !e.sessions.StopAny(domain.SessionMusic, domain.SessionPlaylist) {
		e.log.Debug("engine: stop music with nothing playing")
		return
	}
	e.status(ctx, lineMusicStopped(), domain.SeverityInfo)
	e.tones.PlayTone(domain.ToneSuccess)
}

func (e *Engine) stopClown(ctx context.Context) {
	if !e.sessions.Stop(domain.SessionClownEffect) {
		e.log.Debug("engine: stop clown with no clown")
		return
	}
	e.status(ctx, lineClownStopped(), domain.SeverityInfo)
	e.tones.PlayTone(domain.ToneSuccess)
}

func (e *Engine) adjustVolume(ctx context.Context, delta float64) {
	v, err := e.sessions.AdjustVolume(delta)
	if err != nil {
		e.status(ctx, lineNothingToAdjust(), domain.SeverityWarning)
		return
	}
	e.status(ctx, lineVolume(v), domain.SeveritySuccess)
	e.tones.PlayTone(domain.ToneSuccess)
}

func (e *Engine) setMuted(ctx context.Context, muted bool) {
	applied := e.sessions.SetMuted(muted)
	if muted {
		e.status(ctx, lineMuted(applied), domain.SeverityInfo)
	} else {
		e.status(ctx, lineUnmuted(applied), domain.SeveritySuccess)
	}
	e.tones.PlayTone(domain.ToneSuccess)
}

// ── Overlays ─────────────────────────────────────────────────────

func (e *Engine) changeBackground(ctx context.Context) {
	name, err := e.overlay.Background.Change(ctx)
	if err != nil {
		e.log.Error("engine: changing background: %v", err)
		e.status(ctx, lineBackgroundFailed(), domain.SeverityError)
		e.tones.PlayTone(domain.ToneError)
		return
	}
	e.status(ctx, lineBackground(name), domain.SeverityInfo)
	e.tones.PlayTone(domain.ToneSuccess)
}

func (e *Engine) playVideo(ctx context.Context) {
	if err := e.overlay.Video.Play(ctx); err != nil {
		e.log.Error("engine: playing video: %v", err)
		e.status(ctx, lineVideoFailed(), domain.SeverityError)
		e.tones.PlayTone(domain.ToneError)
		return
	}
	e.status(ctx, lineVideoPlaying(), domain.SeveritySuccess)
	e.tones.PlayTone(domain.ToneSuccess)
}

func (e *Engine) stopVideo(ctx context.Context) {
	if err := e.overlay.Video.Stop(); err != nil {
		e.log.Error("engine: stopping video: %v", err)
	}
	e.status(ctx, lineVideoClosed(), domain.SeverityInfo)
	e.tones.PlayTone(domain.ToneSuccess)
}

func (e *Engine) restartVideo(ctx context.Context) {
	if err := e.overlay.Video.Restart(ctx); err != nil {
		e.status(ctx, lineNoVideo(), domain.SeverityWarning)
		e.tones.PlayTone(domain.ToneError)
		return
	}
	e.status(ctx, lineVideoRestarted(), domain.SeveritySuccess)
	e.tones.PlayTone(domain.ToneSuccess)
}

func (e *Engine) openCamera(ctx context.Context) {
	if err := e.overlay.Camera.Open(ctx); err != nil {
		e.log.Warn("engine: opening camera: %v", err)
		e.status(ctx, lineCameraDenied(), domain.SeverityError)
		e.tones.PlayTone(domain.ToneError)
		return
	}
	e.status(ctx, lineCameraOpen(), domain.SeveritySuccess)
	e.tones.PlayTone(domain.ToneSuccess)
}

func (e *Engine) closeCamera(ctx context.Context) {
	if err := e.overlay.Camera.Close(); err != nil {
		e.log.Error("engine: closing camera: %v", err)
	}
	e.status(ctx, lineCameraClosed(), domain.SeverityInfo)
	e.tones.PlayTone(domain.ToneSuccess)
}

func (e *Engine) takePhoto(ctx context.Context) {
	id, err := e.overlay.Camera.Capture(ctx)
	switch {
	case errors.Is(err, domain.ErrNotOpen):
		e.status(ctx, lineOpenCameraFirst(), domain.SeverityWarning)
		e.tones.PlayTone(domain.ToneError)
	case err != nil:
		e.log.Error("engine: taking photo: %v", err)
		e.status(ctx, linePhotoFailed(), domain.SeverityError)
		e.tones.PlayTone(domain.ToneError)
	default:
		e.status(ctx, linePhotoSaved(id), domain.SeveritySuccess)
		e.tones.PlayTone(domain.ToneSuccess)
	}
}

// ── Reminders ────────────────────────────────────────────────────

func (e *Engine) setReminder(ctx context.Context, intent domain.Intent) {
	text := intent.Payload
	if text == "" {
		text = intent.Utterance
	}
	message, delay, err := conversation.ParseReminder(text)
	if err != nil {
		e.log.Debug("engine: %v", err)
		e.status(ctx, conversation.ReminderHelp, domain.SeverityWarning)
		return
	}
	r := e.reminders.Set(message, delay)
	e.log.WithField("reminder", r.ID).Info("engine: reminder set for %s", delay)
	e.status(ctx, lineReminderSet(message, conversation.FormatDelay(delay)), domain.SeveritySuccess)
	e.tones.PlayTone(domain.ToneSuccess)
}

func (e *Engine) stopReminders(ctx context.Context) {
	counts := e.reminders.CancelAll()
	if counts.Total == 0 {
		e.status(ctx, lineRemindersStopped(counts), domain.SeverityInfo)
		return
	}
	e.status(ctx, lineRemindersStopped(counts), domain.SeveritySuccess)
	e.tones.PlayTone(domain.ToneSuccess)
}

// ── Playlist ─────────────────────────────────────────────────────

func (e *Engine) createPlaylist(ctx context.Context) {
	e.playlist.Create()
	e.status(ctx, linePlaylistCreated(), domain.SeveritySuccess)
	e.tones.PlayTone(domain.ToneSuccess)
}

// addToPlaylist adds whatever song is playing, or the default track
// when nothing is.
func (e *Engine) addToPlaylist(ctx context.Context) {
	track, ok := e.sessions.CurrentSource()
	if !ok {
		track = e.musicSource
	}
	if !e.playlist.Add(track) {
		e.status(ctx, lineAlreadyInPlaylist(), domain.SeverityWarning)
		return
	}
	e.status(ctx, lineAddedToPlaylist(e.playlist.Len()), domain.SeveritySuccess)
	e.tones.PlayTone(domain.ToneSuccess)
}

func (e *Engine) playPlaylist(ctx context.Context) {
	if err := e.playlist.Play(ctx); err != nil {
		if errors.Is(err, domain.ErrEmptyPlaylist) {
			e.status(ctx, linePlaylistEmpty(), domain.SeverityWarning)
			e.tones.PlayTone(domain.ToneError)
			return
		}
		e.log.Error("engine: playing playlist: %v", err)
		e.tones.PlayTone(domain.ToneError)
		return
	}
	e.tones.PlayTone(domain.ToneStart)
}

func (e *Engine) status(ctx context.Context, text string, sev domain.Severity) {
	if err := e.notifier.Status(ctx, text, sev); err != nil {
		e.log.Error("engine: notifying: %v", err)
	}
}
