// Package media owns the audio sessions. At most one of music, the
// clown effect or the playlist is loading or playing at any moment;
// starting one stops whichever other session is active.
package media

import (
	"context"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/voicedeck/internal/domain"
	"github.com/hammamikhairi/voicedeck/internal/logger"
)

// Option configures the registry.
type Option func(*Registry)

// WithDefaultVolume sets the volume new sessions start at.
func WithDefaultVolume(v float64) Option {
	return func(r *Registry) { r.defaultVolume = clamp(v) }
}

// WithLoadTimeout bounds how long a source may take to fetch and decode.
func WithLoadTimeout(d time.Duration) Option {
	return func(r *Registry) { r.loadTimeout = d }
}

// StartOption configures a single session.
type StartOption func(*session)

// OnStarted registers a callback run once the source is loaded and
// audible.
func OnStarted(fn func(domain.SessionSnapshot)) StartOption {
	return func(s *session) { s.onStarted = fn }
}

// OnEnded registers a callback run exactly once when the session leaves
// the registry, whatever the reason. err is set for EndFailed.
func OnEnded(fn func(snap domain.SessionSnapshot, reason domain.EndReason, err error)) StartOption {
	return func(s *session) { s.onEnded = fn }
}

type session struct {
	id        string
	kind      domain.SessionKind
	source    string
	state     domain.SessionState
	volume    float64
	startedAt time.Time
	playable  domain.Playable
	cancel    context.CancelFunc

	onStarted func(domain.SessionSnapshot)
	onEnded   func(domain.SessionSnapshot, domain.EndReason, error)
}

// Registry is the single owner of the active audio session. Every
// completion carries the id of the session it belongs to, and is
// dropped unless that session is still the active one.
type Registry struct {
	loader        domain.MediaLoader
	log           *logger.Logger
	defaultVolume float64
	loadTimeout   time.Duration

	mu     sync.Mutex
	active *session
	muted  bool
}

// New creates a registry that loads sources through loader.
func New(loader domain.MediaLoader, log *logger.Logger, opts ...Option) *Registry {
	r := &Registry{
		loader:        loader,
		log:           log,
		defaultVolume: 0.5,
		loadTimeout:   20 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start begins a session of the given kind. If a session of the same
// kind is already loading or playing, it is left alone and
// ErrAlreadyPlaying is returned. Any other active session is stopped
// first. Loading happens in the background; Start returns the new
// session id immediately.
func (r *Registry) Start(ctx context.Context, kind domain.SessionKind, source string, opts ...StartOption) (string, error) {
	r.mu.Lock()
	if r.active != nil && r.active.kind == kind {
		r.mu.Unlock()
		return "", domain.ErrAlreadyPlaying
	}

	prev := r.active
	s := &session{
		id:        uuid.NewString(),
		kind:      kind,
		source:    source,
		state:     domain.SessionLoading,
		volume:    r.defaultVolume,
		startedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	loadCtx, cancel := context.WithTimeout(ctx, r.loadTimeout)
	s.cancel = cancel
	r.active = s
	r.mu.Unlock()

	if prev != nil {
		r.log.Debug("media: %s session %s superseded by %s", prev.kind, prev.id, kind)
		r.finish(prev, domain.EndStopped, nil)
	}

	r.log.WithField("session", s.id).Info("media: loading %s from %s", kind, source)
	go r.load(loadCtx, s)
	return s.id, nil
}

func (r *Registry) load(ctx context.Context, s *session) {
	log := r.log.WithField("session", s.id)
	p, err := r.loader.Load(ctx, s.source)
	s.cancel()

	r.mu.Lock()
	if r.active != s {
		r.mu.Unlock()
		if p != nil {
			p.Stop()
		}
		log.Debug("media: discarding stale load of %s", s.source)
		return
	}

	if err != nil {
		r.active = nil
		snap := r.snapshotLocked(s)
		r.mu.Unlock()
		log.Warn("media: %s failed to load: %v", s.kind, err)
		r.ended(s, snap, domain.EndFailed, &domain.LoadError{Source: s.source, Err: err})
		return
	}

	s.playable = p
	p.SetVolume(s.volume)
	p.SetMuted(r.muted)
	if err := p.Play(func(err error) { r.complete(s, err) }); err != nil {
		r.active = nil
		snap := r.snapshotLocked(s)
		r.mu.Unlock()
		p.Stop()
		log.Warn("media: %s failed to start: %v", s.kind, err)
		r.ended(s, snap, domain.EndFailed, &domain.LoadError{Source: s.source, Err: err})
		return
	}
	s.state = domain.SessionPlaying
	snap := r.snapshotLocked(s)
	r.mu.Unlock()

	log.Info("media: %s playing (volume=%.0f%%, muted=%v)", s.kind, snap.Volume*100, snap.Muted)
	if s.onStarted != nil {
		s.onStarted(snap)
	}
}

// complete handles the end of playback reported by the source itself.
func (r *Registry) complete(s *session, err error) {
	r.mu.Lock()
	if r.active != s {
		r.mu.Unlock()
		r.log.Debug("media: ignoring completion of stale session %s", s.id)
		return
	}
	r.active = nil
	snap := r.snapshotLocked(s)
	r.mu.Unlock()

	s.playable.Stop()
	reason := domain.EndFinished
	if err != nil {
		reason = domain.EndFailed
		r.log.WithField("session", s.id).Warn("media: %s playback error: %v", s.kind, err)
	} else {
		r.log.WithField("session", s.id).Info("media: %s finished", s.kind)
	}
	r.ended(s, snap, reason, err)
}

// Stop ends the session of the given kind, if it is the active one.
// Reports whether anything was stopped.
func (r *Registry) Stop(kind domain.SessionKind) bool {
	return r.StopAny(kind)
}

// StopAny ends the active session if its kind is one of kinds.
func (r *Registry) StopAny(kinds ...domain.SessionKind) bool {
	r.mu.Lock()
	s := r.active
	if s == nil || !slices.Contains(kinds, s.kind) {
		r.mu.Unlock()
		return false
	}
	r.active = nil
	r.mu.Unlock()

	r.finish(s, domain.EndStopped, nil)
	return true
}

// StopAll ends whatever session is active. Reports whether anything
// was stopped.
func (r *Registry) StopAll() bool {
	r.mu.Lock()
	s := r.active
	r.active = nil
	r.mu.Unlock()

	if s == nil {
		return false
	}
	r.finish(s, domain.EndStopped, nil)
	return true
}

// finish releases a session that has already been detached.
func (r *Registry) finish(s *session, reason domain.EndReason, err error) {
	if s.cancel != nil {
		s.cancel()
	}
	if s.playable != nil {
		s.playable.Stop()
	}
	r.mu.Lock()
	snap := r.snapshotLocked(s)
	r.mu.Unlock()

	r.log.WithField("session", s.id).Debug("media: %s %s", s.kind, reason)
	r.ended(s, snap, reason, err)
}

func (r *Registry) ended(s *session, snap domain.SessionSnapshot, reason domain.EndReason, err error) {
	snap.State = domain.SessionIdle
	if s.onEnded != nil {
		s.onEnded(snap, reason, err)
	}
}

// IsActive reports whether a session of kind is loading or playing.
func (r *Registry) IsActive(kind domain.SessionKind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active != nil && r.active.kind == kind
}

// IsPlaying reports whether a session of kind is audible.
func (r *Registry) IsPlaying(kind domain.SessionKind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active != nil && r.active.kind == kind && r.active.state == domain.SessionPlaying
}

// Active returns the current session, if any.
func (r *Registry) Active() (domain.SessionSnapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return domain.SessionSnapshot{}, false
	}
	return r.snapshotLocked(r.active), true
}

// CurrentSource returns the source of the active music or playlist
// session. The clown effect is not a song and never counts.
func (r *Registry) CurrentSource() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil || r.active.kind == domain.SessionClownEffect {
		return "", false
	}
	return r.active.source, true
}

// AdjustVolume changes the active session's volume by delta, clamped
// to [0, 1], and returns the new value. Returns ErrNothingPlaying when
// no session is active.
func (r *Registry) AdjustVolume(delta float64) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.active
	if s == nil {
		return 0, domain.ErrNothingPlaying
	}
	s.volume = clamp(s.volume + delta)
	if s.playable != nil {
		s.playable.SetVolume(s.volume)
	}
	r.log.WithField("session", s.id).Debug("media: volume %.2f", s.volume)
	return s.volume, nil
}

// SetMuted sets the master mute flag. It applies to the active session
// and to every session started later. Reports whether a session was
// active to apply it to.
func (r *Registry) SetMuted(muted bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.muted = muted
	if r.active == nil {
		return false
	}
	if r.active.playable != nil {
		r.active.playable.SetMuted(muted)
	}
	return true
}

// Muted reports the master mute flag.
func (r *Registry) Muted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.muted
}

func (r *Registry) snapshotLocked(s *session) domain.SessionSnapshot {
	return domain.SessionSnapshot{
		ID:        s.id,
		Kind:      s.kind,
		State:     s.state,
		Source:    s.source,
		Volume:    s.volume,
		Muted:     r.muted,
		StartedAt: s.startedAt,
	}
}

// clamp bounds v to [0, 1] and rounds to two decimals so repeated
// steps of 0.1 land on exact percentages.
func clamp(v float64) float64 {
	v = math.Round(v*100) / 100
	return math.Max(0, math.Min(1, v))
}
