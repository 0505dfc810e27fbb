// Package playlist keeps a single ordered list of tracks and plays it
// through the media registry, advancing on each track's end.
package playlist

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/lo"

	"github.com/hammamikhairi/voicedeck/internal/domain"
	"github.com/hammamikhairi/voicedeck/internal/logger"
	"github.com/hammamikhairi/voicedeck/internal/media"
)

// Sessions is the part of the media registry the playlist drives.
type Sessions interface {
	Start(ctx context.Context, kind domain.SessionKind, source string, opts ...media.StartOption) (string, error)
	Stop(kind domain.SessionKind) bool
	StopAll() bool
}

// Engine plays the playlist. Each Play or Stop bumps a run counter;
// track callbacks carry the run they were started under and do nothing
// once it is outdated.
type Engine struct {
	sessions Sessions
	notifier domain.Notifier
	log      *logger.Logger

	mu      sync.Mutex
	tracks  []string
	index   int
	playing bool
	run     uint64
}

// New creates a playlist engine.
func New(sessions Sessions, notifier domain.Notifier, log *logger.Logger) *Engine {
	return &Engine{sessions: sessions, notifier: notifier, log: log}
}

// Create empties the playlist, stopping it if it was playing.
func (e *Engine) Create() {
	e.mu.Lock()
	wasPlaying := e.playing
	e.tracks = nil
	e.resetLocked()
	e.mu.Unlock()

	if wasPlaying {
		e.sessions.Stop(domain.SessionPlaylist)
	}
	e.log.Info("playlist: created")
}

// Add appends a track. Returns false if it is already in the playlist.
func (e *Engine) Add(track string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if lo.Contains(e.tracks, track) {
		return false
	}
	e.tracks = append(e.tracks, track)
	e.log.WithField("track", track).Info("playlist: added (%d tracks)", len(e.tracks))
	return true
}

// Len returns the number of tracks.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.tracks)
}

// Tracks returns a copy of the track list.
func (e *Engine) Tracks() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.tracks...)
}

// State returns the cursor and whether the playlist is playing.
func (e *Engine) State() (index int, playing bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index, e.playing
}

// Play starts the playlist from the first track, stopping any other
// session. Returns ErrEmptyPlaylist if there is nothing to play.
func (e *Engine) Play(ctx context.Context) error {
	e.mu.Lock()
	if len(e.tracks) == 0 {
		e.mu.Unlock()
		return domain.ErrEmptyPlaylist
	}
	e.run++
	run := e.run
	e.index = 0
	e.playing = true
	n := len(e.tracks)
	e.mu.Unlock()

	e.sessions.StopAll()
	e.log.Info("playlist: playing %d tracks", n)
	e.startTrack(ctx, run, 0)
	return nil
}

// Stop halts playback and resets the cursor. Reports whether the
// playlist was playing.
func (e *Engine) Stop() bool {
	e.mu.Lock()
	wasPlaying := e.playing
	e.resetLocked()
	e.mu.Unlock()

	// The registry callback runs synchronously from here, so the lock
	// must be released first.
	e.sessions.Stop(domain.SessionPlaylist)
	return wasPlaying
}

func (e *Engine) resetLocked() {
	e.run++
	e.index = 0
	e.playing = false
}

func (e *Engine) startTrack(ctx context.Context, run uint64, i int) {
	e.mu.Lock()
	if e.run != run || !e.playing || i >= len(e.tracks) {
		e.mu.Unlock()
		return
	}
	track := e.tracks[i]
	e.mu.Unlock()

	_, err := e.sessions.Start(ctx, domain.SessionPlaylist, track,
		media.OnStarted(func(domain.SessionSnapshot) {
			e.trackStarted(ctx, run, i)
		}),
		media.OnEnded(func(_ domain.SessionSnapshot, reason domain.EndReason, err error) {
			e.trackEnded(ctx, run, i, reason, err)
		}),
	)
	if err != nil {
		e.log.Error("playlist: starting track %d: %v", i+1, err)
		e.mu.Lock()
		if e.run == run {
			e.resetLocked()
		}
		e.mu.Unlock()
	}
}

func (e *Engine) trackStarted(ctx context.Context, run uint64, i int) {
	e.mu.Lock()
	if e.run != run {
		e.mu.Unlock()
		return
	}
	n := len(e.tracks)
	e.mu.Unlock()

	e.status(ctx, fmt.Sprintf("Playing song %d/%d from playlist", i+1, n), domain.SeverityInfo)
}

// trackEnded advances on a natural end or a failure, and resets when
// something else stopped the track.
func (e *Engine) trackEnded(ctx context.Context, run uint64, i int, reason domain.EndReason, err error) {
	e.mu.Lock()
	if e.run != run {
		e.mu.Unlock()
		return
	}

	if reason == domain.EndStopped {
		e.resetLocked()
		e.mu.Unlock()
		e.log.Debug("playlist: track %d stopped externally", i+1)
		return
	}

	n := len(e.tracks)
	next := i + 1
	if next >= n {
		e.resetLocked()
		e.mu.Unlock()
		if err != nil {
			e.log.Warn("playlist: last track %d failed: %v", i+1, err)
		}
		e.log.Info("playlist: finished")
		e.status(ctx, "Playlist finished!", domain.SeveritySuccess)
		return
	}
	e.index = next
	e.mu.Unlock()

	if err != nil {
		e.log.Warn("playlist: track %d failed, skipping: %v", i+1, err)
		e.status(ctx, fmt.Sprintf("Couldn't play song %d/%d, skipping", i+1, n), domain.SeverityWarning)
	}
	e.startTrack(ctx, run, next)
}

func (e *Engine) status(ctx context.Context, text string, sev domain.Severity) {
	if err := e.notifier.Status(ctx, text, sev); err != nil {
		e.log.Error("playlist: notifying: %v", err)
	}
}
