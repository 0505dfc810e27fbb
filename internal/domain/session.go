package domain

import "time"

// SessionKind identifies one of the mutually exclusive audio sessions.
type SessionKind int

const (
	SessionMusic SessionKind = iota
	SessionClownEffect
	SessionPlaylist
)

// String returns a human-readable session kind.
func (k SessionKind) String() string {
	switch k {
	case SessionMusic:
		return "music"
	case SessionClownEffect:
		return "clown"
	case SessionPlaylist:
		return "playlist"
	default:
		return "unknown"
	}
}

// SessionState tracks the lifecycle of a media session.
type SessionState int

const (
	SessionIdle SessionState = iota
	SessionLoading
	SessionPlaying
)

// String returns a human-readable session state.
func (s SessionState) String() string {
	switch s {
	case SessionIdle:
		return "idle"
	case SessionLoading:
		return "loading"
	case SessionPlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// EndReason says why a session left the registry.
type EndReason int

const (
	EndFinished EndReason = iota // source reached its natural end
	EndFailed                    // load or playback error
	EndStopped                   // stopped by a command or superseded
)

// String returns a human-readable end reason.
func (r EndReason) String() string {
	switch r {
	case EndFinished:
		return "finished"
	case EndFailed:
		return "failed"
	case EndStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// SessionSnapshot is a read-only view of the active session.
type SessionSnapshot struct {
	ID        string
	Kind      SessionKind
	State     SessionState
	Source    string
	Volume    float64
	Muted     bool
	StartedAt time.Time
}
