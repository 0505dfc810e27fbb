package domain

import "context"

// Severity grades a status message.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// ToneKind selects a short confirmation beep.
type ToneKind int

const (
	ToneSuccess ToneKind = iota
	ToneError
	ToneStart
)

// String returns a human-readable tone kind.
func (t ToneKind) String() string {
	switch t {
	case ToneSuccess:
		return "success"
	case ToneError:
		return "error"
	case ToneStart:
		return "start"
	default:
		return "unknown"
	}
}

// IntentParser classifies a normalized utterance. Classification is
// total: input that matches nothing yields IntentUnrecognized.
type IntentParser interface {
	Parse(utterance string) Intent
}

// Notifier delivers status messages to the user. Implementations can
// write to a terminal UI, stdout, or a log.
type Notifier interface {
	Status(ctx context.Context, text string, severity Severity) error
}

// ToneNotifier plays a short confirmation tone. Best effort; it never
// blocks the caller for the length of the tone.
type ToneNotifier interface {
	PlayTone(kind ToneKind)
}

// Playable is a loaded media source ready to be played once.
type Playable interface {
	// Play starts playback. onDone is called exactly once when playback
	// ends by itself: nil at the natural end, non-nil on a playback error.
	// It is not called after Stop.
	Play(onDone func(error)) error
	// Stop halts playback and releases the source. Safe to call twice.
	Stop()
	SetVolume(v float64)
	SetMuted(muted bool)
}

// MediaLoader fetches and decodes a media source (URL or file path).
type MediaLoader interface {
	Load(ctx context.Context, source string) (Playable, error)
}

// ReminderAlert is played when a reminder fires.
type ReminderAlert interface {
	Alert(ctx context.Context, r Reminder)
}

// Camera is the camera overlay collaborator.
type Camera interface {
	Open(ctx context.Context) error
	Close() error
	Capture(ctx context.Context) (string, error)
	IsOpen() bool
}

// Video is the video overlay collaborator.
type Video interface {
	Play(ctx context.Context) error
	Stop() error
	Restart(ctx context.Context) error
}

// Background changes the scene backdrop and returns its new name.
type Background interface {
	Change(ctx context.Context) (string, error)
}

// ClownImage shows the clown popup while the clown effect plays.
type ClownImage interface {
	Show()
	Hide()
}

// Transcriber produces finalized utterances from speech.
type Transcriber interface {
	C() <-chan string
	Run(ctx context.Context)
}
