package domain

import "context"

// Silent tone and alert implementations, used when no audio device is
// available.
type (
	NoopTones struct{}
	NoopAlert struct{}
)

func (NoopTones) PlayTone(ToneKind)               {}
func (NoopAlert) Alert(context.Context, Reminder) {}

// NoopCamera reports every operation as successful and never opens.
type NoopCamera struct{}

func (NoopCamera) Open(context.Context) error              { return nil }
func (NoopCamera) Close() error                            { return nil }
func (NoopCamera) Capture(context.Context) (string, error) { return "", ErrNotOpen }
func (NoopCamera) IsOpen() bool                            { return false }

// NoopVideo ignores every request.
type NoopVideo struct{}

func (NoopVideo) Play(context.Context) error    { return nil }
func (NoopVideo) Stop() error                   { return nil }
func (NoopVideo) Restart(context.Context) error { return nil }

// NoopBackground keeps the backdrop unchanged.
type NoopBackground struct{}

func (NoopBackground) Change(context.Context) (string, error) { return "default", nil }

// NoopClown never shows anything.
type NoopClown struct{}

func (NoopClown) Show() {}
func (NoopClown) Hide() {}

var (
	_ ToneNotifier  = NoopTones{}
	_ ReminderAlert = NoopAlert{}
	_ Camera        = NoopCamera{}
	_ Video         = NoopVideo{}
	_ Background    = NoopBackground{}
	_ ClownImage    = NoopClown{}
)
