package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across layers.
var (
	ErrPermission       = errors.New("permission denied")
	ErrLoad             = errors.New("media failed to load")
	ErrAlreadyPlaying   = errors.New("already playing")
	ErrEmptyPlaylist    = errors.New("playlist is empty")
	ErrMalformedCommand = errors.New("malformed command")
	ErrNothingPlaying   = errors.New("nothing is playing")
	ErrNotOpen          = errors.New("not open")
	ErrNotFound         = errors.New("not found")
)

// LoadError reports a media source that could not be fetched or decoded.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrLoad) true for every LoadError.
func (e *LoadError) Is(target error) bool { return target == ErrLoad }
