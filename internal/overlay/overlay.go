// Package overlay provides terminal stand-ins for the visual
// collaborators: camera, video, background and the clown popup. They
// keep the same open/closed state a graphical front end would and log
// what they would draw.
package overlay

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/hammamikhairi/voicedeck/internal/domain"
	"github.com/hammamikhairi/voicedeck/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.Camera     = (*Camera)(nil)
	_ domain.Video      = (*Video)(nil)
	_ domain.Background = (*Background)(nil)
	_ domain.ClownImage = (*Clown)(nil)
)

// Camera tracks whether the camera overlay is open and hands out photo
// ids for captures.
type Camera struct {
	log *logger.Logger

	mu     sync.Mutex
	open   bool
	photos []string
}

// NewCamera creates a closed camera.
func NewCamera(log *logger.Logger) *Camera {
	return &Camera{log: log}
}

// Open shows the camera overlay. Opening an open camera is a no-op.
func (c *Camera) Open(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		c.open = true
		c.log.Debug("camera: opened")
	}
	return nil
}

// Close hides the camera overlay.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.open {
		c.open = false
		c.log.Debug("camera: closed")
	}
	return nil
}

// Capture takes a photo and returns its id. The camera must be open.
func (c *Camera) Capture(context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return "", domain.ErrNotOpen
	}
	id := uuid.NewString()
	c.photos = append(c.photos, id)
	c.log.Debug("camera: captured photo %s", id)
	return id, nil
}

// IsOpen reports whether the overlay is visible.
func (c *Camera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Photos returns the ids captured so far.
func (c *Camera) Photos() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.photos...)
}

// Video tracks the video overlay.
type Video struct {
	source string
	log    *logger.Logger

	mu       sync.Mutex
	open     bool
	restarts int
}

// NewVideo creates a hidden video overlay for source.
func NewVideo(source string, log *logger.Logger) *Video {
	return &Video{source: source, log: log}
}

// Play shows the overlay and starts the video from the beginning.
func (v *Video) Play(context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.open = true
	v.log.Debug("video: playing %s", v.source)
	return nil
}

// Stop hides the overlay. Stopping a hidden video is a no-op.
func (v *Video) Stop() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.open = false
	return nil
}

// Restart rewinds the video. The overlay must be open.
func (v *Video) Restart(context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.open {
		return domain.ErrNotOpen
	}
	v.restarts++
	v.log.Debug("video: restarted (%d)", v.restarts)
	return nil
}

// IsOpen reports whether the overlay is visible.
func (v *Video) IsOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.open
}

// Clown is the popup image shown while the clown effect plays.
type Clown struct {
	log *logger.Logger

	mu    sync.Mutex
	shown bool
}

// NewClown creates a hidden clown popup.
func NewClown(log *logger.Logger) *Clown {
	return &Clown{log: log}
}

func (c *Clown) Show() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shown = true
	c.log.Debug("clown: shown")
}

func (c *Clown) Hide() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shown = false
	c.log.Debug("clown: hidden")
}

// Shown reports whether the popup is visible.
func (c *Clown) Shown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shown
}
