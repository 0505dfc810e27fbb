package overlay

import (
	"context"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/voicedeck/internal/logger"
)

// Swatch is a named backdrop color.
type Swatch struct {
	Name  string
	Color lipgloss.Color
}

// DefaultPalette is the backdrop rotation.
var DefaultPalette = []Swatch{
	{"midnight", lipgloss.Color("#1e1e2e")},
	{"coral", lipgloss.Color("#ff7f50")},
	{"teal", lipgloss.Color("#008080")},
	{"violet", lipgloss.Color("#8a2be2")},
	{"gold", lipgloss.Color("#ffd700")},
	{"forest", lipgloss.Color("#228b22")},
}

// Background cycles through a palette of backdrop colors.
type Background struct {
	palette []Swatch
	log     *logger.Logger

	mu    sync.Mutex
	index int
}

// NewBackground creates a backdrop starting at the first swatch.
// An empty palette falls back to DefaultPalette.
func NewBackground(palette []Swatch, log *logger.Logger) *Background {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &Background{palette: palette, log: log}
}

// Change advances to the next color and returns its name.
func (b *Background) Change(context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.index = (b.index + 1) % len(b.palette)
	s := b.palette[b.index]
	b.log.Debug("background: %s (%s)", s.Name, s.Color)
	return s.Name, nil
}

// Current returns the active swatch.
func (b *Background) Current() Swatch {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.palette[b.index]
}
