package playlist

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/voicedeck/internal/domain"
	"github.com/hammamikhairi/voicedeck/internal/logger"
	"github.com/hammamikhairi/voicedeck/internal/media"
)

type track struct {
	mu     sync.Mutex
	source string
	onDone func(error)
	live   bool
}

func (t *track) Play(onDone func(error)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDone = onDone
	t.live = true
	return nil
}

func (t *track) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.live = false
}

func (t *track) SetVolume(float64) {}
func (t *track) SetMuted(bool)     {}

func (t *track) end(err error) {
	t.mu.Lock()
	fn := t.onDone
	t.mu.Unlock()
	fn(err)
}

type loader struct {
	mu     sync.Mutex
	fail   map[string]bool
	tracks []*track
}

func (l *loader) Load(_ context.Context, source string) (domain.Playable, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail[source] {
		return nil, errors.New("cannot fetch " + source)
	}
	t := &track{source: source}
	l.tracks = append(l.tracks, t)
	return t, nil
}

func (l *loader) current(source string) *track {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.tracks) - 1; i >= 0; i-- {
		if l.tracks[i].source == source {
			return l.tracks[i]
		}
	}
	return nil
}

func (l *loader) loaded() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.tracks))
	for i, t := range l.tracks {
		out[i] = t.source
	}
	return out
}

// mockNotifier collects status lines for testing.
type mockNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (m *mockNotifier) Status(_ context.Context, text string, _ domain.Severity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, text)
	return nil
}

func (m *mockNotifier) has(text string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Contains(m.messages, text)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

type fixture struct {
	engine   *Engine
	registry *media.Registry
	loader   *loader
	notifier *mockNotifier
}

func setup(t *testing.T, tracks ...string) *fixture {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	l := &loader{fail: map[string]bool{}}
	reg := media.New(l, log)
	n := &mockNotifier{}
	e := New(reg, n, log)
	for _, tr := range tracks {
		e.Add(tr)
	}
	return &fixture{engine: e, registry: reg, loader: l, notifier: n}
}

func (f *fixture) waitPlaying(t *testing.T, source string) *track {
	t.Helper()
	waitFor(t, source+" playing", func() bool {
		snap, ok := f.registry.Active()
		return ok && snap.Source == source && snap.State == domain.SessionPlaying
	})
	return f.loader.current(source)
}

func TestPlayEmptyPlaylist(t *testing.T) {
	f := setup(t)
	if err := f.engine.Play(context.Background()); !errors.Is(err, domain.ErrEmptyPlaylist) {
		t.Fatalf("expected ErrEmptyPlaylist, got %v", err)
	}
	if _, playing := f.engine.State(); playing {
		t.Error("empty playlist should not be playing")
	}
}

func TestAddRejectsDuplicates(t *testing.T) {
	f := setup(t)

	if !f.engine.Add("a.mp3") {
		t.Error("first add should succeed")
	}
	if f.engine.Add("a.mp3") {
		t.Error("duplicate add should be rejected")
	}
	if !f.engine.Add("b.mp3") {
		t.Error("second track should be added")
	}
	if got := f.engine.Tracks(); !slices.Equal(got, []string{"a.mp3", "b.mp3"}) {
		t.Errorf("tracks = %v", got)
	}
}

func TestPlayAdvancesThroughTracks(t *testing.T) {
	f := setup(t, "a.mp3", "b.mp3", "c.mp3")
	ctx := context.Background()

	if err := f.engine.Play(ctx); err != nil {
		t.Fatal(err)
	}

	a := f.waitPlaying(t, "a.mp3")
	waitFor(t, "first status", func() bool { return f.notifier.has("Playing song 1/3 from playlist") })

	a.end(nil)
	b := f.waitPlaying(t, "b.mp3")
	if idx, playing := f.engine.State(); idx != 1 || !playing {
		t.Errorf("state = (%d, %v), want (1, true)", idx, playing)
	}

	b.end(nil)
	c := f.waitPlaying(t, "c.mp3")
	waitFor(t, "third status", func() bool { return f.notifier.has("Playing song 3/3 from playlist") })

	c.end(nil)
	waitFor(t, "finish", func() bool { return f.notifier.has("Playlist finished!") })
	if idx, playing := f.engine.State(); idx != 0 || playing {
		t.Errorf("state after finish = (%d, %v), want (0, false)", idx, playing)
	}
	if _, ok := f.registry.Active(); ok {
		t.Error("registry should be idle after the playlist ends")
	}
}

func TestFailedTrackIsSkipped(t *testing.T) {
	f := setup(t, "a.mp3", "broken.mp3", "c.mp3")
	f.loader.fail["broken.mp3"] = true

	f.engine.Play(context.Background())
	f.waitPlaying(t, "a.mp3").end(nil)

	c := f.waitPlaying(t, "c.mp3")
	if idx, _ := f.engine.State(); idx != 2 {
		t.Errorf("cursor = %d, want 2", idx)
	}
	if !f.notifier.has("Couldn't play song 2/3, skipping") {
		t.Error("expected a skip warning")
	}

	c.end(nil)
	waitFor(t, "finish", func() bool { return f.notifier.has("Playlist finished!") })
	if idx, playing := f.engine.State(); idx != 0 || playing {
		t.Errorf("state after finish = (%d, %v), want (0, false)", idx, playing)
	}
	if got := f.loader.loaded(); !slices.Equal(got, []string{"a.mp3", "c.mp3"}) {
		t.Errorf("loaded tracks = %v, want each playable track once", got)
	}
}

func TestAllTracksFailing(t *testing.T) {
	f := setup(t, "x.mp3", "y.mp3")
	f.loader.fail["x.mp3"] = true
	f.loader.fail["y.mp3"] = true

	f.engine.Play(context.Background())

	waitFor(t, "finish", func() bool { return f.notifier.has("Playlist finished!") })
	if idx, playing := f.engine.State(); idx != 0 || playing {
		t.Errorf("state = (%d, %v), want (0, false)", idx, playing)
	}
}

func TestStopResetsAndIgnoresLateCompletion(t *testing.T) {
	f := setup(t, "a.mp3", "b.mp3")

	f.engine.Play(context.Background())
	a := f.waitPlaying(t, "a.mp3")

	if !f.engine.Stop() {
		t.Error("Stop should report the playlist was playing")
	}
	if idx, playing := f.engine.State(); idx != 0 || playing {
		t.Errorf("state = (%d, %v), want (0, false)", idx, playing)
	}

	a.end(nil)
	time.Sleep(20 * time.Millisecond)
	if _, ok := f.registry.Active(); ok {
		t.Error("late completion after Stop must not advance")
	}
	if f.engine.Stop() {
		t.Error("second Stop should report nothing was playing")
	}
}

func TestOtherSessionPreemptsPlaylist(t *testing.T) {
	f := setup(t, "a.mp3", "b.mp3")
	ctx := context.Background()

	f.engine.Play(ctx)
	f.waitPlaying(t, "a.mp3")

	if _, err := f.registry.Start(ctx, domain.SessionMusic, "song.mp3"); err != nil {
		t.Fatal(err)
	}
	f.waitPlaying(t, "song.mp3")

	if _, playing := f.engine.State(); playing {
		t.Error("playlist should stop when music takes over")
	}
}

func TestReplayRestartsFromFirstTrack(t *testing.T) {
	f := setup(t, "a.mp3", "b.mp3", "c.mp3")
	ctx := context.Background()

	f.engine.Play(ctx)
	f.waitPlaying(t, "a.mp3").end(nil)
	b := f.waitPlaying(t, "b.mp3")

	f.engine.Play(ctx)
	f.waitPlaying(t, "a.mp3")

	// The superseded track's completion belongs to the old run.
	b.end(nil)
	time.Sleep(20 * time.Millisecond)
	snap, _ := f.registry.Active()
	if snap.Source != "a.mp3" {
		t.Errorf("active = %q, want a.mp3", snap.Source)
	}
	if idx, _ := f.engine.State(); idx != 0 {
		t.Errorf("cursor = %d, want 0", idx)
	}
}

func TestCreateClearsAndStops(t *testing.T) {
	f := setup(t, "a.mp3")

	f.engine.Play(context.Background())
	f.waitPlaying(t, "a.mp3")

	f.engine.Create()
	if f.engine.Len() != 0 {
		t.Errorf("len = %d after create", f.engine.Len())
	}
	if _, ok := f.registry.Active(); ok {
		t.Error("create should stop the playing playlist")
	}
}
