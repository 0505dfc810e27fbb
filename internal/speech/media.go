package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"

	"github.com/hammamikhairi/voicedeck/internal/domain"
	"github.com/hammamikhairi/voicedeck/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.MediaLoader = (*MediaPlayer)(nil)
	_ domain.Playable    = (*track)(nil)
)

// errUnsupportedFormat is returned for sources that are neither MP3 nor WAV.
var errUnsupportedFormat = errors.New("unsupported audio format")

// MediaPlayer fetches, decodes and plays audio sources through the
// shared Output.
type MediaPlayer struct {
	out    *Output
	client *http.Client
	log    *logger.Logger
}

// NewMediaPlayer creates a loader backed by out.
func NewMediaPlayer(out *Output, log *logger.Logger) *MediaPlayer {
	return &MediaPlayer{
		out:    out,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}
}

// Load reads source (http(s) URL, file:// URL or path), decodes it and
// returns a track ready to play.
func (m *MediaPlayer) Load(ctx context.Context, source string) (domain.Playable, error) {
	data, contentType, err := m.fetch(ctx, source)
	if err != nil {
		return nil, err
	}

	streamer, format, err := decode(data, formatHint(source, contentType))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", source, err)
	}
	m.log.Debug("media player: decoded %s (%d Hz, %d ch)", source, format.SampleRate, format.NumChannels)

	var s beep.Streamer = streamer
	if format.SampleRate != m.out.SampleRate() {
		s = beep.Resample(4, format.SampleRate, m.out.SampleRate(), s)
	}
	return newTrack(m.out, s, streamer, m.log), nil
}

func (m *MediaPlayer) fetch(ctx context.Context, source string) ([]byte, string, error) {
	u, err := url.Parse(source)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, "", err
		}
		resp, err := m.client.Do(req)
		if err != nil {
			return nil, "", err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, "", fmt.Errorf("fetching %s: %s", source, resp.Status)
		}
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
		if err != nil {
			return nil, "", fmt.Errorf("reading %s: %w", source, err)
		}
		return data, resp.Header.Get("Content-Type"), nil
	}

	p := source
	if err == nil && u.Scheme == "file" {
		p = u.Path
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, "", err
	}
	return data, "", nil
}

// formatHint guesses the container from the content type or the file
// extension; decode still trusts magic bytes first.
func formatHint(source, contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mt {
		case "audio/mpeg", "audio/mp3":
			return "mp3"
		case "audio/wav", "audio/x-wav", "audio/wave":
			return "wav"
		}
	}
	p := source
	if u, err := url.Parse(source); err == nil && u.Path != "" {
		p = u.Path
	}
	return strings.TrimPrefix(strings.ToLower(path.Ext(p)), ".")
}

// sniff identifies MP3 and WAV data from their leading bytes.
func sniff(data []byte) string {
	switch {
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return "wav"
	case len(data) >= 3 && string(data[0:3]) == "ID3":
		return "mp3"
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return "mp3"
	}
	return ""
}

func decode(data []byte, hint string) (beep.StreamSeekCloser, beep.Format, error) {
	kind := sniff(data)
	if kind == "" {
		kind = hint
	}
	switch kind {
	case "mp3":
		return mp3.Decode(io.NopCloser(bytes.NewReader(data)))
	case "wav":
		return wav.Decode(bytes.NewReader(data))
	}
	return nil, beep.Format{}, errUnsupportedFormat
}

// track is one loaded source. The streamer graph is
// source -> end marker -> gain -> mute.
type track struct {
	out    *Output
	log    *logger.Logger
	source beep.StreamSeekCloser

	mu     sync.Mutex
	gain   *effects.Gain
	mute   *effects.Volume
	player *oto.Player

	drained  atomic.Bool
	stopped  atomic.Bool
	stopOnce sync.Once
}

func newTrack(out *Output, s beep.Streamer, source beep.StreamSeekCloser, log *logger.Logger) *track {
	t := &track{out: out, log: log, source: source}
	marked := beep.Seq(s, beep.Callback(func() { t.drained.Store(true) }))
	t.gain = &effects.Gain{Streamer: marked}
	t.mute = &effects.Volume{Streamer: t.gain, Base: 2}
	t.player = out.newPlayer(newPCMReader(t.mute, &t.mu))
	return t
}

func (t *track) Play(onDone func(error)) error {
	if t.stopped.Load() {
		return errors.New("track already stopped")
	}
	t.player.Play()
	go t.watch(onDone)
	return nil
}

// watch waits for the device to go idle and reports why.
func (t *track) watch(onDone func(error)) {
	for t.player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	if t.stopped.Load() {
		return
	}
	err := t.player.Err()
	if err == nil {
		if srcErr := t.source.Err(); srcErr != nil {
			err = srcErr
		}
	}
	if err == nil && !t.drained.Load() {
		err = errors.New("playback ended early")
	}
	if onDone != nil {
		onDone(err)
	}
}

func (t *track) Stop() {
	t.stopOnce.Do(func() {
		t.stopped.Store(true)
		t.player.Pause()
		if err := t.player.Close(); err != nil {
			t.log.Debug("track: closing player: %v", err)
		}
		if err := t.source.Close(); err != nil {
			t.log.Debug("track: closing source: %v", err)
		}
	})
}

// SetVolume sets a linear volume in [0, 1].
func (t *track) SetVolume(v float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gain.Gain = v - 1
}

func (t *track) SetMuted(muted bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mute.Silent = muted
}
