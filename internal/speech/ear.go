package speech

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	audiotranscriber "github.com/sklyt/whisper/pkg"
	"golang.org/x/time/rate"

	"github.com/hammamikhairi/voicedeck/internal/domain"
	"github.com/hammamikhairi/voicedeck/internal/logger"
)

// Compile-time interface check.
var _ domain.Transcriber = (*Ear)(nil)

// envAnnotation matches whisper environmental annotations like
// "(keyboard clicking)", "[laughter]", "(speaking French)", etc.
var envAnnotation = regexp.MustCompile(`[\(\[][a-zA-Z][a-zA-Z\s]*[\)\]]`)

// Recorder records one chunk of audio of the given length and returns
// its transcription. An empty string means no speech was heard.
type Recorder func(ctx context.Context, d time.Duration) (string, error)

// EarOption configures the Ear.
type EarOption func(*Ear)

// WithRecordDuration sets how long each listening chunk lasts.
func WithRecordDuration(d time.Duration) EarOption {
	return func(e *Ear) { e.recordDuration = d }
}

// WithTempDir sets the directory for temporary WAV files.
func WithTempDir(dir string) EarOption {
	return func(e *Ear) { e.tempDir = dir }
}

// WithRestartEvery limits how often the transcriber is restarted after
// a failure.
func WithRestartEvery(d time.Duration) EarOption {
	return func(e *Ear) { e.limiter = rate.NewLimiter(rate.Every(d), 1) }
}

// WithRecorder replaces the whisper recorder.
func WithRecorder(r Recorder) EarOption {
	return func(e *Ear) { e.record = r }
}

// WithErrorHandler is called once per run of consecutive transcriber
// failures.
func WithErrorHandler(fn func(error)) EarOption {
	return func(e *Ear) { e.onError = fn }
}

// WithMaxParts caps how many chunks are joined into one utterance.
func WithMaxParts(n int) EarOption {
	return func(e *Ear) { e.maxParts = n }
}

// Ear turns continuous microphone input into utterances using a local
// Whisper model.
//
// It records short chunks back to back. Consecutive chunks with speech
// are joined; the first silent chunk after speech ends the utterance,
// which is sent on C. Silent chunks on their own are ignored.
type Ear struct {
	whisperBin string
	modelPath  string
	tempDir    string
	log        *logger.Logger

	record         Recorder
	recordDuration time.Duration
	maxParts       int
	limiter        *rate.Limiter
	onError        func(error)

	mu      sync.Mutex
	failing bool
	textCh  chan string
}

// NewEar creates a continuous voice input listener.
//
//   - whisperBin: path to the whisper-cli executable
//   - modelPath:  path to the GGML model file
func NewEar(whisperBin, modelPath string, log *logger.Logger, opts ...EarOption) *Ear {
	e := &Ear{
		whisperBin:     whisperBin,
		modelPath:      modelPath,
		tempDir:        ".voicedeck-stt",
		log:            log,
		recordDuration: 2 * time.Second,
		maxParts:       8,
		limiter:        rate.NewLimiter(rate.Every(2*time.Second), 1),
		textCh:         make(chan string, 8),
	}
	e.record = e.recordWhisper
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CheckBinary reports whether the whisper binary is reachable.
func (e *Ear) CheckBinary() error {
	if _, err := exec.LookPath(e.whisperBin); err != nil {
		return fmt.Errorf("whisper binary %q: %w", e.whisperBin, err)
	}
	return nil
}

// C returns the channel that receives utterances.
func (e *Ear) C() <-chan string {
	return e.textCh
}

// Run starts the listening loop. Blocks until ctx is cancelled, then
// closes C. Call this in a goroutine.
func (e *Ear) Run(ctx context.Context) {
	defer close(e.textCh)
	e.log.Info("ear: started (chunk=%s)", e.recordDuration)

	var parts []string
	for {
		if ctx.Err() != nil {
			e.log.Info("ear: stopped")
			return
		}

		chunk, err := e.record(ctx, e.recordDuration)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			e.fail(err)
			if werr := e.limiter.Wait(ctx); werr != nil {
				continue
			}
			e.log.Debug("ear: restarting transcriber")
			continue
		}
		e.recovered()

		chunk = cleanTranscription(chunk)
		if chunk != "" {
			e.log.Debug("ear: chunk %q", chunk)
			parts = append(parts, chunk)
			if len(parts) < e.maxParts {
				continue
			}
		}
		if len(parts) == 0 {
			continue
		}

		utterance := strings.TrimSpace(strings.Join(parts, " "))
		parts = parts[:0]
		e.log.Info("ear: heard %q", utterance)
		select {
		case e.textCh <- utterance:
		case <-ctx.Done():
		}
	}
}

// fail surfaces the first error of a failure streak.
func (e *Ear) fail(err error) {
	e.mu.Lock()
	first := !e.failing
	e.failing = true
	e.mu.Unlock()

	if !first {
		e.log.Debug("ear: transcriber still failing: %v", err)
		return
	}
	e.log.Warn("ear: transcriber error: %v", err)
	if e.onError != nil {
		e.onError(err)
	}
}

func (e *Ear) recovered() {
	e.mu.Lock()
	e.failing = false
	e.mu.Unlock()
}

var errNoTranscript = errors.New("transcriber stopped without a result")

// transcribeTimeout bounds how long whisper may take after a chunk ends.
const transcribeTimeout = 30 * time.Second

// recordWhisper does one recording cycle with the given duration and
// returns the transcribed text.
func (e *Ear) recordWhisper(ctx context.Context, duration time.Duration) (string, error) {
	resultCh := make(chan string, 1)
	callback := func(text string) {
		select {
		case resultCh <- text:
		default:
		}
	}

	verbose := e.log.GetLevel() >= logger.LevelVerbose
	t, err := audiotranscriber.NewTranscriber(
		e.whisperBin,
		e.modelPath,
		e.tempDir,
		"wav",
		callback,
		verbose,
	)
	if err != nil {
		return "", fmt.Errorf("transcriber init: %w", err)
	}

	if err := t.Start(); err != nil {
		return "", fmt.Errorf("recording start: %w", err)
	}

	select {
	case <-time.After(duration):
	case <-ctx.Done():
	}
	t.Stop()

	select {
	case text := <-resultCh:
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return text, nil
	case <-time.After(transcribeTimeout):
		return "", errNoTranscript
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// junkPatterns are whisper artifacts stripped from anywhere in the text.
var junkPatterns = []string{
	"[BLANK_AUDIO]",
	"[BLANK AUDIO]",
	"(silence)",
	"[silence]",
	"(no speech)",
	"[no speech]",
	"[Music]",
	"(music)",
	"(inaudible)",
	"(unintelligible)",
	"(background noise)",
}

// hallucinations are whole transcriptions whisper produces from silence.
var hallucinations = []string{
	"...",
	"you",
	"thank you.",
	"thanks for watching!",
	"thank you for watching.",
	"bye.",
	"the end.",
}

// cleanTranscription strips whitespace, normalizes newlines, and
// removes common whisper artifacts like "[BLANK_AUDIO]" or "(silence)".
func cleanTranscription(s string) string {
	s = strings.Join(strings.Fields(s), " ")

	// Strip whisper timestamp prefixes like "[00:00:00.000 --> 00:00:05.000]".
	if strings.HasPrefix(s, "[") {
		if idx := strings.Index(s, "]"); idx != -1 && idx < 40 && strings.Contains(s[:idx], "-->") {
			s = strings.TrimSpace(s[idx+1:])
		}
	}

	for _, j := range junkPatterns {
		s = strings.ReplaceAll(s, j, "")
		s = strings.ReplaceAll(s, strings.ToLower(j), "")
		s = strings.ReplaceAll(s, strings.ToUpper(j), "")
	}

	// Catch-all for remaining annotations such as "(dog barking)".
	s = envAnnotation.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")

	lower := strings.ToLower(s)
	for _, h := range hallucinations {
		if h == lower {
			return ""
		}
	}
	return s
}
