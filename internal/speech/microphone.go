package speech

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/hammamikhairi/voicedeck/internal/domain"
	"github.com/hammamikhairi/voicedeck/internal/logger"
)

// Microphone owns the default portaudio input stream. Acquiring it
// proves the process may record before voice input is enabled.
type Microphone struct {
	log *logger.Logger

	mu     sync.Mutex
	stream *portaudio.Stream
	buf    []int16
}

// NewMicrophone creates an unopened microphone.
func NewMicrophone(log *logger.Logger) *Microphone {
	return &Microphone{log: log, buf: make([]int16, micFrames)}
}

// Acquire opens and starts the default input device and reads one
// buffer from it. Any failure is reported as domain.ErrPermission.
func (m *Microphone) Acquire() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stream != nil {
		return nil
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("%w: initializing audio input: %v", domain.ErrPermission, err)
	}

	stream, err := portaudio.OpenDefaultStream(1, 0, micSampleRate, micFrames, m.buf)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("%w: opening microphone: %v", domain.ErrPermission, err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("%w: starting microphone: %v", domain.ErrPermission, err)
	}
	if err := stream.Read(); err != nil {
		stream.Stop()
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("%w: reading microphone: %v", domain.ErrPermission, err)
	}

	m.stream = stream
	m.log.Debug("microphone: acquired (rate=%d, frames=%d)", micSampleRate, micFrames)
	return nil
}

// Release closes the input stream. The recorder opens its own device
// handle, so the probe stream is released once voice input starts.
func (m *Microphone) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stream == nil {
		return
	}
	if err := m.stream.Stop(); err != nil {
		m.log.Debug("microphone: stop: %v", err)
	}
	if err := m.stream.Close(); err != nil {
		m.log.Debug("microphone: close: %v", err)
	}
	m.stream = nil
	portaudio.Terminate()
}
