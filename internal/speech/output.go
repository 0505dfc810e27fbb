package speech

import (
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/faiface/beep"

	"github.com/hammamikhairi/voicedeck/internal/logger"
)

// Output is the process-wide audio device.
type Output struct {
	ctx  *oto.Context
	rate beep.SampleRate
	log  *logger.Logger
}

// NewOutput initializes the system audio context. Returns an error if
// the audio device is unavailable.
func NewOutput(sampleRate int, log *logger.Logger) (*Output, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   100 * time.Millisecond,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-readyChan

	log.Debug("audio output initialized (rate=%d, channels=%d)", sampleRate, ChannelCount)
	return &Output{ctx: ctx, rate: beep.SampleRate(sampleRate), log: log}, nil
}

// SampleRate returns the device rate every stream is converted to.
func (o *Output) SampleRate() beep.SampleRate { return o.rate }

func (o *Output) newPlayer(r io.Reader) *oto.Player {
	return o.ctx.NewPlayer(r)
}

// playAndRelease plays r to completion in the background and closes
// the player afterwards.
func (o *Output) playAndRelease(r io.Reader) {
	p := o.newPlayer(r)
	p.Play()
	go func() {
		for p.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		if err := p.Close(); err != nil {
			o.log.Debug("audio output: closing player: %v", err)
		}
	}()
}
