package speech

import (
	"math"

	"github.com/faiface/beep"

	"github.com/hammamikhairi/voicedeck/internal/domain"
	"github.com/hammamikhairi/voicedeck/internal/logger"
)

// Compile-time interface check.
var _ domain.ToneNotifier = (*ToneSynth)(nil)

// ToneSynth plays short synthesized confirmation beeps.
type ToneSynth struct {
	out *Output
	log *logger.Logger
}

// NewToneSynth creates a tone player on out.
func NewToneSynth(out *Output, log *logger.Logger) *ToneSynth {
	return &ToneSynth{out: out, log: log}
}

// PlayTone starts a beep and returns immediately.
func (s *ToneSynth) PlayTone(kind domain.ToneKind) {
	s.log.Debug("tone: %s", kind)
	s.out.playAndRelease(newPCMReader(toneStreamer(kind, s.out.SampleRate()), nil))
}

type waveform func(phase float64) float64

func sine(phase float64) float64 { return math.Sin(2 * math.Pi * phase) }

func sawtooth(phase float64) float64 { return 2 * (phase - math.Floor(phase+0.5)) }

func toneShape(kind domain.ToneKind) (float64, waveform) {
	switch kind {
	case domain.ToneError:
		return freqError, sawtooth
	case domain.ToneStart:
		return freqStart, sine
	default:
		return freqSuccess, sine
	}
}

// envelope ramps linearly to the peak over the attack, then decays
// exponentially to the floor by the end of the tone.
func envelope(t, total float64) float64 {
	attack := toneAttack.Seconds()
	if t < attack {
		return tonePeak * t / attack
	}
	frac := (t - attack) / (total - attack)
	return tonePeak * math.Pow(toneFloor/tonePeak, frac)
}

// toneStreamer renders one beep of toneDuration at the given rate.
func toneStreamer(kind domain.ToneKind, rate beep.SampleRate) beep.Streamer {
	freq, wave := toneShape(kind)
	total := rate.N(toneDuration)
	seconds := toneDuration.Seconds()
	pos := 0

	gen := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for n < len(samples) && pos < total {
			t := float64(pos) / float64(rate)
			v := wave(math.Mod(t*freq, 1)) * envelope(t, seconds)
			samples[n][0], samples[n][1] = v, v
			n++
			pos++
		}
		return n, true
	})
	return beep.Take(total, gen)
}
