package speech

import "time"

// Output format shared by media playback and tones. oto allows a single
// context per process, so every sound is resampled to this rate.
const (
	DefaultSampleRate = 44100
	ChannelCount      = 2
	BitDepth          = 16
	bytesPerFrame     = ChannelCount * BitDepth / 8
)

// Tone shape for confirmation beeps.
const (
	toneDuration = 150 * time.Millisecond
	toneAttack   = 10 * time.Millisecond
	tonePeak     = 0.3
	toneFloor    = 0.01
)

// Frequencies in Hz.
const (
	freqSuccess = 440.0
	freqError   = 220.0
	freqStart   = 523.25
)

// maxSourceBytes caps how much of a media source is read into memory.
const maxSourceBytes = 64 << 20

// Microphone probe parameters.
const (
	micSampleRate = 16000
	micFrames     = 800
)
