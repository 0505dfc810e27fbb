package speech

import (
	"encoding/binary"
	"io"
	"math"
	"sync"

	"github.com/faiface/beep"
)

// pcmReader pulls samples from a beep streamer and encodes them as
// interleaved signed 16-bit little-endian stereo, the format oto plays.
// mu guards the streamer graph, which volume and mute controls mutate
// from other goroutines while oto reads.
type pcmReader struct {
	mu   *sync.Mutex
	s    beep.Streamer
	buf  [][2]float64
	done bool
}

func newPCMReader(s beep.Streamer, mu *sync.Mutex) *pcmReader {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &pcmReader{mu: mu, s: s}
}

func (r *pcmReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, io.EOF
	}
	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}
	if cap(r.buf) < frames {
		r.buf = make([][2]float64, frames)
	}
	buf := r.buf[:frames]

	r.mu.Lock()
	n, ok := r.s.Stream(buf)
	err := r.s.Err()
	r.mu.Unlock()

	for i := 0; i < n; i++ {
		for c := 0; c < 2; c++ {
			v := math.Max(-1, math.Min(1, buf[i][c]))
			binary.LittleEndian.PutUint16(p[i*bytesPerFrame+c*2:], uint16(int16(v*math.MaxInt16)))
		}
	}

	if err != nil {
		r.done = true
		return n * bytesPerFrame, err
	}
	if !ok || n == 0 {
		r.done = true
		return n * bytesPerFrame, io.EOF
	}
	return n * bytesPerFrame, nil
}
