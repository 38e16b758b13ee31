// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// SliceSource serves an in-memory interleaved buffer as a Source.
type SliceSource struct {
	samples    []float32
	sampleRate int
	channels   int
	off        int
}

// NewSliceSource reads interleaved samples from memory.
func NewSliceSource(samples []float32, sampleRate, channels int) *SliceSource {
	return &SliceSource{samples: samples, sampleRate: sampleRate, channels: max(channels, 1)}
}

func (s *SliceSource) SampleRate() int { return s.sampleRate }
func (s *SliceSource) Channels() int   { return s.channels }
func (s *SliceSource) BufSize() int    { return len(s.samples) }
func (s *SliceSource) Close() error    { return nil }

func (s *SliceSource) ReadSamples(dst []float32) (int, error) {
	if s.off >= len(s.samples) {
		return 0, io.EOF
	}
	n := copy(dst, s.samples[s.off:])
	s.off += n
	if s.off >= len(s.samples) {
		return n, io.EOF
	}
	return n, nil
}

// ReadAll drains src into a single buffer, reading bufSize values at a time.
// A read that returns nothing and no error is treated as the end of stream.
func ReadAll(src Source, bufSize int) ([]float32, error) {
	if bufSize <= 0 {
		bufSize = 4096
	}
	bufSize -= bufSize % src.Channels()
	if bufSize == 0 {
		bufSize = src.Channels()
	}

	buf := make([]float32, bufSize)
	out := make([]float32, 0, bufSize)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF || (err == nil && n == 0) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("%w", err)
		}
	}
}
