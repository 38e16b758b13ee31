// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/beatstretch/utils"
)

// Resampler streams src at a different sample rate using Catmull-Rom
// interpolation over a four frame window. Channel count is preserved.
// A one-pole low-pass runs on the input when downsampling.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64 // source frames consumed per output frame
	channels int

	// hist[1] is the frame at the integer position, hist[2] the next one.
	hist [4][]float32
	live [4]bool
	frac float64

	in     []float32
	primed bool
	eof    bool
	done   bool

	alpha float32
	lp    []float32
}

// NewResampler converts src to dstRate.
func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		step:     float64(src.SampleRate()) / float64(dstRate),
		channels: channels,
		in:       make([]float32, channels),
		lp:       make([]float32, channels),
	}
	if r.step > 1 {
		r.alpha = 0.5
	}
	for i := range r.hist {
		r.hist[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// pull loads the next source frame into slot. Past the end of the source
// the previous slot is repeated and the slot is marked as padding.
func (r *Resampler) pull(slot int) error {
	r.live[slot] = false
	if !r.eof {
		n, err := r.src.ReadSamples(r.in)
		switch {
		case err == io.EOF || (err == nil && n == 0):
			r.eof = true
		case err != nil:
			return fmt.Errorf("resampler source: %w", err)
		}
		if n == r.channels {
			copy(r.hist[slot], r.in)
			r.live[slot] = true
			if r.alpha > 0 {
				if !r.primed {
					copy(r.lp, r.in)
				}
				for c, v := range r.hist[slot] {
					r.lp[c] = r.alpha*v + (1-r.alpha)*r.lp[c]
					r.hist[slot][c] = r.lp[c]
				}
			}
		}
	}
	if !r.live[slot] && slot > 0 {
		copy(r.hist[slot], r.hist[slot-1])
	}

	return nil
}

func (r *Resampler) prime() error {
	if err := r.pull(1); err != nil {
		return err
	}
	r.primed = true
	if !r.live[1] {
		r.done = true
		return nil
	}
	copy(r.hist[0], r.hist[1])
	r.live[0] = true
	if err := r.pull(2); err != nil {
		return err
	}
	return r.pull(3)
}

func (r *Resampler) advance() error {
	r.hist[0], r.hist[1], r.hist[2], r.hist[3] = r.hist[1], r.hist[2], r.hist[3], r.hist[0]
	r.live[0], r.live[1], r.live[2] = r.live[1], r.live[2], r.live[3]
	return r.pull(3)
}

// ReadSamples produces interleaved samples at the destination rate.
// dst length must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	frames := len(dst) / r.channels
	for written < frames && !r.done {
		for r.frac >= 1 {
			r.frac--
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}
		if !r.live[2] {
			r.done = true
			break
		}

		x := float32(r.frac)
		base := written * r.channels
		for c := range r.channels {
			dst[base+c] = utils.CubicInterpolate(r.hist[0][c], r.hist[1][c], r.hist[2][c], r.hist[3][c], x)
		}
		written++
		r.frac += r.step
	}

	if r.done {
		return written * r.channels, io.EOF
	}
	return written * r.channels, nil
}
