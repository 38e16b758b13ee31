// SPDX-License-Identifier: EPL-2.0

package beatstretch

import (
	"context"
	"fmt"
	"math"

	"github.com/ik5/beatstretch/material"
	"github.com/ik5/beatstretch/stretch"
)

const maxRenderHint = 1 << 22

// Render plays m at tempo to completion, blockSize samples at a time, and
// returns the output up to the end of the material. Events go to sink,
// which may be nil. Cancelling ctx stops between blocks and returns what
// was rendered so far.
func Render(ctx context.Context, m *material.Material, tempo float64, settings stretch.Settings, blockSize int, sink stretch.EventSink) ([]float32, error) {
	if blockSize <= 0 {
		return nil, ErrInvalidBlock
	}

	s := stretch.NewSession(m, tempo, settings)
	if !s.Active() {
		if r := s.Ratio(); r > 0 && !stretch.ValidRatio(r) {
			return nil, fmt.Errorf("%w: %g", ErrTempoRatio, r)
		}
		return nil, ErrNothingToPlay
	}

	// append grows past the hint if needed
	expected := math.Ceil(float64(m.Audio.Len())/s.Ratio()) + float64(blockSize)
	out := make([]float32, 0, int(min(expected, maxRenderHint)))
	block := make([]float32, blockSize)

	for s.Active() {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		s.Process(block, sink)
		out = append(out, block...)
	}

	// the final block runs past the sample that ended the session
	return out[:s.Position()-1], nil
}
