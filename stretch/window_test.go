// SPDX-License-Identifier: EPL-2.0

package stretch

import (
	"math"
	"testing"
)

func TestHannGain(t *testing.T) {
	t.Parallel()

	const tolerance = 1e-6

	for _, loopLen := range []int{20, 100, 1000, 11025} {
		fadeLen := loopLen / 10

		if g := HannGain(0, loopLen); g != 0 {
			t.Errorf("loop %d: gain at 0 = %v, want 0", loopLen, g)
		}
		if fadeLen%2 == 0 {
			if g := HannGain(fadeLen/2, loopLen); math.Abs(float64(g)-0.5) > tolerance {
				t.Errorf("loop %d: gain at fadeLen/2 = %v, want 0.5", loopLen, g)
			}
		}

		prev := float32(-1)
		for cyc := range fadeLen {
			g := HannGain(cyc, loopLen)
			if g <= prev {
				t.Fatalf("loop %d: fade-in not rising at %d (%v <= %v)", loopLen, cyc, g, prev)
			}
			prev = g
		}

		for cyc := fadeLen; cyc < loopLen-fadeLen; cyc++ {
			if g := HannGain(cyc, loopLen); g != 1 {
				t.Fatalf("loop %d: gain at %d = %v, want 1", loopLen, cyc, g)
			}
		}

		for j := range fadeLen {
			if in, out := HannGain(j, loopLen), HannGain(loopLen-1-j, loopLen); in != out {
				t.Fatalf("loop %d: fade-out is not the mirror of fade-in at %d (%v != %v)", loopLen, j, out, in)
			}
		}
	}
}

func TestHannGain_ShortLoops(t *testing.T) {
	t.Parallel()

	// fewer than ten samples leave no room for a fade
	for loopLen := range 10 {
		for cyc := range loopLen {
			if g := HannGain(cyc, loopLen); g != 1 {
				t.Errorf("HannGain(%d, %d) = %v, want 1", cyc, loopLen, g)
			}
		}
	}
}

func BenchmarkHannGain(b *testing.B) {
	b.ReportAllocs()
	var sink float32
	for b.Loop() {
		for cyc := range 1000 {
			sink += HannGain(cyc, 1000)
		}
	}
	_ = sink
}
