// SPDX-License-Identifier: EPL-2.0

package stretch

import "math"

// HannGain is the loop-seam gain for position cyc of a loop loopLen samples
// long. The first and last loopLen/10 samples ramp with a raised cosine,
// the last ramp mirroring the first; everything else is unity.
func HannGain(cyc, loopLen int) float32 {
	fadeLen := loopLen / 10
	if fadeLen <= 0 {
		return 1
	}

	if cyc < fadeLen {
		return raisedCosine(cyc, fadeLen)
	}
	if j := loopLen - 1 - cyc; j >= 0 && j < fadeLen {
		return raisedCosine(j, fadeLen)
	}
	return 1
}

func raisedCosine(i, n int) float32 {
	return float32(0.5 * (1 - math.Cos(math.Pi*float64(i)/float64(n))))
}
