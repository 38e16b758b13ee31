// SPDX-License-Identifier: EPL-2.0

package stretch

import (
	"math"
	"time"
)

// Tempo ratios outside [MinRatio, MaxRatio] are not played. The bounds keep
// every output position of a session within int range and its output
// length within a fixed multiple of the material.
const (
	MinRatio = 1.0 / 64
	MaxRatio = 64.0
)

// ValidRatio reports whether target/source tempo ratio r can be played.
func ValidRatio(r float64) bool {
	return !math.IsNaN(r) && r >= MinRatio && r <= MaxRatio
}

// Settings are the tunable lengths a session is built with.
type Settings struct {
	// AttackDefault and Sustain are reported but do not drive playback;
	// attack length is derived per segment.
	AttackDefault time.Duration
	Sustain       time.Duration

	// AttackMin and AttackMax clamp the per-segment attack length.
	AttackMin time.Duration
	AttackMax time.Duration
}

// DefaultSettings returns 30ms attack, 200ms sustain and attacks clamped to
// 10..200ms.
func DefaultSettings() Settings {
	return Settings{
		AttackDefault: 30 * time.Millisecond,
		Sustain:       200 * time.Millisecond,
		AttackMin:     10 * time.Millisecond,
		AttackMax:     200 * time.Millisecond,
	}
}

// Samples converts d to a whole number of samples at sampleRate,
// truncating.
func Samples(d time.Duration, sampleRate int) int {
	if d <= 0 || sampleRate <= 0 {
		return 0
	}
	return int(d.Seconds() * float64(sampleRate))
}
