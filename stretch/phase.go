// SPDX-License-Identifier: EPL-2.0

package stretch

// Phase is the part of a segment a Session is playing.
type Phase uint8

const (
	// Idle sessions produce silence and never leave Idle.
	Idle Phase = iota
	Attack
	Sustain
	// PostTransient plays the material after the last transient, or the
	// whole buffer when there are no transients.
	PostTransient
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Attack:
		return "attack"
	case Sustain:
		return "sustain"
	case PostTransient:
		return "post_transient"
	}
	return "unknown"
}
