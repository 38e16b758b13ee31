// SPDX-License-Identifier: EPL-2.0

package stretch

import "github.com/google/uuid"

// EventKind identifies what an Event reports.
type EventKind uint8

const (
	EventInfo EventKind = iota
	EventError
	EventErrorWAV
	EventMode
	EventDuration
)

func (k EventKind) String() string {
	switch k {
	case EventInfo:
		return "info"
	case EventError:
		return "error"
	case EventErrorWAV:
		return "error_wav"
	case EventMode:
		return "mode"
	case EventDuration:
		return "duration"
	}
	return "unknown"
}

// Event is an out-of-band notification from a session or from the command
// layer that loads one.
type Event struct {
	Kind    EventKind
	Session uuid.UUID

	// Phase and Value describe a mode change. Value is the attack length
	// in milliseconds for Attack, or the elapsed seconds for a duration
	// event.
	Phase    Phase
	Value    float64
	Position uint64

	// Info fields.
	Length     int
	Transients int
	SampleRate int

	Err error
}

// EventSink receives events. Sinks handed to a Session are called from the
// audio goroutine and must not block.
type EventSink interface {
	Emit(Event)
}

// EventFunc adapts a function to an EventSink.
type EventFunc func(Event)

func (f EventFunc) Emit(e Event) { f(e) }
