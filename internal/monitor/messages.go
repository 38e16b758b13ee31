package monitor

import (
	"encoding/binary"

	"github.com/google/uuid"

	"github.com/ik5/beatstretch/internal/host"
	"github.com/ik5/beatstretch/stretch"
)

// Command is a client request.
//
//	{"cmd":"play","file":"loops/drums.wav","tempo":140}
//	{"cmd":"stop"}
type Command struct {
	Cmd   string  `json:"cmd"`
	File  string  `json:"file,omitempty"`
	Tempo float64 `json:"tempo,omitempty"`
}

const (
	CmdPlay = "play"
	CmdStop = "stop"
)

// EventMessage is the JSON form of a stretch.Event, plus the connection
// greeting and command errors.
type EventMessage struct {
	Event      string  `json:"event"`
	Session    string  `json:"session,omitempty"`
	Client     string  `json:"client,omitempty"`
	Mode       string  `json:"mode,omitempty"`
	Value      float64 `json:"value,omitempty"`
	Position   uint64  `json:"position,omitempty"`
	Length     int     `json:"length,omitempty"`
	Transients int     `json:"transients,omitempty"`
	SampleRate int     `json:"sample_rate,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// NewEventMessage converts an engine event to its wire form.
func NewEventMessage(e stretch.Event) EventMessage {
	msg := EventMessage{
		Event:    e.Kind.String(),
		Position: e.Position,
	}
	if e.Session != uuid.Nil {
		msg.Session = e.Session.String()
	}

	switch e.Kind {
	case stretch.EventInfo:
		msg.Length = e.Length
		msg.Transients = e.Transients
		msg.SampleRate = e.SampleRate
	case stretch.EventMode:
		msg.Mode = e.Phase.String()
		msg.Value = e.Value
	case stretch.EventDuration:
		msg.Value = e.Value
	case stretch.EventError, stretch.EventErrorWAV:
		if e.Err != nil {
			msg.Error = e.Err.Error()
		}
	}
	return msg
}

func newConnectedMessage(clientID string) EventMessage {
	return EventMessage{Event: "connected", Client: clientID}
}

func newErrorMessage(clientID, text string) EventMessage {
	return EventMessage{Event: "error", Client: clientID, Error: text}
}

// encodeFrame packs a block as little-endian 16-bit PCM.
func encodeFrame(f host.Frame) []byte {
	out := make([]byte, 2*len(f.Samples))
	for i, s := range f.Samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}
