// SPDX-License-Identifier: EPL-2.0

package stretch

import (
	"math"

	"github.com/google/uuid"

	"github.com/ik5/beatstretch/material"
)

// Session is one run of a Material at a target tempo. Build it in the
// control goroutine; once published, only the audio goroutine may call
// Step or Process.
type Session struct {
	ID uuid.UUID

	m          *material.Material
	samples    []float32
	offsets    []int
	sampleRate int
	ratio      float64
	settings   Settings
	attackMin  int
	attackMax  int

	index      int
	phase      Phase
	playPos    int
	sustainPos int
	pos        uint64
	entered    bool
	active     bool
}

// segment is one transient's span in source and output coordinates.
type segment struct {
	start, end       int
	startOut, endOut int
	attackLen        int
	attackEnd        int
}

// NewSession starts m at targetTempo. The ratio target/source must satisfy
// ValidRatio and m must hold audio; otherwise the session is Idle and
// inactive from the start.
func NewSession(m *material.Material, targetTempo float64, settings Settings) *Session {
	s := &Session{ID: uuid.New(), m: m, settings: settings, phase: Idle}
	if m == nil || m.Audio == nil {
		return s
	}

	s.samples = m.Audio.Samples()
	s.sampleRate = m.Audio.SampleRate()
	if m.Transients != nil {
		s.offsets = m.Transients.Offsets()
		s.ratio = targetTempo / m.Transients.SourceTempo()
	}
	s.attackMin = Samples(settings.AttackMin, s.sampleRate)
	s.attackMax = Samples(settings.AttackMax, s.sampleRate)

	if len(s.samples) == 0 || !ValidRatio(s.ratio) {
		return s
	}

	s.active = true
	s.phase = Attack
	if len(s.offsets) == 0 {
		s.phase = PostTransient
	}
	return s
}

// Active reports whether the session still produces audio.
func (s *Session) Active() bool { return s.active }

// Phase is the current state of the segment being played.
func (s *Session) Phase() Phase { return s.phase }

// Position is the number of samples produced so far. Like the other
// playback state it belongs to the goroutine stepping the session.
func (s *Session) Position() uint64 { return s.pos }

// TransientIndex is the segment being played.
func (s *Session) TransientIndex() int { return s.index }

// Ratio is target tempo over source tempo.
func (s *Session) Ratio() float64 { return s.ratio }

// Settings returns the settings the session was built with.
func (s *Session) Settings() Settings { return s.settings }

// Material returns the material being played.
func (s *Session) Material() *material.Material { return s.m }

// AttackSamples and SustainSamples report the configured default lengths
// in samples at the material's rate.
func (s *Session) AttackSamples() int  { return Samples(s.settings.AttackDefault, s.sampleRate) }
func (s *Session) SustainSamples() int { return Samples(s.settings.Sustain, s.sampleRate) }

// Info describes the loaded material.
func (s *Session) Info() Event {
	return Event{
		Kind:       EventInfo,
		Session:    s.ID,
		Length:     len(s.samples),
		Transients: len(s.offsets),
		SampleRate: s.sampleRate,
	}
}

// Process fills out with consecutive samples.
func (s *Session) Process(out []float32, sink EventSink) {
	for i := range out {
		out[i] = s.Step(sink)
	}
}

// Step produces the next output sample. Inactive sessions return silence
// and do not change.
func (s *Session) Step(sink EventSink) float32 {
	if !s.active {
		return 0
	}

	// compared as float so no position is converted past the buffer end
	srcPos := float64(s.pos) * s.ratio
	if srcPos >= float64(len(s.samples)) {
		s.emit(sink, Event{Kind: EventDuration, Value: float64(s.pos) / float64(s.sampleRate)})
		s.active = false
		s.phase = Idle
		s.pos++
		return 0
	}

	out := s.dispatch(int(s.pos), int(srcPos), sink)
	s.pos++
	return out
}

func (s *Session) dispatch(pos, posAudio int, sink EventSink) float32 {
	var seg segment
	for {
		if s.index >= len(s.offsets) {
			s.phase = PostTransient
			return s.at(posAudio)
		}
		seg = s.segment(s.index)
		if pos < max(seg.attackEnd, seg.endOut) {
			break
		}
		// a minimum-length attack ran past this segment's end
		s.next()
	}

	if s.phase == Attack && pos >= seg.attackEnd && pos < seg.endOut {
		// attack window already consumed by the previous segment
		s.enterSustain(sink)
	}

	switch {
	case s.phase == Attack && pos >= seg.startOut && pos < seg.attackEnd:
		return s.attack(pos, seg, sink)
	case s.phase == Sustain && pos >= seg.attackEnd && pos < seg.endOut:
		return s.sustain(pos, seg)
	}
	return 0
}

func (s *Session) attack(pos int, seg segment, sink EventSink) float32 {
	// a late entry still starts at the onset
	if !s.entered {
		s.entered = true
		s.playPos = 0
		s.emit(sink, Event{
			Kind:  EventMode,
			Phase: Attack,
			Value: float64(seg.attackLen) / float64(s.sampleRate) * 1000,
		})
	}

	out := s.at(seg.start + s.playPos)
	s.playPos++

	if pos+1 >= seg.attackEnd {
		s.enterSustain(sink)
	}
	return out
}

func (s *Session) sustain(pos int, seg segment) float32 {
	var out float32
	if loopLen := (seg.end - seg.start) / 2; loopLen > 0 {
		cyc := s.sustainPos % loopLen
		out = s.at(seg.start+loopLen+cyc) * HannGain(cyc, loopLen)
	}
	s.sustainPos++

	if pos+1 >= seg.endOut {
		s.next()
	}
	return out
}

func (s *Session) enterSustain(sink EventSink) {
	s.phase = Sustain
	s.sustainPos = 0
	s.emit(sink, Event{Kind: EventMode, Phase: Sustain})
}

func (s *Session) next() {
	s.index++
	s.phase = Attack
	s.entered = false
	s.playPos = 0
	s.sustainPos = 0
}

// segment derives the bounds of transient i from the offsets and the ratio.
// It is recomputed for every sample.
func (s *Session) segment(i int) segment {
	start := s.offsets[i]
	end := len(s.samples)
	if i+1 < len(s.offsets) {
		end = s.offsets[i+1]
	}

	durOut := s.toOutput(end - start)
	attackLen := min(max(durOut/2, s.attackMin), s.attackMax)
	startOut := s.toOutput(start)

	return segment{
		start:     start,
		end:       end,
		startOut:  startOut,
		endOut:    s.toOutput(end),
		attackLen: attackLen,
		attackEnd: startOut + attackLen,
	}
}

// toOutput maps a source sample count to output samples, saturating at
// math.MaxInt.
func (s *Session) toOutput(n int) int {
	v := math.Floor(float64(n) / s.ratio)
	if v >= math.MaxInt {
		return math.MaxInt
	}
	return int(v)
}

func (s *Session) at(i int) float32 {
	if i < 0 || i >= len(s.samples) {
		return 0
	}
	return s.samples[i]
}

func (s *Session) emit(sink EventSink, e Event) {
	if sink == nil {
		return
	}
	e.Session = s.ID
	e.Position = s.pos
	sink.Emit(e)
}
