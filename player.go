// SPDX-License-Identifier: EPL-2.0

package beatstretch

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/ik5/beatstretch/material"
	"github.com/ik5/beatstretch/stretch"
)

// Player turns play commands into published sessions. Commands are
// serialized; at most one load is in flight.
type Player struct {
	engine *stretch.Engine
	events stretch.EventSink
	opts   material.LoadOptions

	mu       sync.Mutex
	settings stretch.Settings
}

// NewPlayer returns a player publishing to engine. Load failures and info
// events go to events, which may be nil.
func NewPlayer(engine *stretch.Engine, events stretch.EventSink, opts material.LoadOptions) *Player {
	return &Player{
		engine:   engine,
		events:   events,
		opts:     opts,
		settings: stretch.DefaultSettings(),
	}
}

// Settings returns the settings the next session will be built with.
func (p *Player) Settings() stretch.Settings {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.settings
}

// SetSettings changes the settings for future sessions. The playing
// session keeps the ones it was built with.
func (p *Player) SetSettings(s stretch.Settings) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.settings = s
}

// Play loads file and its annotation and starts it at tempo, replacing the
// playing session. On failure the playing session is stopped, an error
// event is emitted and the error is returned.
func (p *Player) Play(ctx context.Context, file string, tempo float64) (*stretch.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !(tempo > 0) || math.IsInf(tempo, 0) {
		return nil, p.fail(stretch.EventError, file, fmt.Errorf("%w: %v", ErrInvalidTempo, tempo))
	}

	tm, annPath, err := material.FindAnnotation(file)
	if err != nil {
		return nil, p.fail(stretch.EventError, file, err)
	}
	if tm.Warnings() > 0 {
		log.Printf("beatstretch: %s: %d unreadable offsets read as 0", annPath, tm.Warnings())
	}

	buf, err := material.LoadAudio(file, p.opts)
	if err != nil {
		return nil, p.fail(stretch.EventErrorWAV, file, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m, err := material.New(buf, tm)
	if err != nil {
		return nil, p.fail(stretch.EventError, file, err)
	}
	m.AudioPath = file
	m.AnnotationPath = annPath

	if r := tempo / tm.SourceTempo(); !stretch.ValidRatio(r) {
		return nil, p.fail(stretch.EventError, file,
			fmt.Errorf("%w: ratio %g outside [%g, %g]", ErrTempoRatio, r, stretch.MinRatio, stretch.MaxRatio))
	}

	s := stretch.NewSession(m, tempo, p.settings)
	p.engine.Publish(s)

	info := s.Info()
	log.Printf("beatstretch: playing %s at %.2f bpm (ratio %.4f): %d samples, %d transients, %d Hz",
		file, tempo, s.Ratio(), info.Length, info.Transients, info.SampleRate)
	p.emit(info)

	return s, nil
}

// Stop silences the engine.
func (p *Player) Stop() {
	if s := p.engine.Stop(); s != nil {
		log.Printf("beatstretch: stopped session %s", s.ID)
	}
}

func (p *Player) fail(kind stretch.EventKind, file string, err error) error {
	p.engine.Stop()
	log.Printf("beatstretch: play %s: %v", file, err)
	p.emit(stretch.Event{Kind: kind, Err: err})

	return fmt.Errorf("play %s: %w", file, err)
}

func (p *Player) emit(e stretch.Event) {
	if p.events != nil {
		p.events.Emit(e)
	}
}
