// SPDX-License-Identifier: EPL-2.0

package stretch

import "sync/atomic"

// Engine is the audio-side owner of the current Session. Publish and Stop
// may be called from any goroutine; Process belongs to the audio goroutine.
type Engine struct {
	cur  atomic.Pointer[Session]
	sink EventSink
}

// NewEngine returns an engine that reports session events to sink, which
// may be nil.
func NewEngine(sink EventSink) *Engine {
	return &Engine{sink: sink}
}

// Publish makes s the session Process plays and returns the one it
// replaces. The replaced session is abandoned, not stepped again.
func (e *Engine) Publish(s *Session) *Session {
	return e.cur.Swap(s)
}

// Stop publishes no session.
func (e *Engine) Stop() *Session {
	return e.cur.Swap(nil)
}

// Current returns the published session, or nil.
func (e *Engine) Current() *Session {
	return e.cur.Load()
}

// Process fills out from the current session, or with silence when there
// is none. The session is loaded once, so a block never mixes two
// sessions. It reports whether the session is still active afterwards.
func (e *Engine) Process(out []float32) bool {
	s := e.cur.Load()
	if s == nil {
		clear(out)
		return false
	}

	s.Process(out, e.sink)
	return s.Active()
}
