// SPDX-License-Identifier: EPL-2.0

package stretch

import (
	"sync"
	"testing"

	"github.com/ik5/beatstretch/internal/audiotest"
)

func TestEngine_ProcessWithoutSession(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil)
	out := []float32{1, 2, 3}
	if e.Process(out) {
		t.Error("Process() = true with no session")
	}
	for i, v := range out {
		if v != 0 {
			t.Errorf("out[%d] = %v, want 0", i, v)
		}
	}
}

func TestEngine_PublishAndStop(t *testing.T) {
	t.Parallel()

	m := newMaterial(t, audiotest.Pattern(2000), 1000, 120, []int{0, 1000})
	rec := &recorder{}
	e := NewEngine(rec)

	first := NewSession(m, 120, DefaultSettings())
	if prev := e.Publish(first); prev != nil {
		t.Errorf("Publish() returned %v, want nil", prev)
	}

	block := make([]float32, 100)
	if !e.Process(block) {
		t.Fatal("Process() = false for a fresh session")
	}
	if block[0] != audiotest.Pattern(1)[0] {
		t.Errorf("first sample = %v", block[0])
	}
	if first.Position() != 100 {
		t.Errorf("Position() = %d, want 100", first.Position())
	}

	second := NewSession(m, 60, DefaultSettings())
	if prev := e.Publish(second); prev != first {
		t.Error("Publish() did not return the replaced session")
	}
	e.Process(block)
	if first.Position() != 100 || second.Position() != 100 {
		t.Errorf("positions = %d, %d; want 100, 100", first.Position(), second.Position())
	}
	if e.Current() != second {
		t.Error("Current() is not the published session")
	}

	if prev := e.Stop(); prev != second {
		t.Error("Stop() did not return the playing session")
	}
	block[0] = 1
	if e.Process(block) || block[0] != 0 {
		t.Error("stopped engine produced audio")
	}

	for _, ev := range rec.events {
		if ev.Session != first.ID && ev.Session != second.ID {
			t.Errorf("event from unknown session %v", ev.Session)
		}
	}
}

func TestEngine_RunsToCompletion(t *testing.T) {
	t.Parallel()

	m := newMaterial(t, audiotest.Pattern(1000), 1000, 120, []int{0, 500})
	rec := &recorder{}
	e := NewEngine(rec)
	e.Publish(NewSession(m, 120, DefaultSettings()))

	block := make([]float32, 64)
	blocks := 0
	for e.Process(block) {
		blocks++
		if blocks > 100 {
			t.Fatal("session did not finish")
		}
	}
	if blocks != 1000/64 {
		t.Errorf("active blocks = %d, want %d", blocks, 1000/64)
	}
	if len(rec.kind(EventDuration)) != 1 {
		t.Error("expected exactly one duration event")
	}
}

func TestEngine_ConcurrentPublish(t *testing.T) {
	t.Parallel()

	m := newMaterial(t, audiotest.Pattern(5000), 5000, 120, []int{0, 100, 2500})
	e := NewEngine(EventFunc(func(Event) {}))
	e.Publish(NewSession(m, 120, DefaultSettings()))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 200 {
			e.Publish(NewSession(m, float64(60+i), DefaultSettings()))
		}
		e.Stop()
	}()

	block := make([]float32, 32)
	for range 2000 {
		e.Process(block)
	}
	wg.Wait()

	if e.Current() != nil {
		t.Error("Current() after Stop() is not nil")
	}
}
