package host

import (
	"context"
	"testing"
	"time"

	"github.com/ik5/beatstretch/internal/audiotest"
	"github.com/ik5/beatstretch/material"
	"github.com/ik5/beatstretch/stretch"
	"github.com/ik5/beatstretch/utils"
)

func TestEventQueue(t *testing.T) {
	t.Parallel()

	q := NewEventQueue(2)
	for i := range 5 {
		q.Emit(stretch.Event{Kind: stretch.EventMode, Position: uint64(i)})
	}

	if q.Dropped() != 3 {
		t.Errorf("Dropped() = %d, want 3", q.Dropped())
	}
	for want := range uint64(2) {
		if e := <-q.Events(); e.Position != want {
			t.Errorf("event position = %d, want %d", e.Position, want)
		}
	}
}

func TestPeriod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		block, rate int
		want        time.Duration
	}{
		{64, 44100, 1451247 * time.Nanosecond},
		{480, 48000, 10 * time.Millisecond},
		{441, 44100, 10 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := period(tt.block, tt.rate); got != tt.want {
			t.Errorf("period(%d, %d) = %v, want %v", tt.block, tt.rate, got, tt.want)
		}
	}
}

func TestClock_Run(t *testing.T) {
	t.Parallel()

	src := audiotest.Pattern(48000)
	m, err := material.New(material.NewAudioBuffer(src, 48000), material.NewTransientMap([]int{0}, 120, 48000))
	if err != nil {
		t.Fatal(err)
	}

	engine := stretch.NewEngine(nil)
	engine.Publish(stretch.NewSession(m, 120, stretch.DefaultSettings()))

	c := NewClock(engine, 480)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go c.Run(ctx)

	// the attack of the only transient is played sample for sample
	for i := range 3 {
		f := <-c.Frames()
		if f.SampleRate != 48000 || len(f.Samples) != 480 {
			t.Fatalf("frame %d: %d samples at %d Hz", i, len(f.Samples), f.SampleRate)
		}
		for j, v := range f.Samples {
			if want := utils.Float32ToInt16(src[i*480+j]); v != want {
				t.Fatalf("frame %d sample %d = %d, want %d", i, j, v, want)
			}
		}
	}

	cancel()
	for range c.Frames() {
	}
}

func TestClock_ReusesFrameBuffers(t *testing.T) {
	t.Parallel()

	src := audiotest.Pattern(48000)
	m, err := material.New(material.NewAudioBuffer(src, 48000), material.NewTransientMap(nil, 120, 48000))
	if err != nil {
		t.Fatal(err)
	}
	engine := stretch.NewEngine(nil)
	engine.Publish(stretch.NewSession(m, 120, stretch.DefaultSettings()))

	const block = 48
	c := NewClock(engine, block)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go c.Run(ctx)

	ring := frameBuffer + 2
	first := make([]*int16, ring)
	for i := range 3 * ring {
		f, ok := <-c.Frames()
		if !ok {
			t.Fatal("frames closed early")
		}
		if c.Dropped() == 0 {
			// without drops the session output is the source, block by block
			for j, v := range f.Samples {
				if want := utils.Float32ToInt16(src[i*block+j]); v != want {
					t.Fatalf("frame %d sample %d = %d, want %d", i, j, v, want)
				}
			}
		}

		p := &f.Samples[0]
		if i < ring {
			first[i] = p
		} else if p != first[i%ring] {
			t.Fatalf("frame %d uses a new buffer, want the one from frame %d", i, i%ring)
		}
	}

	cancel()
	for range c.Frames() {
	}
}

func TestClock_IdleWithoutSession(t *testing.T) {
	t.Parallel()

	c := NewClock(stretch.NewEngine(nil), 64)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c.Run(ctx)

	if _, ok := <-c.Frames(); ok {
		t.Error("clock produced a frame with no session published")
	}
}

func TestClock_DropsWhenConsumerLags(t *testing.T) {
	t.Parallel()

	m, err := material.New(material.NewAudioBuffer(make([]float32, 480000), 48000), material.NewTransientMap(nil, 120, 48000))
	if err != nil {
		t.Fatal(err)
	}
	engine := stretch.NewEngine(nil)
	engine.Publish(stretch.NewSession(m, 120, stretch.DefaultSettings()))

	// 1 sample per block at 48 kHz ticks far faster than the 64-frame
	// buffer can absorb without a reader
	c := NewClock(engine, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	c.Run(ctx)

	if c.Dropped() == 0 {
		t.Error("Dropped() = 0, want dropped blocks")
	}
}
