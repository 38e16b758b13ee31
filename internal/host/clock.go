package host

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ik5/beatstretch/stretch"
	"github.com/ik5/beatstretch/utils"
)

// DefaultSampleRate paces the clock while no session is published.
const DefaultSampleRate = 44100

const frameBuffer = 64

// Frame is one block of engine output as 16-bit PCM. The clock reuses
// Samples for later frames, so a receiver must be done with it before it
// receives the next frame.
type Frame struct {
	Samples    []int16
	SampleRate int
}

// Clock calls Engine.Process once per block period and publishes the
// blocks on Frames. The period follows the sample rate of the published
// session's material.
type Clock struct {
	engine    *stretch.Engine
	blockSize int
	frameCh   chan Frame
	dropped   atomic.Uint64
}

// NewClock drives engine in blocks of blockSize samples.
func NewClock(engine *stretch.Engine, blockSize int) *Clock {
	return &Clock{
		engine:    engine,
		blockSize: max(blockSize, 1),
		frameCh:   make(chan Frame, frameBuffer),
	}
}

// Frames returns the channel of outgoing blocks. It is closed when Run
// returns.
func (c *Clock) Frames() <-chan Frame {
	return c.frameCh
}

// Dropped reports how many blocks were discarded because the consumer of
// Frames fell behind.
func (c *Clock) Dropped() uint64 {
	return c.dropped.Load()
}

// Run drives the engine until ctx is cancelled.
func (c *Clock) Run(ctx context.Context) {
	defer close(c.frameCh)

	rate := c.sampleRate()
	ticker := time.NewTicker(period(c.blockSize, rate))
	defer ticker.Stop()

	block := make([]float32, c.blockSize)

	// one slot more than the channel holds plus the one being read
	ring := make([][]int16, frameBuffer+2)
	for i := range ring {
		ring[i] = make([]int16, c.blockSize)
	}
	slot := 0

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if c.engine.Current() == nil {
			continue
		}
		c.engine.Process(block)

		frame := Frame{Samples: ring[slot], SampleRate: rate}
		utils.Float32sToInt16(frame.Samples, block)
		select {
		case c.frameCh <- frame:
			slot = (slot + 1) % len(ring)
		default:
			// consumer too slow, drop the block to keep the clock on time
			c.dropped.Add(1)
		}

		if r := c.sampleRate(); r != rate {
			rate = r
			ticker.Reset(period(c.blockSize, rate))
		}
	}
}

func (c *Clock) sampleRate() int {
	if s := c.engine.Current(); s != nil {
		if m := s.Material(); m != nil && m.Audio != nil && m.Audio.SampleRate() > 0 {
			return m.Audio.SampleRate()
		}
	}
	return DefaultSampleRate
}

func period(blockSize, sampleRate int) time.Duration {
	return time.Duration(float64(time.Second) * float64(blockSize) / float64(sampleRate))
}
