// SPDX-License-Identifier: EPL-2.0

package material

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/ik5/beatstretch/audio"
	"github.com/ik5/beatstretch/formats/aiff"
	"github.com/ik5/beatstretch/formats/mp3"
	"github.com/ik5/beatstretch/formats/vorbis"
	"github.com/ik5/beatstretch/formats/wav"
)

// AudioBuffer is a decoded mono recording. It is never modified after
// LoadAudio or NewAudioBuffer returns it.
type AudioBuffer struct {
	samples    []float32
	sampleRate int
	format     audio.Format
}

// NewAudioBuffer wraps samples without copying them. The caller must not
// modify samples afterwards.
func NewAudioBuffer(samples []float32, sampleRate int) *AudioBuffer {
	return &AudioBuffer{
		samples:    samples,
		sampleRate: sampleRate,
		format: audio.Format{
			Container:  "memory",
			Encoding:   audio.EncodingFloat,
			SampleRate: sampleRate,
			Channels:   1,
			BitDepth:   32,
		},
	}
}

// Samples must not be modified.
func (b *AudioBuffer) Samples() []float32   { return b.samples }
func (b *AudioBuffer) Len() int             { return len(b.samples) }
func (b *AudioBuffer) SampleRate() int      { return b.sampleRate }
func (b *AudioBuffer) Format() audio.Format { return b.format }

// At returns the sample at i, or 0 when i is out of range.
func (b *AudioBuffer) At(i int) float32 {
	if i < 0 || i >= len(b.samples) {
		return 0
	}
	return b.samples[i]
}

// LoadOptions controls LoadAudio.
type LoadOptions struct {
	// Downmix accepts multi-channel and compressed sources and mixes them
	// down to mono. Without it only mono 16-bit PCM is accepted.
	Downmix bool
	// Registry overrides the decoders used; nil means DefaultRegistry.
	Registry *audio.Registry
}

// DefaultRegistry returns a registry with every bundled decoder.
func DefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	return r
}

// LoadAudio decodes the file at path into an AudioBuffer.
func LoadAudio(path string, opts LoadOptions) (*AudioBuffer, error) {
	reg := opts.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}

	dec, err := reg.ForPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		var fe *audio.FormatError
		if errors.As(err, &fe) {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
		}
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer src.Close()

	format := audio.FormatOf(src)
	log.Printf("material: %s: %s", path, format)

	if !format.IsPCM16Mono() {
		if !opts.Downmix || format.Encoding == audio.EncodingPCM && format.BitDepth != 16 {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat,
				&audio.FormatError{Format: format, Reason: "want mono 16-bit linear PCM"})
		}
		if format.Channels > 1 {
			src = audio.NewMonoMixer(src)
			format = audio.FormatOf(src)
		}
	}

	samples, err := audio.ReadAll(src, src.BufSize())
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return &AudioBuffer{samples: samples, sampleRate: format.SampleRate, format: format}, nil
}
