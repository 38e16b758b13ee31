// SPDX-License-Identifier: EPL-2.0

// Package audio holds the streaming primitives shared by the loaders and
// the offline renderer.
//
// # Sources
//
// Everything that produces samples implements Source:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Samples are interleaved float32 in [-1, 1]. ReadSamples returns io.EOF
// once the stream is drained; a short read without an error is not the end
// of the stream.
//
// Decoders also implement FormatReporter so callers can check the encoding
// of a file (bit depth, channel count, container) before accepting it:
//
//	if f := audio.FormatOf(src); !f.IsPCM16Mono() {
//	    // reject
//	}
//
// # Decoders
//
// A Registry maps file extensions to decoders:
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Decoder{})
//	dec, err := reg.ForPath("loops/amen.wav")
//
// ForPath returns an error wrapping ErrUnknownFormat for unknown
// extensions. Extension matching ignores case.
//
// # Processing
//
// MonoMixer averages frames down to one channel and Resampler converts
// sample rate with cubic interpolation. Both wrap a Source and are Sources
// themselves:
//
//	src = audio.NewMonoMixer(src)
//	src = audio.NewResampler(src, 48000)
//
// SliceSource turns an in-memory buffer back into a Source and ReadAll
// drains any Source into a slice, which is how rendered output is
// resampled before it is written.
package audio
