// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
)

// Source is a pull-based stream of interleaved float32 samples.
type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Format describes the container parameters a decoder found.
type Format struct {
	Container  string
	Encoding   string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Encodings reported by the format decoders.
const (
	EncodingPCM    = "pcm"
	EncodingFloat  = "float"
	EncodingMP3    = "mp3"
	EncodingVorbis = "vorbis"
)

// IsPCM16Mono reports whether f is mono, 16-bit linear PCM.
func (f Format) IsPCM16Mono() bool {
	return f.Encoding == EncodingPCM && f.Channels == 1 && f.BitDepth == 16
}

func (f Format) String() string {
	return fmt.Sprintf("%s/%s %dHz %dch %dbit", f.Container, f.Encoding, f.SampleRate, f.Channels, f.BitDepth)
}

// FormatReporter is implemented by sources that know their decoded format.
type FormatReporter interface {
	Format() Format
}

// FormatOf returns the format reported by src, or one derived from its
// rate and channel count when src does not report one.
func FormatOf(src Source) Format {
	if fr, ok := src.(FormatReporter); ok {
		return fr.Format()
	}

	return Format{SampleRate: src.SampleRate(), Channels: src.Channels()}
}

// Registry maps format keys (file extensions without the dot) to decoders.
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

// Register adds d under format, replacing any decoder already there.
func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[normalizeKey(format)] = d
}

// Get returns the decoder for format, with or without a leading dot.
func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[normalizeKey(format)]
	return d, ok
}

// ForPath looks up the decoder registered for the extension of path.
func (r *Registry) ForPath(path string) (Decoder, error) {
	ext := filepath.Ext(path)
	d, ok := r.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	return d, nil
}

func normalizeKey(format string) string {
	return strings.ToLower(strings.TrimPrefix(format, "."))
}
