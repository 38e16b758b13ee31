package aiff

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/beatstretch/audio"
)

// aiffReader is the part of aiff.Decoder a source reads from.
type aiffReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec    aiffReader
	format audio.Format
	intBuf *goaudio.IntBuffer
}

func (s *source) SampleRate() int      { return s.format.SampleRate }
func (s *source) Channels() int        { return s.format.Channels }
func (s *source) Close() error         { return nil }
func (s *source) Format() audio.Format { return s.format }
func (s *source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{Data: make([]int, len(dst))}
	}
	s.intBuf.Data = s.intBuf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.intBuf)
	if n == 0 {
		if err != nil && err != io.EOF {
			return 0, fmt.Errorf("%w", err)
		}
		return 0, io.EOF
	}

	for i, v := range s.intBuf.Data[:n] {
		dst[i] = float32(v) / 32768.0
	}

	// a short read without an error is the end of the SSND chunk
	if err == nil && n < len(dst) {
		return n, io.EOF
	}
	return n, err
}

// Decoder decodes AIFF files.
type Decoder struct{}

// Decode reads the COMM chunk with go-audio/aiff. Only 16-bit PCM is
// decoded; other widths return an *audio.FormatError.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// go-audio requires io.ReadSeeker
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	f := dec.Format()
	if f == nil {
		return nil, ErrUnsupportedAiffLayout
	}

	format := audio.Format{
		Container:  "aiff",
		Encoding:   audio.EncodingPCM,
		SampleRate: f.SampleRate,
		Channels:   f.NumChannels,
		BitDepth:   int(dec.BitDepth),
	}
	if format.BitDepth != 16 {
		return nil, &audio.FormatError{Format: format, Reason: "only 16-bit PCM AIFF can be decoded"}
	}

	return &source{dec: dec, format: format}, nil
}
