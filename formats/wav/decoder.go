package wav

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/beatstretch/audio"
)

// WAVE format tags from the fmt chunk.
const (
	formatPCM        = 1
	formatIEEEFloat  = 3
	formatExtensible = 0xFFFE
)

// pcmReader is the part of gowav.Decoder a source reads from.
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec    pcmReader
	format audio.Format
	scale  float32
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
		if err != nil {
			return 0, fmt.Errorf("%w", err)
		}
		// go-audio reports the end of the data chunk as 0, nil
		return 0, io.EOF
	}

	for i, v := range s.intBuf.Data[:n] {
		dst[i] = float32(v) / s.scale
	}

	if err != nil {
		return n, fmt.Errorf("%w", err)
	}
	return n, nil
}

// Decoder decodes RIFF WAVE files.
type Decoder struct{}

// Decode parses the RIFF header with go-audio/wav and positions the stream
// at the start of the data chunk. Chunks other than fmt and data are skipped.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}
	if dec.NumChans == 0 || dec.SampleRate == 0 {
		return nil, ErrNotWavFile
	}

	format := audio.Format{
		Container:  "wav",
		Encoding:   encodingName(dec.WavAudioFormat),
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}
	if format.Encoding != audio.EncodingPCM {
		return nil, &audio.FormatError{Format: format, Reason: "only linear PCM WAV can be decoded"}
	}

	scale, ok := fullScale(format.BitDepth)
	if !ok {
		return nil, &audio.FormatError{Format: format, Reason: "unsupported PCM sample width"}
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingDataChunk, err)
	}

	return &source{
		dec:    dec,
		format: format,
		scale:  scale,
	}, nil
}

func encodingName(tag uint16) string {
	switch tag {
	case formatPCM:
		return audio.EncodingPCM
	case formatIEEEFloat:
		return audio.EncodingFloat
	case formatExtensible:
		return "extensible"
	default:
		return fmt.Sprintf("0x%04x", tag)
	}
}

func fullScale(bitDepth int) (float32, bool) {
	switch bitDepth {
	case 8:
		return 128, true
	case 16:
		return 32768, true
	case 24:
		return 8388608, true
	case 32:
		return 2147483648, true
	default:
		return 0, false
	}
}
