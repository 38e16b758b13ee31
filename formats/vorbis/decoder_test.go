// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"io"
	"testing"

	"github.com/ik5/beatstretch/audio"
)

// mockOggVorbisReader simulates oggvorbis.Reader, returning values
// (not frames) like the real reader.
type mockOggVorbisReader struct {
	sampleRate int
	channels   int
	values     []float32
}

func (m *mockOggVorbisReader) SampleRate() int { return m.sampleRate }
func (m *mockOggVorbisReader) Channels() int   { return m.channels }

func (m *mockOggVorbisReader) Read(buf []float32) (int, error) {
	if len(m.values) == 0 {
		return 0, io.EOF
	}
	n := copy(buf, m.values)
	m.values = m.values[n:]
	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader([]byte("This is not Ogg data"))); err == nil {
		t.Error("Decode() error = nil, want error")
	}
}

func TestSource_Format(t *testing.T) {
	t.Parallel()

	src := &source{dec: &mockOggVorbisReader{sampleRate: 44100, channels: 2}}
	f := src.Format()
	if f.Encoding != audio.EncodingVorbis || f.Channels != 2 || f.SampleRate != 44100 {
		t.Errorf("Format() = %+v", f)
	}
}

func TestSource_ReadSamplesWholeFrames(t *testing.T) {
	t.Parallel()

	values := []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3}
	src := &source{dec: &mockOggVorbisReader{sampleRate: 22050, channels: 2, values: values}}

	buf := make([]float32, 5) // trimmed to 4, two frames
	n, err := src.ReadSamples(buf)
	if n != 4 || err != nil {
		t.Fatalf("ReadSamples() = %d, %v; want 4, nil", n, err)
	}

	rest, err := audio.ReadAll(src, 64)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(rest) != 2 || rest[0] != 0.3 || rest[1] != -0.3 {
		t.Errorf("remaining = %v, want [0.3 -0.3]", rest)
	}
}

func TestSource_ReadSamplesTooSmall(t *testing.T) {
	t.Parallel()

	src := &source{dec: &mockOggVorbisReader{channels: 2, values: []float32{1, 1}}}
	if n, err := src.ReadSamples(make([]float32, 1)); n != 0 || err != nil {
		t.Errorf("ReadSamples(1) = %d, %v; want 0, nil", n, err)
	}
}
