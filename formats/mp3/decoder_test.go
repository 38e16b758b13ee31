// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/ik5/beatstretch/audio"
)

// mockMP3Reader hands out little-endian PCM in deliberately small pieces,
// the way go-mp3 returns partial frames.
type mockMP3Reader struct {
	sampleRate int
	pcm        []byte
	piece      int
}

func newMockReader(rate int, samples []int16, piece int) *mockMP3Reader {
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(s))
	}
	return &mockMP3Reader{sampleRate: rate, pcm: pcm, piece: piece}
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if len(m.pcm) == 0 {
		return 0, io.EOF
	}
	n := copy(buf[:min(len(buf), m.piece)], m.pcm)
	m.pcm = m.pcm[n:]
	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader([]byte("This is not MP3 data"))); err == nil {
		t.Error("Decode() error = nil, want error")
	}
}

func TestSource_Format(t *testing.T) {
	t.Parallel()

	src := &source{dec: newMockReader(44100, nil, 4)}
	want := audio.Format{Container: "mp3", Encoding: audio.EncodingMP3, SampleRate: 44100, Channels: 2, BitDepth: 16}
	if got := src.Format(); got != want {
		t.Errorf("Format() = %+v, want %+v", got, want)
	}
	if src.Format().IsPCM16Mono() {
		t.Error("mp3 source must not pass as mono PCM")
	}
}

func TestSource_ReadSamplesAcrossShortReads(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 16384, -16384, 32767, -32768, 8192, -8192}
	src := &source{dec: newMockReader(48000, samples, 3)}

	got, err := audio.ReadAll(src, 4)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(got) != len(samples) {
		t.Fatalf("read %d samples, want %d", len(got), len(samples))
	}
	for i, s := range samples {
		if want := float32(s) / 32768; got[i] != want {
			t.Errorf("sample %d = %v, want %v", i, got[i], want)
		}
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	samples := make([]int16, 1<<16)
	buf := make([]float32, 4096)

	b.ReportAllocs()
	for b.Loop() {
		src := &source{dec: newMockReader(44100, samples, 4096)}
		_, _ = audio.ReadAll(src, len(buf))
	}
}
