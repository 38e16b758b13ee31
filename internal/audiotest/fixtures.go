// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"strings"
)

// Pattern returns n samples whose values are distinct within every run of
// 1000 and exactly representable as float32, so sample identity can be
// asserted with ==.
func Pattern(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(i%1000+1) / 1024
	}
	return out
}

// PCM16 converts normalized samples to the int16 values a 16-bit WAV stores
// for them, using the same 32768 scale the decoders divide by.
func PCM16(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, v := range samples {
		out[i] = int16(max(min(v*32768, 32767), -32768))
	}
	return out
}

// WAVBytes builds a canonical 44-byte-header PCM WAV file.
func WAVBytes(sampleRate, channels, bitsPerSample int, samples []int16) []byte {
	buf := new(bytes.Buffer)
	dataSize := uint32(len(samples) * bitsPerSample / 8)
	blockAlign := uint16(channels * bitsPerSample / 8)

	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate)*uint32(blockAlign))
	_ = binary.Write(buf, binary.LittleEndian, blockAlign)
	_ = binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, dataSize)

	switch bitsPerSample {
	case 8:
		for _, s := range samples {
			buf.WriteByte(byte(int(s>>8) + 128))
		}
	default:
		for _, s := range samples {
			_ = binary.Write(buf, binary.LittleEndian, s)
		}
	}

	return buf.Bytes()
}

// WriteWAV writes WAVBytes to path.
func WriteWAV(path string, sampleRate, channels, bitsPerSample int, samples []int16) error {
	return os.WriteFile(path, WAVBytes(sampleRate, channels, bitsPerSample, samples), 0o644)
}

// Annotation renders an annotation file. A zero sampleRate or tempo leaves
// the corresponding metadata line out.
func Annotation(sampleRate, tempo int, offsets []int) string {
	var b strings.Builder
	if sampleRate > 0 {
		fmt.Fprintf(&b, "# sample_rate %d\n", sampleRate)
	}
	if tempo > 0 {
		fmt.Fprintf(&b, "# tempo %d\n", tempo)
	}
	for _, o := range offsets {
		fmt.Fprintf(&b, "%d\n", o)
	}
	return b.String()
}

// WriteAnnotation writes Annotation to path.
func WriteAnnotation(path string, sampleRate, tempo int, offsets []int) error {
	return os.WriteFile(path, []byte(Annotation(sampleRate, tempo, offsets)), 0o644)
}
