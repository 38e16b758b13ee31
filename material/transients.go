// SPDX-License-Identifier: EPL-2.0

package material

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// TransientMap is an ascending list of onset offsets into an AudioBuffer
// together with the tempo and sample rate the offsets were analysed at.
type TransientMap struct {
	offsets    []int
	tempo      float64
	sampleRate int
	warnings   int
}

// NewTransientMap sorts and deduplicates a copy of offsets. Negative
// offsets are dropped.
func NewTransientMap(offsets []int, tempo float64, sampleRate int) *TransientMap {
	tm := &TransientMap{tempo: tempo, sampleRate: sampleRate}
	tm.offsets = normalizeOffsets(slices.Clone(offsets))
	return tm
}

func normalizeOffsets(offsets []int) []int {
	offsets = slices.DeleteFunc(offsets, func(o int) bool { return o < 0 })
	slices.Sort(offsets)
	return slices.Compact(offsets)
}

// Offsets are ascending sample positions. They must not be modified.
func (m *TransientMap) Offsets() []int { return m.offsets }
func (m *TransientMap) Len() int       { return len(m.offsets) }
func (m *TransientMap) At(i int) int   { return m.offsets[i] }

// SourceTempo is the tempo the material was recorded at, in bpm.
func (m *TransientMap) SourceTempo() float64 { return m.tempo }

// SourceSampleRate is the rate the offsets are counted in.
func (m *TransientMap) SourceSampleRate() int { return m.sampleRate }

// Warnings counts lines that did not parse as a number and were read as
// offset 0.
func (m *TransientMap) Warnings() int { return m.warnings }

// Fit returns the map expressed in buf's sample rate with every offset
// inside buf. Offsets are rescaled when the annotation was written at a
// different rate; a map without a sample rate is taken to already match.
func (m *TransientMap) Fit(buf *AudioBuffer) *TransientMap {
	out := &TransientMap{tempo: m.tempo, sampleRate: buf.SampleRate(), warnings: m.warnings}

	scale := 1.0
	if m.sampleRate > 0 && buf.SampleRate() > 0 && m.sampleRate != buf.SampleRate() {
		scale = float64(buf.SampleRate()) / float64(m.sampleRate)
	}

	offsets := make([]int, 0, len(m.offsets))
	for _, o := range m.offsets {
		o = int(math.Round(float64(o) * scale))
		if o >= buf.Len() {
			break
		}
		offsets = append(offsets, o)
	}
	out.offsets = slices.Compact(offsets)
	return out
}

// ParseTransients reads the line format described in the package docs.
func ParseTransients(r io.Reader) (*TransientMap, error) {
	tm := &TransientMap{}
	var offsets []int

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
		case strings.HasPrefix(line, "#"):
			tm.readMeta(strings.TrimSpace(line[1:]))
		default:
			o, ok := leadingInt(line)
			if !ok {
				tm.warnings++
			}
			offsets = append(offsets, o)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading transients: %w", err)
	}

	tm.offsets = normalizeOffsets(offsets)
	return tm, nil
}

func (m *TransientMap) readMeta(comment string) {
	key, value, ok := strings.Cut(comment, " ")
	if !ok {
		return
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}

	switch key {
	case "sample_rate":
		if n, ok := leadingInt(value); ok {
			m.sampleRate = n
		}
	case "tempo":
		if f, err := strconv.ParseFloat(strings.Fields(value)[0], 64); err == nil {
			m.tempo = f
		}
	}
}

// leadingInt parses the optionally signed run of digits at the start of s.
// ok is false when s does not start with a number, in which case 0 is
// returned.
func leadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

type jsonAnnotation struct {
	SampleRate int     `json:"sample_rate"`
	Tempo      float64 `json:"tempo"`
	Onsets     []int   `json:"onsets"`
}

// ParseTransientsJSON reads the JSON export of the onset analyzer.
func ParseTransientsJSON(r io.Reader) (*TransientMap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading transients: %w", err)
	}

	var a jsonAnnotation
	if err := sonic.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decoding transients: %w", err)
	}

	return NewTransientMap(a.Onsets, a.Tempo, a.SampleRate), nil
}

// LoadTransients reads an annotation file, choosing the JSON parser for a
// .json extension.
func LoadTransients(path string) (*TransientMap, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseTransientsJSON(f)
	}
	return ParseTransients(f)
}
