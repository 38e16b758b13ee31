// SPDX-License-Identifier: EPL-2.0

package material

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestParseTransients(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantOffsets  []int
		wantTempo    float64
		wantRate     int
		wantWarnings int
	}{
		{
			name:        "metadata and offsets",
			input:       "# sample_rate 48000\n# tempo 120\n0\n22050\n",
			wantOffsets: []int{0, 22050},
			wantTempo:   120,
			wantRate:    48000,
		},
		{
			name:        "fractional tempo",
			input:       "# tempo 97.5\n10\n",
			wantOffsets: []int{10},
			wantTempo:   97.5,
		},
		{
			name:        "unsorted with duplicates",
			input:       "300\n100\n300\n200\n100\n",
			wantOffsets: []int{100, 200, 300},
		},
		{
			name:         "junk lines read as zero",
			input:        "# tempo 120\nabc\n500\nxyz\n",
			wantOffsets:  []int{0, 500},
			wantTempo:    120,
			wantWarnings: 2,
		},
		{
			name:        "leading integer with trailing text",
			input:       "1200 kick\n  340\t\n",
			wantOffsets: []int{340, 1200},
		},
		{
			name:        "other comments and blank lines",
			input:       "# generated by analyze.py\n\n# onsets follow\n\n42\n",
			wantOffsets: []int{42},
		},
		{
			name:        "negative offsets dropped",
			input:       "-5\n5\n",
			wantOffsets: []int{5},
		},
		{
			name:        "empty",
			input:       "",
			wantOffsets: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tm, err := ParseTransients(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ParseTransients() error = %v", err)
			}
			if !slices.Equal(tm.Offsets(), tt.wantOffsets) {
				t.Errorf("Offsets() = %v, want %v", tm.Offsets(), tt.wantOffsets)
			}
			if tm.SourceTempo() != tt.wantTempo {
				t.Errorf("SourceTempo() = %v, want %v", tm.SourceTempo(), tt.wantTempo)
			}
			if tm.SourceSampleRate() != tt.wantRate {
				t.Errorf("SourceSampleRate() = %d, want %d", tm.SourceSampleRate(), tt.wantRate)
			}
			if tm.Warnings() != tt.wantWarnings {
				t.Errorf("Warnings() = %d, want %d", tm.Warnings(), tt.wantWarnings)
			}
		})
	}
}

func TestParseTransientsJSON(t *testing.T) {
	t.Parallel()

	input := `{"sample_rate": 48000, "tempo": 128, "onsets": [960, 0, 480, 480]}`
	tm, err := ParseTransientsJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTransientsJSON() error = %v", err)
	}
	if want := []int{0, 480, 960}; !slices.Equal(tm.Offsets(), want) {
		t.Errorf("Offsets() = %v, want %v", tm.Offsets(), want)
	}
	if tm.SourceTempo() != 128 || tm.SourceSampleRate() != 48000 {
		t.Errorf("metadata = %v bpm %d Hz", tm.SourceTempo(), tm.SourceSampleRate())
	}

	if _, err := ParseTransientsJSON(strings.NewReader("{not json")); err == nil {
		t.Error("ParseTransientsJSON(invalid) error = nil, want error")
	}
}

func TestTransientMap_Fit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		offsets []int
		mapRate int
		bufRate int
		bufLen  int
		want    []int
	}{
		{"same rate", []int{0, 100, 200}, 44100, 44100, 1000, []int{0, 100, 200}},
		{"no map rate", []int{0, 100, 200}, 0, 44100, 1000, []int{0, 100, 200}},
		{"drops out of range", []int{0, 999, 1000, 5000}, 44100, 44100, 1000, []int{0, 999}},
		{"48k to 24k", []int{0, 480, 960}, 48000, 24000, 1000, []int{0, 240, 480}},
		{"48k to 44.1k", []int{48000}, 48000, 44100, 50000, []int{44100}},
		{"rescale merges neighbours", []int{10, 11}, 48000, 8000, 100, []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := NewAudioBuffer(make([]float32, tt.bufLen), tt.bufRate)
			fitted := NewTransientMap(tt.offsets, 120, tt.mapRate).Fit(buf)

			if !slices.Equal(fitted.Offsets(), tt.want) {
				t.Errorf("Fit() offsets = %v, want %v", fitted.Offsets(), tt.want)
			}
			if fitted.SourceSampleRate() != tt.bufRate {
				t.Errorf("Fit() rate = %d, want %d", fitted.SourceSampleRate(), tt.bufRate)
			}
			if fitted.SourceTempo() != 120 {
				t.Errorf("Fit() tempo = %v, want 120", fitted.SourceTempo())
			}
		})
	}
}

func TestLoadTransients(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	ana := filepath.Join(dir, "loop.ana")
	if err := os.WriteFile(ana, []byte("# tempo 90\n0\n4410\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tm, err := LoadTransients(ana)
	if err != nil {
		t.Fatalf("LoadTransients(.ana) error = %v", err)
	}
	if tm.Len() != 2 || tm.SourceTempo() != 90 {
		t.Errorf("got %d offsets at %v bpm", tm.Len(), tm.SourceTempo())
	}

	js := filepath.Join(dir, "loop.JSON")
	if err := os.WriteFile(js, []byte(`{"tempo": 90, "onsets": [7]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if tm, err := LoadTransients(js); err != nil || tm.At(0) != 7 {
		t.Errorf("LoadTransients(.json) = %v, %v", tm, err)
	}

	if _, err := LoadTransients(filepath.Join(dir, "missing.ana")); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("LoadTransients(missing) error = %v, want ErrFileNotFound", err)
	}
}

func TestLeadingInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"123", 123, true},
		{"+7", 7, true},
		{"-3x", -3, true},
		{"12.5", 12, true},
		{"x12", 0, false},
		{"-", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := leadingInt(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("leadingInt(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func BenchmarkParseTransients(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("# sample_rate 48000\n# tempo 120\n")
	for i := range 10000 {
		sb.WriteString(strings.Repeat("1", 1+i%5))
		sb.WriteByte('\n')
	}
	input := sb.String()

	b.ReportAllocs()
	for b.Loop() {
		_, _ = ParseTransients(strings.NewReader(input))
	}
}
