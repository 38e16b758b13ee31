// SPDX-License-Identifier: EPL-2.0

package material

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Material is a loaded audio buffer and the transient map fitted to it.
// Neither half changes after construction.
type Material struct {
	Audio      *AudioBuffer
	Transients *TransientMap

	AudioPath      string
	AnnotationPath string
}

// New validates buf and tm and fits tm to buf.
func New(buf *AudioBuffer, tm *TransientMap) (*Material, error) {
	if buf == nil || buf.Len() == 0 {
		return nil, ErrEmptyBuffer
	}
	if tm == nil || !(tm.SourceTempo() > 0) {
		return nil, ErrInvalidTempo
	}

	return &Material{Audio: buf, Transients: tm.Fit(buf)}, nil
}

// AnnotationPath returns file with its extension replaced by .ana.
func AnnotationPath(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file)) + ".ana"
}

// FindAnnotation loads the annotation paired with an audio file: the .ana
// file, or a same-stem .json export when there is no .ana file.
func FindAnnotation(file string) (*TransientMap, string, error) {
	path := AnnotationPath(file)
	tm, err := LoadTransients(path)
	if errors.Is(err, ErrFileNotFound) {
		alt := strings.TrimSuffix(path, ".ana") + ".json"
		if tm, altErr := LoadTransients(alt); altErr == nil {
			return tm, alt, nil
		}
	}
	if err != nil {
		return nil, path, err
	}
	return tm, path, nil
}

// Load reads an audio file and its paired annotation into a Material.
func Load(file string, opts LoadOptions) (*Material, error) {
	tm, annPath, err := FindAnnotation(file)
	if err != nil {
		return nil, fmt.Errorf("loading transients: %w", err)
	}

	buf, err := LoadAudio(file, opts)
	if err != nil {
		return nil, fmt.Errorf("loading audio: %w", err)
	}

	m, err := New(buf, tm)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	m.AudioPath = file
	m.AnnotationPath = annPath
	return m, nil
}
