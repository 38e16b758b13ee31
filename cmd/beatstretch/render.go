// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/ik5/beatstretch"
	"github.com/ik5/beatstretch/audio"
	"github.com/ik5/beatstretch/formats/wav"
	"github.com/ik5/beatstretch/internal/config"
	"github.com/ik5/beatstretch/material"
	"github.com/ik5/beatstretch/stretch"
	"github.com/ik5/beatstretch/utils"
)

func runRender(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	outPath := fs.String("o", "", "output WAV file (default <input>_<tempo>bpm.wav)")
	rate := fs.Int("rate", 0, "resample the output to this rate, 0 keeps the source rate")
	downmix := fs.Bool("downmix", cfg.Downmix, "mix multichannel input down to mono")
	block := fs.Int("block", cfg.BlockSize, "samples per processing block")
	verbose := fs.Bool("v", false, "log mode changes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		usage()
		return fmt.Errorf("expected <input> <tempo>, got %d arguments", fs.NArg())
	}

	inPath := fs.Arg(0)
	tempo, err := strconv.ParseFloat(fs.Arg(1), 64)
	if err != nil {
		return fmt.Errorf("tempo %q: %w", fs.Arg(1), beatstretch.ErrInvalidTempo)
	}
	if *outPath == "" {
		*outPath = defaultOutput(inPath, tempo)
	}

	m, err := material.Load(inPath, material.LoadOptions{Downmix: *downmix})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sink := stretch.EventFunc(func(e stretch.Event) {
		switch e.Kind {
		case stretch.EventMode:
			if *verbose {
				log.Printf("%d: %s %.0fms", e.Position, e.Phase, e.Value)
			}
		case stretch.EventDuration:
			log.Printf("rendered %.3fs", e.Value)
		}
	})

	samples, err := beatstretch.Render(ctx, m, tempo, cfg.Settings(), *block, sink)
	if err != nil {
		return err
	}

	outRate := m.Audio.SampleRate()
	if *rate > 0 && *rate != outRate {
		res := audio.NewResampler(audio.NewSliceSource(samples, outRate, 1), *rate)
		samples, err = audio.ReadAll(res, 4096)
		if err != nil {
			return fmt.Errorf("resample: %w", err)
		}
		outRate = *rate
	}

	pcm := make([]int16, len(samples))
	utils.Float32sToInt16(pcm, samples)

	f, err := os.Create(*outPath)
	if err != nil {
		return err
	}
	if err := wav.WriteWAV16(f, outRate, pcm); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.Printf("wrote %s: %d samples at %d Hz", *outPath, len(pcm), outRate)
	return nil
}

func defaultOutput(in string, tempo float64) string {
	base := strings.TrimSuffix(in, filepath.Ext(in))
	return fmt.Sprintf("%s_%sbpm.wav", base, strconv.FormatFloat(tempo, 'f', -1, 64))
}
