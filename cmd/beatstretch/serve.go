// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ik5/beatstretch"
	"github.com/ik5/beatstretch/internal/config"
	"github.com/ik5/beatstretch/internal/host"
	"github.com/ik5/beatstretch/internal/monitor"
	"github.com/ik5/beatstretch/material"
	"github.com/ik5/beatstretch/stretch"
)

const eventQueueSize = 1024

func runServe(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", cfg.Addr, "listen address")
	block := fs.Int("block", cfg.BlockSize, "samples per processing block")
	media := fs.String("media", cfg.MediaDir, "directory play commands are resolved in")
	downmix := fs.Bool("downmix", cfg.Downmix, "mix multichannel input down to mono")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 && fs.NArg() != 2 {
		usage()
		return fmt.Errorf("expected no arguments or <input> <tempo>, got %d", fs.NArg())
	}
	if *block <= 0 {
		return beatstretch.ErrInvalidBlock
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	events := host.NewEventQueue(eventQueueSize)
	engine := stretch.NewEngine(events)
	player := beatstretch.NewPlayer(engine, events, material.LoadOptions{Downmix: *downmix})
	player.SetSettings(cfg.Settings())

	clock := host.NewClock(engine, *block)
	srv := monitor.New(*addr, player, monitor.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		MediaDir:       *media,
	})

	go clock.Run(ctx)
	go srv.Run(ctx, events.Events(), clock.Frames())

	if fs.NArg() == 2 {
		tempo, err := strconv.ParseFloat(fs.Arg(1), 64)
		if err != nil {
			return fmt.Errorf("tempo %q: %w", fs.Arg(1), beatstretch.ErrInvalidTempo)
		}
		if _, err := player.Play(ctx, fs.Arg(0), tempo); err != nil {
			log.Printf("initial play failed: %v", err)
		}
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case <-ctx.Done():
		log.Println("shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	player.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if n := events.Dropped(); n > 0 {
		log.Printf("dropped %d events", n)
	}
	if n := clock.Dropped(); n > 0 {
		log.Printf("dropped %d audio frames", n)
	}
	return nil
}
