package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ik5/beatstretch/stretch"
)

// Config holds the runtime configuration of the beatstretch command.
type Config struct {
	Addr           string
	BlockSize      int
	Downmix        bool
	AllowedOrigins []string
	// MediaDir confines files requested over the monitor; empty allows any
	// path.
	MediaDir string

	// Stretch settings for new sessions.
	Attack    time.Duration
	Sustain   time.Duration
	AttackMin time.Duration
	AttackMax time.Duration
}

// Settings returns the stretch settings described by c.
func (c *Config) Settings() stretch.Settings {
	return stretch.Settings{
		AttackDefault: c.Attack,
		Sustain:       c.Sustain,
		AttackMin:     c.AttackMin,
		AttackMax:     c.AttackMax,
	}
}

// Load reads configuration from environment variables with defaults.
// A .env file in the working directory, or the files named in envFiles,
// is loaded first; variables already set in the environment win.
func Load(envFiles ...string) (*Config, error) {
	// missing .env files are not an error
	_ = godotenv.Load(envFiles...)

	def := stretch.DefaultSettings()
	cfg := &Config{
		Addr:           ":8080",
		BlockSize:      64,
		AllowedOrigins: []string{"*"},
		Attack:         def.AttackDefault,
		Sustain:        def.Sustain,
		AttackMin:      def.AttackMin,
		AttackMax:      def.AttackMax,
	}

	if addr := os.Getenv("BEATSTRETCH_ADDR"); addr != "" {
		cfg.Addr = addr
	}

	if v := os.Getenv("BEATSTRETCH_BLOCK_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid BEATSTRETCH_BLOCK_SIZE %q", v)
		}
		cfg.BlockSize = n
	}

	if v := os.Getenv("BEATSTRETCH_DOWNMIX"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BEATSTRETCH_DOWNMIX: %w", err)
		}
		cfg.Downmix = b
	}

	cfg.MediaDir = os.Getenv("BEATSTRETCH_MEDIA_DIR")

	// comma-separated
	if origins := os.Getenv("BEATSTRETCH_ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = strings.Split(origins, ",")
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"BEATSTRETCH_ATTACK_MS", &cfg.Attack},
		{"BEATSTRETCH_SUSTAIN_MS", &cfg.Sustain},
		{"BEATSTRETCH_ATTACK_MIN_MS", &cfg.AttackMin},
		{"BEATSTRETCH_ATTACK_MAX_MS", &cfg.AttackMax},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			return nil, fmt.Errorf("invalid %s %q", d.key, v)
		}
		*d.dst = time.Duration(ms) * time.Millisecond
	}

	if cfg.AttackMin > cfg.AttackMax {
		return nil, fmt.Errorf("BEATSTRETCH_ATTACK_MIN_MS (%v) exceeds BEATSTRETCH_ATTACK_MAX_MS (%v)", cfg.AttackMin, cfg.AttackMax)
	}

	return cfg, nil
}
