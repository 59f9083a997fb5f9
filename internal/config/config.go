// Package config loads the soul-battle settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"soul-battle/internal/game"
)

// ErrInvalid is returned for settings that fail validation.
var ErrInvalid = errors.New("invalid config")

// Config is the full process configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Battle BattleConfig `yaml:"battle"`
	Audio  AudioConfig  `yaml:"audio"`
}

// ServerConfig holds the listener settings of the hosts.
type ServerConfig struct {
	SSHAddr    string        `yaml:"ssh_addr"`
	HostKey    string        `yaml:"host_key"`
	HTTPAddr   string        `yaml:"http_addr"`
	HoldWindow time.Duration `yaml:"hold_window"` // terminal key hold, see game.HoldLatch

	// AllowedOrigins are host patterns accepted for cross-origin websockets.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// BattleConfig mirrors game.Config in file form.
type BattleConfig struct {
	Width        float64       `yaml:"width"`
	Height       float64       `yaml:"height"`
	TickRate     int           `yaml:"tick_rate"`
	MaxBullets   int           `yaml:"max_bullets"`
	Overflow     string        `yaml:"overflow"`
	Handoff      string        `yaml:"handoff"`
	HandoffDelay time.Duration `yaml:"handoff_delay"`
	Seed         int64         `yaml:"seed"` // 0 seeds from the clock
	HeartSprite  string        `yaml:"heart_sprite"`
}

// AudioConfig holds the local synthesizer settings.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Volume     float64 `yaml:"volume"`
	SampleRate int     `yaml:"sample_rate"`
}

// Default returns the built-in settings.
func Default() Config {
	gc := game.DefaultConfig()
	return Config{
		Server: ServerConfig{
			SSHAddr:    ":2222",
			HostKey:    "host_key",
			HTTPAddr:   ":8080",
			HoldWindow: 600 * time.Millisecond,
		},
		Battle: BattleConfig{
			Width:        gc.Width,
			Height:       gc.Height,
			TickRate:     gc.TickRate,
			MaxBullets:   gc.MaxBullets,
			Overflow:     gc.Overflow.String(),
			Handoff:      gc.Handoff.String(),
			HandoffDelay: gc.HandoffDelay,
		},
		Audio: AudioConfig{
			Enabled:    true,
			Volume:     0.5,
			SampleRate: 44100,
		},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path or a missing file leaves the defaults in place.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv applies PORT, HTTP_PORT and SOUL_BATTLE_SEED.
func (c *Config) applyEnv(getenv func(string) string) error {
	if port := getenv("PORT"); port != "" {
		c.Server.SSHAddr = ":" + port
	}
	if port := getenv("HTTP_PORT"); port != "" {
		c.Server.HTTPAddr = ":" + port
	}
	if seed := getenv("SOUL_BATTLE_SEED"); seed != "" {
		n, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: SOUL_BATTLE_SEED %q: %v", ErrInvalid, seed, err)
		}
		c.Battle.Seed = n
	}
	return nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if _, err := c.Battle.GameConfig(); err != nil {
		return err
	}
	switch {
	case c.Server.SSHAddr == "" && c.Server.HTTPAddr == "":
		return fmt.Errorf("%w: no listener address", ErrInvalid)
	case c.Server.HoldWindow <= 0:
		return fmt.Errorf("%w: hold window %v", ErrInvalid, c.Server.HoldWindow)
	case c.Audio.Volume < 0 || c.Audio.Volume > 1:
		return fmt.Errorf("%w: volume %v outside [0,1]", ErrInvalid, c.Audio.Volume)
	case c.Audio.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalid, c.Audio.SampleRate)
	}
	return nil
}

// GameConfig converts the battle section to engine settings.
func (b BattleConfig) GameConfig() (game.Config, error) {
	overflow, err := game.ParseOverflowPolicy(b.Overflow)
	if err != nil {
		return game.Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	handoff, err := game.ParseHandoffPolicy(b.Handoff)
	if err != nil {
		return game.Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	gc := game.Config{
		Width:        b.Width,
		Height:       b.Height,
		TickRate:     b.TickRate,
		MaxBullets:   b.MaxBullets,
		Overflow:     overflow,
		Handoff:      handoff,
		HandoffDelay: b.HandoffDelay,
	}
	if err := gc.Validate(); err != nil {
		return game.Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return gc, nil
}
