package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"soul-battle/internal/game"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "soul-battle.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	gc, err := cfg.Battle.GameConfig()
	if err != nil {
		t.Fatal(err)
	}
	if gc != game.DefaultConfig() {
		t.Errorf("GameConfig = %+v, want %+v", gc, game.DefaultConfig())
	}
}

func TestDefaultHoldOutlastsKeyRepeat(t *testing.T) {
	// Terminals wait up to about 600ms before auto-repeating a held key.
	const repeatDelay = 600 * time.Millisecond
	if hw := Default().Server.HoldWindow; hw < repeatDelay {
		t.Errorf("hold window %v releases before the first repeat at %v", hw, repeatDelay)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("SOUL_BATTLE_SEED", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load = %+v, want defaults", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("SOUL_BATTLE_SEED", "")

	path := writeFile(t, `
server:
  ssh_addr: ":2022"
  hold_window: 250ms
  allowed_origins: ["soul.example.com"]
battle:
  max_bullets: 64
  overflow: recycle_oldest
  handoff: preserve
  handoff_delay: 1500ms
  seed: 7
audio:
  enabled: false
  volume: 0.25
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.SSHAddr != ":2022" {
		t.Errorf("ssh addr = %q", cfg.Server.SSHAddr)
	}
	if cfg.Server.HTTPAddr != ":8080" {
		t.Errorf("http addr = %q, want default", cfg.Server.HTTPAddr)
	}
	if cfg.Server.HoldWindow != 250*time.Millisecond {
		t.Errorf("hold window = %v", cfg.Server.HoldWindow)
	}
	if !reflect.DeepEqual(cfg.Server.AllowedOrigins, []string{"soul.example.com"}) {
		t.Errorf("origins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Audio.Enabled || cfg.Audio.Volume != 0.25 {
		t.Errorf("audio = %+v", cfg.Audio)
	}
	if cfg.Battle.Seed != 7 {
		t.Errorf("seed = %d", cfg.Battle.Seed)
	}

	gc, err := cfg.Battle.GameConfig()
	if err != nil {
		t.Fatal(err)
	}
	if gc.MaxBullets != 64 || gc.Overflow != game.OverflowRecycleOldest {
		t.Errorf("bullets = %d/%v", gc.MaxBullets, gc.Overflow)
	}
	if gc.Handoff != game.HandoffPreserve || gc.HandoffDelay != 1500*time.Millisecond {
		t.Errorf("handoff = %v after %v", gc.Handoff, gc.HandoffDelay)
	}
	if gc.Width != 600 || gc.Height != 400 {
		t.Errorf("canvas = %vx%v, want defaults", gc.Width, gc.Height)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed yaml", "server: [oops"},
		{"unknown overflow", "battle:\n  overflow: explode\n"},
		{"unknown handoff", "battle:\n  handoff: never\n"},
		{"tiny canvas", "battle:\n  width: 90\n"},
		{"negative bullets", "battle:\n  max_bullets: -1\n"},
		{"loud volume", "audio:\n  volume: 2\n"},
		{"zero hold window", "server:\n  hold_window: 0s\n"},
	}
	t.Setenv("PORT", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("SOUL_BATTLE_SEED", "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeFile(t, tt.body)); err == nil {
				t.Errorf("Load accepted %q", tt.body)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	env := map[string]string{
		"PORT":             "2200",
		"HTTP_PORT":        "9090",
		"SOUL_BATTLE_SEED": "42",
	}
	cfg := Default()
	if err := cfg.applyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatal(err)
	}
	if cfg.Server.SSHAddr != ":2200" || cfg.Server.HTTPAddr != ":9090" {
		t.Errorf("addrs = %q %q", cfg.Server.SSHAddr, cfg.Server.HTTPAddr)
	}
	if cfg.Battle.Seed != 42 {
		t.Errorf("seed = %d", cfg.Battle.Seed)
	}

	env["SOUL_BATTLE_SEED"] = "lucky"
	err := cfg.applyEnv(func(k string) string { return env[k] })
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("bad seed error = %v, want ErrInvalid", err)
	}
}
