package server

import (
	"testing"
	"time"
)

func TestConfigFromEnvOverridesDefaults(t *testing.T) {
	t.Setenv("GAME_ADDR", ":9000")
	t.Setenv("GAME_TICK_RATE", "30")
	t.Setenv("GAME_LATENCY_MS", "350")
	t.Setenv("GAME_PLAYER_SPEED", "450")
	t.Setenv("GAME_COIN_SPAWN_MS", "1500")

	cfg := ConfigFromEnv()

	if cfg.Addr != ":9000" {
		t.Fatalf("addr: got %q want :9000", cfg.Addr)
	}
	if cfg.TickRate != 30 {
		t.Fatalf("tick rate: got %d want 30", cfg.TickRate)
	}
	if cfg.Latency != 350*time.Millisecond {
		t.Fatalf("latency: got %v want 350ms", cfg.Latency)
	}
	if cfg.World.Speed != 450 {
		t.Fatalf("speed: got %v want 450", cfg.World.Speed)
	}
	if cfg.World.SpawnInterval != 1500*time.Millisecond {
		t.Fatalf("spawn interval: got %v want 1.5s", cfg.World.SpawnInterval)
	}
}

func TestConfigFromEnvFallsBackOnGarbage(t *testing.T) {
	t.Setenv("GAME_TICK_RATE", "sixty")
	t.Setenv("GAME_LATENCY_MS", "-5")
	t.Setenv("GAME_MAP_WIDTH", "wide")

	cfg := ConfigFromEnv()
	want := DefaultConfig()

	if cfg.TickRate != want.TickRate {
		t.Fatalf("tick rate: got %d want default %d", cfg.TickRate, want.TickRate)
	}
	if cfg.Latency != 0 {
		t.Fatalf("negative latency must clamp to zero, got %v", cfg.Latency)
	}
	if cfg.World.Width != want.World.Width {
		t.Fatalf("width: got %v want default %v", cfg.World.Width, want.World.Width)
	}
}
