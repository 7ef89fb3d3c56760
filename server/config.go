package server

import (
	"os"
	"strconv"
	"time"

	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/internal/world"
)

// Config carries every server knob fixed at startup. Nothing here is
// runtime-mutable.
type Config struct {
	Addr     string
	TickRate int
	// Latency is the artificial one-way delay injected in front of every
	// inbound input and outbound snapshot.
	Latency time.Duration
	World   world.Config
}

// DefaultConfig is the standard deployment: 60 Hz ticks with 200ms
// simulated one-way latency on :8765.
func DefaultConfig() Config {
	return Config{
		Addr:     ":8765",
		TickRate: 60,
		Latency:  200 * time.Millisecond,
		World:    world.DefaultConfig(),
	}
}

// ConfigFromEnv resolves the config from environment variables, falling
// back to defaults for anything unset or unparseable. Callers that want
// .env support load it before calling this.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("GAME_ADDR"); v != "" {
		cfg.Addr = v
	}
	cfg.TickRate = envInt("GAME_TICK_RATE", cfg.TickRate)
	cfg.Latency = envDurationMillis("GAME_LATENCY_MS", cfg.Latency)
	cfg.World.Width = envFloat("GAME_MAP_WIDTH", cfg.World.Width)
	cfg.World.Height = envFloat("GAME_MAP_HEIGHT", cfg.World.Height)
	cfg.World.PlayerRadius = envFloat("GAME_PLAYER_RADIUS", cfg.World.PlayerRadius)
	cfg.World.CoinRadius = envFloat("GAME_COIN_RADIUS", cfg.World.CoinRadius)
	cfg.World.Speed = envFloat("GAME_PLAYER_SPEED", cfg.World.Speed)
	cfg.World.SpawnInterval = envDurationMillis("GAME_COIN_SPAWN_MS", cfg.World.SpawnInterval)

	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultConfig().TickRate
	}
	if cfg.Latency < 0 {
		cfg.Latency = 0
	}
	return cfg
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envDurationMillis(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return time.Duration(parsed) * time.Millisecond
}
