package world

import "time"

// Config carries the simulation tuning fixed at startup.
type Config struct {
	Width        float64
	Height       float64
	PlayerRadius float64
	CoinRadius   float64
	// Speed is player movement in pixels per second.
	Speed         float64
	SpawnInterval time.Duration
}

// DefaultConfig is the standard tuning: an 800x600 map, 20px players
// collecting 10px coins at 300 px/s, one coin every 3s.
func DefaultConfig() Config {
	return Config{
		Width:         800,
		Height:        600,
		PlayerRadius:  20,
		CoinRadius:    10,
		Speed:         300,
		SpawnInterval: 3 * time.Second,
	}
}
