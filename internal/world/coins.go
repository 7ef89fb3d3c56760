package world

import (
	"context"
	"strconv"
	"time"

	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/logging/simulation"
)

// maybeSpawnCoin emits one coin when a full interval has elapsed since the
// previous spawn. The interval is measured spawn-to-spawn, not on a fixed
// wall-clock grid, and the caller gates this behind the lobby check.
func (w *World) maybeSpawnCoin(now time.Time) {
	if now.Sub(w.lastSpawn) <= w.cfg.SpawnInterval {
		return
	}
	w.lastSpawn = now

	coin := Coin{
		ID: w.nextCoinID,
		X:  w.cfg.CoinRadius + w.rng.Float64()*(w.cfg.Width-2*w.cfg.CoinRadius),
		Y:  w.cfg.CoinRadius + w.rng.Float64()*(w.cfg.Height-2*w.cfg.CoinRadius),
	}
	w.nextCoinID++
	w.coins = append(w.coins, coin)

	simulation.CoinSpawned(context.Background(), w.publisher, w.tick,
		simulation.CoinSpawnedPayload{CoinID: coin.ID, X: coin.X, Y: coin.Y}, nil)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
