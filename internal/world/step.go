package world

import (
	"context"
	"math"
	"time"

	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/logging"
	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/logging/simulation"
)

// Advance runs one authoritative tick: spawn, then per player movement,
// wall clamping, and coin collection. With fewer than two registered
// players the whole step is a no-op apart from the tick counter; the world
// sits in the lobby and nothing moves, spawns, or collides.
//
// Players are processed in ascending id order, and each player scans the
// remaining coin list in spawn order. A coin claimed by one player is gone
// before the next player is considered, so the first player in iteration
// order wins contested coins.
func (w *World) Advance(now time.Time, dt float64) {
	w.tick++

	if len(w.players) < 2 {
		return
	}

	w.maybeSpawnCoin(now)

	for _, id := range w.PlayerIDs() {
		p := w.players[id]
		w.movePlayer(p, dt)
		w.collectCoins(p)
	}
}

func (w *World) movePlayer(p *Player, dt float64) {
	step := w.cfg.Speed * dt
	switch p.Intent {
	case DirectionUp:
		p.Y -= step
	case DirectionDown:
		p.Y += step
	case DirectionLeft:
		p.X -= step
	case DirectionRight:
		p.X += step
	case DirectionNone:
		// no intent, no movement
	}

	p.X = clamp(p.X, w.cfg.PlayerRadius, w.cfg.Width-w.cfg.PlayerRadius)
	p.Y = clamp(p.Y, w.cfg.PlayerRadius, w.cfg.Height-w.cfg.PlayerRadius)
}

// collectCoins removes every coin within pickup range of p and credits the
// score. The live list is rebuilt in place to preserve spawn order.
func (w *World) collectCoins(p *Player) {
	pickup := w.cfg.PlayerRadius + w.cfg.CoinRadius
	remaining := w.coins[:0]
	for _, coin := range w.coins {
		if math.Hypot(p.X-coin.X, p.Y-coin.Y) < pickup {
			p.Score++
			simulation.CoinCollected(context.Background(), w.publisher, w.tick,
				logging.EntityRef{ID: formatID(p.ID), Kind: logging.EntityKindPlayer},
				simulation.CoinCollectedPayload{CoinID: coin.ID, Score: p.Score}, nil)
			continue
		}
		remaining = append(remaining, coin)
	}
	w.coins = remaining
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
