package client

import (
	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/internal/net/proto"
)

// RenderState is the render-ready view handed to the renderer once per
// frame: interpolated player positions plus the discrete attributes of the
// newer bracketing snapshot.
type RenderState struct {
	Players map[int64]proto.PlayerView
	Coins   []proto.CoinView
	Status  string
}

func lerp(start, end, alpha float64) float64 {
	return start + (end-start)*alpha
}

// interpolate blends positions between the two bracketing snapshots for
// every player present in both. Color and score never blend; they come
// from next, as do coins and status. A player only present in next pops in
// at its next position.
func interpolate(prev, next proto.StateSnapshot, alpha float64) RenderState {
	players := make(map[int64]proto.PlayerView, len(next.Players))
	for id, pn := range next.Players {
		pp, ok := prev.Players[id]
		if !ok {
			players[id] = pn
			continue
		}
		players[id] = proto.PlayerView{
			X:     lerp(pp.X, pn.X, alpha),
			Y:     lerp(pp.Y, pn.Y, alpha),
			Color: pn.Color,
			Score: pn.Score,
		}
	}
	return RenderState{
		Players: players,
		Coins:   copyCoins(next.Coins),
		Status:  next.Status,
	}
}

// verbatim projects a single snapshot with no math performed.
func verbatim(state proto.StateSnapshot) RenderState {
	players := make(map[int64]proto.PlayerView, len(state.Players))
	for id, p := range state.Players {
		players[id] = p
	}
	return RenderState{
		Players: players,
		Coins:   copyCoins(state.Coins),
		Status:  state.Status,
	}
}

func copyCoins(coins []proto.CoinView) []proto.CoinView {
	copied := make([]proto.CoinView, len(coins))
	copy(copied, coins)
	return copied
}
