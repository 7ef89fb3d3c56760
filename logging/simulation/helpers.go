package simulation

import (
	"context"

	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/logging"
)

const (
	// EventCoinSpawned is emitted when the spawner places a new coin.
	EventCoinSpawned logging.EventType = "simulation.coin_spawned"
	// EventCoinCollected is emitted when a player claims a coin.
	EventCoinCollected logging.EventType = "simulation.coin_collected"
	// EventStatusChanged is emitted when the lobby gate flips.
	EventStatusChanged logging.EventType = "simulation.status_changed"
)

// CoinSpawnedPayload captures a fresh coin's identity and position.
type CoinSpawnedPayload struct {
	CoinID int64   `json:"coinId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// CoinCollectedPayload captures a pickup and the resulting score.
type CoinCollectedPayload struct {
	CoinID int64 `json:"coinId"`
	Score  int   `json:"score"`
}

// StatusChangedPayload captures a lobby transition.
type StatusChangedPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// CoinSpawned publishes a coin spawn event.
func CoinSpawned(ctx context.Context, pub logging.Publisher, tick uint64, payload CoinSpawnedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCoinSpawned,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityDebug,
		Category: logging.CategorySimulation,
		Payload:  payload,
		Extra:    extra,
	})
}

// CoinCollected publishes a coin pickup event.
func CoinCollected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload CoinCollectedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCoinCollected,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategorySimulation,
		Payload:  payload,
		Extra:    extra,
	})
}

// StatusChanged publishes a lobby gate transition.
func StatusChanged(ctx context.Context, pub logging.Publisher, tick uint64, payload StatusChangedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventStatusChanged,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityInfo,
		Category: logging.CategorySimulation,
		Payload:  payload,
		Extra:    extra,
	})
}
