package world

import (
	"math/rand"
	"sort"
	"time"

	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/logging"
)

// Direction is a player's single-slot movement intent. A new direction fully
// replaces the previous one; there is no input queue and no diagonal.
type Direction string

const (
	DirectionNone  Direction = ""
	DirectionUp    Direction = "UP"
	DirectionDown  Direction = "DOWN"
	DirectionLeft  Direction = "LEFT"
	DirectionRight Direction = "RIGHT"
)

// ParseDirection maps a wire direction to a Direction. The second return is
// false for strings that are not part of the protocol.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case DirectionUp, DirectionDown, DirectionLeft, DirectionRight:
		return Direction(s), true
	case DirectionNone:
		return DirectionNone, true
	default:
		return DirectionNone, false
	}
}

// Status reports whether the simulation is live or parked in the lobby.
type Status string

const (
	StatusWaiting Status = "WAITING_FOR_PLAYERS"
	StatusPlaying Status = "PLAYING"
)

// Player is the authoritative record for one connected player. Clients only
// ever see projections of it; Intent in particular never leaves the server.
type Player struct {
	ID     int64
	X, Y   float64
	Color  [3]uint8
	Score  int
	Intent Direction
}

// Coin is a collectible. Position is fixed at spawn.
type Coin struct {
	ID   int64
	X, Y float64
}

// World owns the authoritative simulation state. It performs no locking of
// its own; the hub serializes every access.
type World struct {
	cfg       Config
	rng       *rand.Rand
	publisher logging.Publisher

	players map[int64]*Player
	coins   []Coin

	nextPlayerID int64
	nextCoinID   int64
	lastSpawn    time.Time
	tick         uint64
}

// New constructs an empty world. The spawn interval clock starts at now so
// the first coin appears one full interval after the match begins.
func New(cfg Config, rng *rand.Rand, publisher logging.Publisher, now time.Time) *World {
	if rng == nil {
		rng = rand.New(rand.NewSource(now.UnixNano()))
	}
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	return &World{
		cfg:          cfg,
		rng:          rng,
		publisher:    publisher,
		players:      make(map[int64]*Player),
		coins:        make([]Coin, 0),
		nextPlayerID: 1,
		lastSpawn:    now,
	}
}

// AddPlayer allocates the next player identity and spawns it at a random
// position inside the interior sub-rectangle, away from the walls.
func (w *World) AddPlayer() *Player {
	id := w.nextPlayerID
	w.nextPlayerID++

	minX, maxX := spawnRange(w.cfg.Width, w.cfg.PlayerRadius)
	minY, maxY := spawnRange(w.cfg.Height, w.cfg.PlayerRadius)

	p := &Player{
		ID:    id,
		X:     minX + w.rng.Float64()*(maxX-minX),
		Y:     minY + w.rng.Float64()*(maxY-minY),
		Color: w.randomColor(),
	}
	w.players[id] = p
	return p
}

// spawnRange keeps new players at least spawnMargin from each wall, falling
// back to the radius clamp band on maps too small for the margin.
func spawnRange(dim, radius float64) (float64, float64) {
	const spawnMargin = 100.0
	if dim > 2*spawnMargin {
		return spawnMargin, dim - spawnMargin
	}
	return radius, dim - radius
}

func (w *World) randomColor() [3]uint8 {
	var c [3]uint8
	for i := range c {
		c[i] = uint8(50 + w.rng.Intn(206))
	}
	return c
}

// RemovePlayer deletes a player. Unknown ids are a no-op; coins are never
// touched by departures.
func (w *World) RemovePlayer(id int64) {
	delete(w.players, id)
}

// SetIntent stores the latest movement intent for a player. Inputs that
// arrive for a player who already disconnected are dropped silently.
func (w *World) SetIntent(id int64, dir Direction) {
	p, ok := w.players[id]
	if !ok {
		return
	}
	p.Intent = dir
}

// Player returns the live record for an id, or nil.
func (w *World) Player(id int64) *Player {
	return w.players[id]
}

// PlayerIDs returns all player ids in ascending order. This is the iteration
// order used by the physics step, so the lowest id claims contested coins.
func (w *World) PlayerIDs() []int64 {
	ids := make([]int64, 0, len(w.players))
	for id := range w.players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Coins returns the live coin list in spawn order.
func (w *World) Coins() []Coin {
	return w.coins
}

// PlayerCount reports the number of registered players.
func (w *World) PlayerCount() int {
	return len(w.players)
}

// Status derives the lobby gate from the player count.
func (w *World) Status() Status {
	if len(w.players) < 2 {
		return StatusWaiting
	}
	return StatusPlaying
}

// Tick returns the number of Advance calls so far.
func (w *World) Tick() uint64 {
	return w.tick
}

// Config returns the tuning the world was built with.
func (w *World) Config() Config {
	return w.cfg
}
