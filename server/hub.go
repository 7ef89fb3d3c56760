package server

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/internal/net/proto"
	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/internal/world"
	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/logging"
	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/logging/lifecycle"
	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/logging/network"
	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/logging/simulation"
)

// Hub owns the authoritative world and the session table. Every touch of
// either goes through h.mu: the tick loop, the register/unregister path,
// and lagged input application all serialize here, which closes the race
// between an input handler and the physics step mutating the same player.
type Hub struct {
	mu       sync.Mutex
	world    *world.World
	sessions map[string]*session
	status   world.Status

	cfg       Config
	pipe      *LatencyPipe
	publisher logging.Publisher
}

// NewHub builds a hub with an empty world and a latency pipe configured
// from cfg.
func NewHub(cfg Config, publisher logging.Publisher) *Hub {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	w := world.New(cfg.World, nil, publisher, time.Now())
	return &Hub{
		world:     w,
		sessions:  make(map[string]*session),
		status:    w.Status(),
		cfg:       cfg,
		pipe:      NewLatencyPipe(cfg.Latency),
		publisher: publisher,
	}
}

// Register admits a connection: it allocates the next player identity,
// spawns the player, and replies with the init message. The init reply is
// the one message that skips the latency pipe, so the client learns its
// own id promptly.
func (h *Hub) Register(conn Conn) (sessionID string, playerID int64, err error) {
	sess := &session{id: uuid.NewString(), conn: conn}

	h.mu.Lock()
	p := h.world.AddPlayer()
	sess.playerID = p.ID
	h.sessions[sess.id] = sess
	tick := h.world.Tick()
	spawnX, spawnY := p.X, p.Y
	h.noteStatusLocked(tick)
	h.mu.Unlock()

	data, err := proto.EncodeInit(p.ID)
	if err == nil {
		err = sess.write(data)
	}
	if err != nil {
		h.Unregister(sess.id, "init write failed")
		return "", 0, err
	}

	lifecycle.PlayerJoined(context.Background(), h.publisher, tick,
		logging.EntityRef{ID: formatPlayerID(p.ID), Kind: logging.EntityKindPlayer},
		lifecycle.PlayerJoinedPayload{SessionID: sess.id, SpawnX: spawnX, SpawnY: spawnY}, nil)

	return sess.id, p.ID, nil
}

// Unregister removes the session's player from the world and closes the
// connection. Unknown session ids are a no-op, so racing disconnect paths
// are harmless. Coins are never touched.
func (h *Hub) Unregister(sessionID, reason string) {
	h.mu.Lock()
	sess, ok := h.sessions[sessionID]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(h.sessions, sessionID)
	h.world.RemovePlayer(sess.playerID)
	tick := h.world.Tick()
	h.noteStatusLocked(tick)
	h.mu.Unlock()

	sess.markClosed()
	sess.conn.Close()

	lifecycle.PlayerDisconnected(context.Background(), h.publisher, tick,
		logging.EntityRef{ID: formatPlayerID(sess.playerID), Kind: logging.EntityKindPlayer},
		lifecycle.PlayerDisconnectedPayload{SessionID: sessionID, Reason: reason}, nil)
}

// QueueInput hands an inbound intent to the latency pipe. The world only
// sees it after the configured one-way delay; if the player disconnected
// while the message was in flight, applying it is a no-op.
func (h *Hub) QueueInput(sessionID string, dir world.Direction) {
	h.pipe.Deliver(func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		sess, ok := h.sessions[sessionID]
		if !ok {
			return
		}
		h.world.SetIntent(sess.playerID, dir)
	})
}

// stepAndBroadcast runs one tick and hands the resulting snapshot to the
// latency pipe for independent delayed delivery to every session. The
// snapshot is marshalled once, before any delay, so it is a frozen copy of
// the world at this instant.
func (h *Hub) stepAndBroadcast(now time.Time, dt float64) {
	h.mu.Lock()
	h.world.Advance(now, dt)
	if len(h.sessions) == 0 {
		h.mu.Unlock()
		return
	}
	snapshot := h.snapshotLocked(now)
	tick := h.world.Tick()
	targets := make([]*session, 0, len(h.sessions))
	for _, sess := range h.sessions {
		targets = append(targets, sess)
	}
	h.mu.Unlock()

	data, err := proto.EncodeSnapshot(snapshot)
	if err != nil {
		// Next tick supersedes the lost snapshot; nothing to retry.
		return
	}

	for _, sess := range targets {
		sess := sess
		h.pipe.Deliver(func() {
			if sess.isClosed() {
				network.DeliveryDropped(context.Background(), h.publisher, tick,
					network.DeliveryDroppedPayload{SessionID: sess.id, Kind: "snapshot"}, nil)
				return
			}
			if err := sess.write(data); err != nil {
				h.Unregister(sess.id, "snapshot write failed")
			}
		})
	}
}

// snapshotLocked projects the world into a complete wire snapshot. Caller
// holds h.mu.
func (h *Hub) snapshotLocked(now time.Time) proto.StateSnapshot {
	players := make(map[int64]proto.PlayerView, h.world.PlayerCount())
	for _, id := range h.world.PlayerIDs() {
		p := h.world.Player(id)
		players[id] = proto.PlayerView{X: p.X, Y: p.Y, Color: p.Color, Score: p.Score}
	}
	liveCoins := h.world.Coins()
	coins := make([]proto.CoinView, 0, len(liveCoins))
	for _, c := range liveCoins {
		coins = append(coins, proto.CoinView{ID: c.ID, X: c.X, Y: c.Y})
	}
	return proto.StateSnapshot{
		T:       float64(now.UnixNano()) / 1e9,
		Players: players,
		Coins:   coins,
		Status:  string(h.world.Status()),
	}
}

// noteStatusLocked publishes a transition event when the lobby gate flips.
// Caller holds h.mu.
func (h *Hub) noteStatusLocked(tick uint64) {
	status := h.world.Status()
	if status == h.status {
		return
	}
	from := h.status
	h.status = status
	simulation.StatusChanged(context.Background(), h.publisher, tick,
		simulation.StatusChangedPayload{From: string(from), To: string(status)}, nil)
}

// Publisher exposes the hub's event publisher for transport handlers.
func (h *Hub) Publisher() logging.Publisher {
	return h.publisher
}

func formatPlayerID(id int64) string {
	return strconv.FormatInt(id, 10)
}
