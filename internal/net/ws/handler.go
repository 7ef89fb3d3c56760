package ws

import (
	"context"
	"log"
	nethttp "net/http"

	"github.com/gorilla/websocket"

	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/internal/net/proto"
	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/internal/world"
	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/logging/network"
	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/server"
)

type HandlerConfig struct {
	Logger *log.Logger
}

// Handler upgrades HTTP requests and runs the per-connection read loop.
// One connection is one player for the connection's lifetime.
type Handler struct {
	hub      *server.Hub
	logger   *log.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *server.Hub, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}

	return &Handler{
		hub:      hub,
		logger:   logger,
		upgrader: upgrader,
	}
}

// Handle admits the connection and pumps inbound messages until the client
// goes away. Malformed messages are discarded and logged, never answered;
// a read error tears down this one connection and removes its player.
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed: %v", err)
		return
	}

	sessionID, playerID, err := h.hub.Register(conn)
	if err != nil {
		h.logger.Printf("register failed: %v", err)
		conn.Close()
		return
	}
	h.logger.Printf("player %d connected", playerID)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			h.hub.Unregister(sessionID, "connection closed")
			h.logger.Printf("player %d disconnected: %v", playerID, err)
			return
		}

		msg, err := proto.DecodeInput(payload)
		if err != nil {
			h.discard(sessionID, playerID, err.Error())
			continue
		}

		dir := world.DirectionNone
		if msg.Direction != nil {
			parsed, ok := world.ParseDirection(*msg.Direction)
			if !ok {
				h.discard(sessionID, playerID, "unknown direction "+*msg.Direction)
				continue
			}
			dir = parsed
		}

		h.hub.QueueInput(sessionID, dir)
	}
}

func (h *Handler) discard(sessionID string, playerID int64, reason string) {
	h.logger.Printf("discarding malformed message from player %d: %s", playerID, reason)
	network.MessageDiscarded(context.Background(), h.hub.Publisher(), 0,
		network.MessageDiscardedPayload{SessionID: sessionID, Reason: reason}, nil)
}
