package server

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Conn is the transport surface the hub needs from a client connection.
// *websocket.Conn satisfies it; tests substitute fakes.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// session binds a transport connection to a player identity under an
// opaque stable id. Connection state is never keyed on the live conn value.
type session struct {
	id       string
	playerID int64
	conn     Conn

	writeMu sync.Mutex
	closed  atomic.Bool
}

// write sends one text frame under the session write lock. gorilla conns
// allow a single concurrent writer, and lagged deliveries for the same
// session can fire close together.
func (s *session) write(data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// markClosed flags the session so in-flight lagged deliveries drop
// themselves instead of writing to a dead connection.
func (s *session) markClosed() {
	s.closed.Store(true)
}

func (s *session) isClosed() bool {
	return s.closed.Load()
}
