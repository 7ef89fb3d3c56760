package server

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/internal/net/proto"
	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/internal/world"
)

// fakeConn records written frames so tests can inspect what the hub sent
// and when.
type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	closed   bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, append([]byte(nil), data...))
	return nil
}

func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) messageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

func (c *fakeConn) message(i int) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.messages[i]
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func newTestHub(latency time.Duration) *Hub {
	cfg := DefaultConfig()
	cfg.Latency = latency
	return NewHub(cfg, nil)
}

// waitUntil polls for cond; the deadlines here are generous multiples of
// the tiny latencies the tests configure.
func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not reached within %v", timeout)
}

func TestRegisterSendsInitImmediatelyDespiteLatency(t *testing.T) {
	// A latency far longer than the test: a lagged init would never show up.
	h := newTestHub(time.Hour)
	conn := &fakeConn{}

	_, playerID, err := h.Register(conn)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if got := conn.messageCount(); got != 1 {
		t.Fatalf("messages after register: got %d want 1", got)
	}
	var init proto.InitMessage
	if err := json.Unmarshal(conn.message(0), &init); err != nil {
		t.Fatalf("decode init: %v", err)
	}
	if init.Type != proto.TypeInit || init.ID != playerID {
		t.Fatalf("init message: got %+v want type=init id=%d", init, playerID)
	}
}

func TestRegisterAssignsMonotonicPlayerIdentities(t *testing.T) {
	h := newTestHub(0)

	var prev int64
	for i := 0; i < 4; i++ {
		_, id, err := h.Register(&fakeConn{})
		if err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
		if id <= prev {
			t.Fatalf("player ids must strictly increase: got %d after %d", id, prev)
		}
		prev = id
	}
}

func TestQueueInputAppliesOnlyAfterDelay(t *testing.T) {
	h := newTestHub(60 * time.Millisecond)
	sessionID, playerID, err := h.Register(&fakeConn{})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	h.QueueInput(sessionID, world.DirectionUp)

	h.mu.Lock()
	intent := h.world.Player(playerID).Intent
	h.mu.Unlock()
	if intent != world.DirectionNone {
		t.Fatalf("intent visible before the delay elapsed: %q", intent)
	}

	waitUntil(t, time.Second, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.world.Player(playerID).Intent == world.DirectionUp
	})
}

func TestQueueInputForDisconnectedSessionIsDropped(t *testing.T) {
	h := newTestHub(40 * time.Millisecond)
	sessionID, playerID, err := h.Register(&fakeConn{})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	_, survivorID, err := h.Register(&fakeConn{})
	if err != nil {
		t.Fatalf("register survivor: %v", err)
	}

	h.QueueInput(sessionID, world.DirectionLeft)
	h.Unregister(sessionID, "test disconnect")

	// Give the lagged delivery time to fire against the removed session.
	time.Sleep(120 * time.Millisecond)

	h.mu.Lock()
	defer h.mu.Unlock()
	if p := h.world.Player(playerID); p != nil {
		t.Fatalf("player %d should be gone after unregister", playerID)
	}
	if p := h.world.Player(survivorID); p == nil || p.Intent != world.DirectionNone {
		t.Fatalf("survivor must be untouched by the dropped input")
	}
}

func TestBroadcastReachesEverySessionAfterDelay(t *testing.T) {
	h := newTestHub(30 * time.Millisecond)
	connA := &fakeConn{}
	connB := &fakeConn{}
	if _, _, err := h.Register(connA); err != nil {
		t.Fatalf("register a: %v", err)
	}
	if _, _, err := h.Register(connB); err != nil {
		t.Fatalf("register b: %v", err)
	}

	h.stepAndBroadcast(time.Now(), 1.0/60)

	// Only the init frame should have landed so far.
	if got := connA.messageCount(); got != 1 {
		t.Fatalf("snapshot delivered before the delay elapsed: %d messages", got)
	}

	waitUntil(t, time.Second, func() bool {
		return connA.messageCount() == 2 && connB.messageCount() == 2
	})

	var snapshot proto.StateSnapshot
	if err := json.Unmarshal(connA.message(1), &snapshot); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(snapshot.Players) != 2 {
		t.Fatalf("snapshot players: got %d want 2", len(snapshot.Players))
	}
	if snapshot.Status != proto.StatusPlaying {
		t.Fatalf("snapshot status: got %q want %q", snapshot.Status, proto.StatusPlaying)
	}
	if snapshot.T <= 0 {
		t.Fatalf("snapshot timestamp must be positive seconds, got %v", snapshot.T)
	}
}

func TestDisconnectDuringDelayDropsSnapshotSilently(t *testing.T) {
	h := newTestHub(50 * time.Millisecond)
	leaving := &fakeConn{}
	staying := &fakeConn{}
	leavingID, _, err := h.Register(leaving)
	if err != nil {
		t.Fatalf("register leaving: %v", err)
	}
	if _, _, err := h.Register(staying); err != nil {
		t.Fatalf("register staying: %v", err)
	}

	h.stepAndBroadcast(time.Now(), 1.0/60)
	h.Unregister(leavingID, "test disconnect")

	waitUntil(t, time.Second, func() bool {
		return staying.messageCount() == 2
	})

	if got := leaving.messageCount(); got != 1 {
		t.Fatalf("closed session must not receive the in-flight snapshot: %d messages", got)
	}
	if !leaving.isClosed() {
		t.Fatalf("unregister must close the connection")
	}
}

func TestSinglePlayerReceivesWaitingSnapshots(t *testing.T) {
	h := newTestHub(0)
	conn := &fakeConn{}
	sessionID, playerID, err := h.Register(conn)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	h.QueueInput(sessionID, world.DirectionRight)
	waitUntil(t, time.Second, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.world.Player(playerID).Intent == world.DirectionRight
	})

	h.mu.Lock()
	startX := h.world.Player(playerID).X
	h.mu.Unlock()

	now := time.Now()
	for i := 0; i < 3; i++ {
		h.stepAndBroadcast(now.Add(time.Duration(i)*time.Second), 1.0)
	}

	waitUntil(t, time.Second, func() bool {
		return conn.messageCount() >= 2
	})

	var snapshot proto.StateSnapshot
	if err := json.Unmarshal(conn.message(1), &snapshot); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snapshot.Status != proto.StatusWaiting {
		t.Fatalf("lobby status: got %q want %q", snapshot.Status, proto.StatusWaiting)
	}
	if len(snapshot.Coins) != 0 {
		t.Fatalf("no coins may spawn in the lobby: %d", len(snapshot.Coins))
	}

	h.mu.Lock()
	endX := h.world.Player(playerID).X
	h.mu.Unlock()
	if endX != startX {
		t.Fatalf("player moved while the lobby gate was closed: %v -> %v", startX, endX)
	}
}

func TestUnregisterUnknownSessionIsNoOp(t *testing.T) {
	h := newTestHub(0)
	if _, _, err := h.Register(&fakeConn{}); err != nil {
		t.Fatalf("register: %v", err)
	}

	h.Unregister("no-such-session", "test")

	if got := h.DiagnosticsSnapshot().Players; got != 1 {
		t.Fatalf("players after bogus unregister: got %d want 1", got)
	}
}

func TestDiagnosticsReflectsHubState(t *testing.T) {
	h := newTestHub(200 * time.Millisecond)
	if _, _, err := h.Register(&fakeConn{}); err != nil {
		t.Fatalf("register: %v", err)
	}

	d := h.DiagnosticsSnapshot()
	if d.Players != 1 {
		t.Fatalf("players: got %d want 1", d.Players)
	}
	if d.Status != proto.StatusWaiting {
		t.Fatalf("status: got %q want %q", d.Status, proto.StatusWaiting)
	}
	if d.LatencyMillis != 200 {
		t.Fatalf("latency: got %d want 200", d.LatencyMillis)
	}
	if d.TickRate != DefaultConfig().TickRate {
		t.Fatalf("tick rate: got %d want %d", d.TickRate, DefaultConfig().TickRate)
	}
}
