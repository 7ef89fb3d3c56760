package server

// Diagnostics is a point-in-time operational view served over HTTP.
type Diagnostics struct {
	Status        string `json:"status"`
	Tick          uint64 `json:"tick"`
	Players       int    `json:"players"`
	Coins         int    `json:"coins"`
	TickRate      int    `json:"tickRate"`
	LatencyMillis int64  `json:"latencyMillis"`
}

// DiagnosticsSnapshot reports current counters under the hub lock.
func (h *Hub) DiagnosticsSnapshot() Diagnostics {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Diagnostics{
		Status:        string(h.world.Status()),
		Tick:          h.world.Tick(),
		Players:       h.world.PlayerCount(),
		Coins:         len(h.world.Coins()),
		TickRate:      h.cfg.TickRate,
		LatencyMillis: h.pipe.Delay().Milliseconds(),
	}
}
