package server

import (
	"context"
	"time"
)

// RunSimulation drives the fixed-rate tick loop until ctx is cancelled.
// Each iteration runs spawn, movement, collisions, and broadcast in order,
// then sleeps for whatever remains of the tick interval. A slow tick
// shortens the next sleep rather than skipping or batching ticks. The loop
// never blocks on network I/O; lagged sends run on their own timers.
func (h *Hub) RunSimulation(ctx context.Context) {
	interval := time.Second / time.Duration(h.cfg.TickRate)
	timer := time.NewTimer(interval)
	defer timer.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-timer.C:
			dt := now.Sub(last).Seconds()
			if dt <= 0 {
				dt = interval.Seconds()
			}
			last = now

			h.stepAndBroadcast(now, dt)

			next := interval - time.Since(now)
			if next < 0 {
				next = 0
			}
			timer.Reset(next)
		}
	}
}
