package server

import "time"

// LatencyPipe injects the artificial one-way network delay. Every Deliver
// call gets its own timer, so two messages queued back to back fire
// independently and nothing re-serializes them; with jitterless delay the
// departure order is preserved in practice, but callers must not rely on
// it. The pipe never tracks connection liveness: the delivered closure
// checks whether its target still exists when it finally runs.
type LatencyPipe struct {
	delay time.Duration
}

func NewLatencyPipe(delay time.Duration) *LatencyPipe {
	if delay < 0 {
		delay = 0
	}
	return &LatencyPipe{delay: delay}
}

// Delay reports the configured one-way delay.
func (p *LatencyPipe) Delay() time.Duration {
	return p.delay
}

// Deliver schedules fn to run once the one-way delay elapses. It returns
// immediately; even with zero delay fn runs off the caller's goroutine, so
// callers never hold locks across a delivery.
func (p *LatencyPipe) Deliver(fn func()) {
	if fn == nil {
		return
	}
	if p.delay <= 0 {
		go fn()
		return
	}
	time.AfterFunc(p.delay, fn)
}
