package server

import (
	"sync"
	"testing"
	"time"
)

func TestDeliverWaitsAtLeastTheConfiguredDelay(t *testing.T) {
	pipe := NewLatencyPipe(50 * time.Millisecond)

	start := time.Now()
	fired := make(chan time.Time, 1)
	pipe.Deliver(func() { fired <- time.Now() })

	select {
	case at := <-fired:
		if elapsed := at.Sub(start); elapsed < 50*time.Millisecond {
			t.Fatalf("delivery fired after %v, want at least 50ms", elapsed)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("delivery never fired")
	}
}

func TestDeliverZeroDelayStillRunsOffCaller(t *testing.T) {
	pipe := NewLatencyPipe(0)

	fired := make(chan struct{})
	pipe.Deliver(func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatalf("zero-delay delivery never fired")
	}
}

func TestDeliverDoesNotBlockTheCaller(t *testing.T) {
	pipe := NewLatencyPipe(100 * time.Millisecond)

	start := time.Now()
	for i := 0; i < 100; i++ {
		pipe.Deliver(func() {})
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Fatalf("queueing 100 deliveries took %v; Deliver must return immediately", elapsed)
	}
}

func TestEachDeliveryGetsItsOwnTimer(t *testing.T) {
	pipe := NewLatencyPipe(40 * time.Millisecond)

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	start := time.Now()
	for i := 0; i < n; i++ {
		pipe.Deliver(wg.Done)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("not all deliveries fired")
	}

	// Independent timers fire together, not back to back: n deliveries must
	// not take anywhere near n*delay.
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("deliveries appear serialized: %d took %v", n, elapsed)
	}
}

func TestDeliverNilFuncIsNoOp(t *testing.T) {
	pipe := NewLatencyPipe(time.Millisecond)
	pipe.Deliver(nil)
	time.Sleep(20 * time.Millisecond)
}
