package logging_test

import (
	"context"
	"testing"
	"time"

	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/logging"
	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/logging/sinks"
)

func newMemoryRouter(t *testing.T, cfg logging.Config) (*logging.Router, *sinks.Memory) {
	t.Helper()
	mem := sinks.NewMemory()
	router := logging.NewRouter(nil, cfg, []logging.NamedSink{{Name: "memory", Sink: mem}})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		router.Close(ctx)
	})
	return router, mem
}

func waitForEvents(t *testing.T, mem *sinks.Memory, want int) []logging.Event {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if events := mem.Events(); len(events) >= want {
			return events
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("memory sink never received %d events, has %d", want, len(mem.Events()))
	return nil
}

func TestRouterDeliversEventsToSinks(t *testing.T) {
	router, mem := newMemoryRouter(t, logging.DefaultConfig())

	router.Publish(context.Background(), logging.Event{
		Type:     "simulation.coin_spawned",
		Tick:     12,
		Severity: logging.SeverityInfo,
		Category: logging.CategorySimulation,
	})

	events := waitForEvents(t, mem, 1)
	if events[0].Type != "simulation.coin_spawned" || events[0].Tick != 12 {
		t.Fatalf("delivered event mismatch: %+v", events[0])
	}
	if events[0].Time.IsZero() {
		t.Fatalf("router must stamp a default time")
	}
}

func TestRouterFiltersBelowMinimumSeverity(t *testing.T) {
	cfg := logging.DefaultConfig()
	cfg.MinimumSeverity = logging.SeverityWarn
	router, mem := newMemoryRouter(t, cfg)

	router.Publish(context.Background(), logging.Event{Type: "a", Severity: logging.SeverityDebug})
	router.Publish(context.Background(), logging.Event{Type: "b", Severity: logging.SeverityInfo})
	router.Publish(context.Background(), logging.Event{Type: "c", Severity: logging.SeverityError})

	events := waitForEvents(t, mem, 1)
	// Give any stragglers a beat before asserting only one survived.
	time.Sleep(20 * time.Millisecond)
	events = mem.Events()
	if len(events) != 1 || events[0].Type != "c" {
		t.Fatalf("severity filter: got %+v want single event c", events)
	}
}

func TestRouterMergesConfiguredFields(t *testing.T) {
	cfg := logging.DefaultConfig()
	cfg.Fields = map[string]any{"addr": ":8765", "kept": "router"}
	router, mem := newMemoryRouter(t, cfg)

	router.Publish(context.Background(), logging.Event{
		Type:     "network.message_discarded",
		Severity: logging.SeverityWarn,
		Extra:    map[string]any{"kept": "event"},
	})

	events := waitForEvents(t, mem, 1)
	if got := events[0].Extra["addr"]; got != ":8765" {
		t.Fatalf("router fields not merged: %+v", events[0].Extra)
	}
	if got := events[0].Extra["kept"]; got != "event" {
		t.Fatalf("event fields must win over router fields: %+v", events[0].Extra)
	}
}

func TestRouterIgnoresUntypedAndPostCloseEvents(t *testing.T) {
	router, mem := newMemoryRouter(t, logging.DefaultConfig())

	router.Publish(context.Background(), logging.Event{Severity: logging.SeverityError})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := router.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
	router.Publish(context.Background(), logging.Event{Type: "late", Severity: logging.SeverityError})

	time.Sleep(20 * time.Millisecond)
	if events := mem.Events(); len(events) != 0 {
		t.Fatalf("expected no delivered events, got %+v", events)
	}
}

func TestRouterCountsDropsWhenQueueIsFull(t *testing.T) {
	cfg := logging.DefaultConfig()
	cfg.BufferSize = 1
	mem := sinks.NewMemory()
	// A sink that blocks dispatch long enough for the queue to saturate.
	slow := slowSink{inner: mem, delay: 50 * time.Millisecond}
	router := logging.NewRouter(nil, cfg, []logging.NamedSink{{Name: "slow", Sink: slow}})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		router.Close(ctx)
	}()

	for i := 0; i < 20; i++ {
		router.Publish(context.Background(), logging.Event{Type: "flood", Severity: logging.SeverityInfo})
	}

	stats := router.Stats()
	if stats.DroppedTotal == 0 {
		t.Fatalf("expected drops with a saturated queue, stats %+v", stats)
	}
}

func TestWithFieldsDecoratesPublisher(t *testing.T) {
	var got logging.Event
	base := logging.PublisherFunc(func(_ context.Context, event logging.Event) {
		got = event
	})

	decorated := logging.WithFields(base, map[string]any{"session": "abc"})
	decorated.Publish(context.Background(), logging.Event{Type: "x", Severity: logging.SeverityInfo})

	if got.Extra["session"] != "abc" {
		t.Fatalf("decorator fields missing: %+v", got.Extra)
	}
}

type slowSink struct {
	inner *sinks.Memory
	delay time.Duration
}

func (s slowSink) Write(event logging.Event) error {
	time.Sleep(s.delay)
	return s.inner.Write(event)
}

func (s slowSink) Close(ctx context.Context) error {
	return s.inner.Close(ctx)
}
