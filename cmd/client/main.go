package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/internal/client"
	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/internal/net/proto"
)

func main() {
	godotenv.Load()

	defaults := client.DefaultConfig()
	url := flag.String("url", envOr("GAME_CLIENT_URL", defaults.URL), "server websocket url")
	fps := flag.Int("fps", defaults.FrameRate, "render frames per second")
	offsetMs := flag.Int("offset", int(defaults.InterpolationOffset.Milliseconds()), "interpolation offset in milliseconds")
	flag.Parse()

	cfg := client.Config{
		URL:                 *url,
		InterpolationOffset: time.Duration(*offsetMs) * time.Millisecond,
		FrameRate:           *fps,
	}

	if err := run(cfg); err != nil && err != context.Canceled {
		log.Fatalf("client failed: %v", err)
	}
}

func run(cfg client.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	c := client.New(cfg, logger)

	if err := c.Dial(ctx); err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer c.Close()

	input := newLineInput(os.Stdin)
	go input.run()

	errc := make(chan error, 2)
	go func() { errc <- c.ReadLoop(ctx) }()
	go func() { errc <- c.RunFrames(ctx, &consoleRenderer{out: os.Stdout}, input) }()

	fmt.Println("controls: type up/down/left/right/stop and press enter")
	select {
	case <-ctx.Done():
		return context.Canceled
	case err := <-errc:
		return err
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// lineInput turns stdin lines into a held direction. The first matching
// word wins, so conflicting input resolves by enumeration order.
type lineInput struct {
	reader *bufio.Scanner

	mu   sync.Mutex
	held *string
}

func newLineInput(f *os.File) *lineInput {
	return &lineInput{reader: bufio.NewScanner(f)}
}

func (l *lineInput) run() {
	words := []string{"up", "down", "left", "right"}
	for l.reader.Scan() {
		line := strings.ToLower(strings.TrimSpace(l.reader.Text()))
		var next *string
		for _, word := range words {
			if strings.Contains(line, word) {
				dir := strings.ToUpper(word)
				next = &dir
				break
			}
		}
		l.mu.Lock()
		l.held = next
		l.mu.Unlock()
	}
}

func (l *lineInput) Direction() *string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held
}

// consoleRenderer writes one status line per frame, overwriting in place.
type consoleRenderer struct {
	out  *os.File
	last string
}

func (r *consoleRenderer) Render(state client.RenderState, selfID int64) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", state.Status)
	if state.Status == proto.StatusWaiting {
		b.WriteString(" waiting for player 2...")
	}

	ids := make([]int64, 0, len(state.Players))
	for id := range state.Players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		p := state.Players[id]
		marker := " "
		if id == selfID {
			marker = "*"
		}
		fmt.Fprintf(&b, " %sp%d(%.0f,%.0f s=%d)", marker, id, p.X, p.Y, p.Score)
	}
	fmt.Fprintf(&b, " coins=%d", len(state.Coins))

	line := b.String()
	if line == r.last {
		return
	}
	r.last = line
	fmt.Fprintf(r.out, "\r\033[K%s", line)
}
