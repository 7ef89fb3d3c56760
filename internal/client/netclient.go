package client

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/gorilla/websocket"

	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/internal/net/proto"
)

// Config carries the client knobs fixed at startup.
type Config struct {
	URL string
	// InterpolationOffset is how far in the past the client renders so two
	// bracketing snapshots are usually buffered despite jitter.
	InterpolationOffset time.Duration
	FrameRate           int
}

// DefaultConfig renders 100ms in the past on top of the network lag, at 60
// frames per second.
func DefaultConfig() Config {
	return Config{
		URL:                 "ws://localhost:8765/ws",
		InterpolationOffset: 100 * time.Millisecond,
		FrameRate:           60,
	}
}

// Client owns the connection, the snapshot buffer, and the render/input
// frame loop. The receive path and the frame loop are separate goroutines
// meeting only at the buffer.
type Client struct {
	cfg    Config
	logger *log.Logger
	buffer *SnapshotBuffer

	conn    *websocket.Conn
	writeMu sync.Mutex
	id      atomic.Int64
}

func New(cfg Config, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = DefaultConfig().FrameRate
	}
	return &Client{
		cfg:    cfg,
		logger: logger,
		buffer: NewSnapshotBuffer(),
	}
}

// Dial connects with exponential backoff until it succeeds or ctx ends.
func (c *Client) Dial(ctx context.Context) error {
	operation := func() error {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.cfg.URL, nil)
		if err != nil {
			c.logger.Printf("dial %s failed, retrying: %v", c.cfg.URL, err)
			return err
		}
		c.conn = conn
		return nil
	}
	return backoff.Retry(operation, backoff.WithContext(backoff.NewExponentialBackOff(), ctx))
}

// Close tears down the connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// ID returns the identity the server assigned, or zero before init.
func (c *Client) ID() int64 {
	return c.id.Load()
}

// Buffer exposes the snapshot buffer, mainly for tests.
func (c *Client) Buffer() *SnapshotBuffer {
	return c.buffer
}

// ReadLoop pumps server messages into the buffer until the connection
// fails or ctx ends. It only appends; it never touches the render path. A
// missing init is not an error: the frame loop renders the connecting
// placeholder until identity arrives.
func (c *Client) ReadLoop(ctx context.Context) error {
	if c.conn == nil {
		return fmt.Errorf("read loop started before dial")
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		msg, err := proto.DecodeServerMessage(payload)
		if err != nil {
			c.logger.Printf("discarding malformed server message: %v", err)
			continue
		}

		switch {
		case msg.Init != nil:
			c.id.Store(msg.Init.ID)
			c.logger.Printf("assigned player id %d", msg.Init.ID)
		case msg.Snapshot != nil:
			c.buffer.Append(*msg.Snapshot, time.Now())
		}
	}
}

// SendInput transmits the latest directional intent; nil means stop.
func (c *Client) SendInput(direction *string) error {
	data, err := proto.EncodeInput(direction)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// RunFrames is the render/input loop: once per frame it samples the input
// source, sends an input message only when the held direction changed, and
// hands the interpolated view to the renderer. It runs at its own fixed
// rate, fully decoupled from the server tick.
func (c *Client) RunFrames(ctx context.Context, renderer Renderer, input InputSource) error {
	ticker := time.NewTicker(time.Second / time.Duration(c.cfg.FrameRate))
	defer ticker.Stop()

	var held *string
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			direction := input.Direction()
			if !sameDirection(direction, held) {
				held = direction
				if err := c.SendInput(direction); err != nil {
					return fmt.Errorf("send input: %w", err)
				}
			}
			renderer.Render(c.buffer.RenderState(now, c.cfg.InterpolationOffset), c.ID())
		}
	}
}

func sameDirection(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
