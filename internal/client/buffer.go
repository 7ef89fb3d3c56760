package client

import (
	"sync"
	"time"

	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/internal/net/proto"
)

// BufferedSnapshot pairs a server snapshot with the local wall-clock time
// it arrived. Receipt order is append order; because the latency pipe
// delays each message independently, receipt order need not match server
// timestamp order, and the buffer tolerates that rather than re-sorting.
type BufferedSnapshot struct {
	State      proto.StateSnapshot
	ReceivedAt time.Time
}

// SnapshotBuffer is the client-side queue the interpolator reads. The
// receive goroutine appends, the render loop reads and trims, so access is
// mutex-guarded.
type SnapshotBuffer struct {
	mu      sync.Mutex
	entries []BufferedSnapshot
}

func NewSnapshotBuffer() *SnapshotBuffer {
	return &SnapshotBuffer{entries: make([]BufferedSnapshot, 0, 8)}
}

// Append records a received snapshot. Entries only ever leave from the
// front, during render-time trimming.
func (b *SnapshotBuffer) Append(state proto.StateSnapshot, receivedAt time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, BufferedSnapshot{State: state, ReceivedAt: receivedAt})
}

// Len reports the number of buffered snapshots.
func (b *SnapshotBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// RenderState derives the smooth point-in-time view for now. It renders
// offset behind the present so two bracketing snapshots are usually
// available despite delivery jitter.
//
// Entries older than the render window are trimmed from the front, always
// keeping the most recent two. With fewer than two entries there is
// nothing to interpolate: the latest snapshot is returned verbatim, or a
// CONNECTING placeholder when the buffer is empty. The result depends only
// on the buffer contents and now, so repeated calls at the same instant
// agree.
func (b *SnapshotBuffer) RenderState(now time.Time, offset time.Duration) RenderState {
	b.mu.Lock()
	defer b.mu.Unlock()

	renderTime := now.Add(-offset)

	for len(b.entries) > 2 && b.entries[1].ReceivedAt.Before(renderTime) {
		b.entries = b.entries[1:]
	}

	if len(b.entries) < 2 {
		if len(b.entries) == 0 {
			return RenderState{
				Players: map[int64]proto.PlayerView{},
				Coins:   []proto.CoinView{},
				Status:  proto.StatusConnecting,
			}
		}
		return verbatim(b.entries[len(b.entries)-1].State)
	}

	prev := b.entries[0]
	next := b.entries[1]

	alpha := 1.0
	if denom := next.ReceivedAt.Sub(prev.ReceivedAt).Seconds(); denom > 0 {
		alpha = clampAlpha(renderTime.Sub(prev.ReceivedAt).Seconds() / denom)
	}

	return interpolate(prev.State, next.State, alpha)
}

func clampAlpha(alpha float64) float64 {
	if alpha < 0 {
		return 0
	}
	if alpha > 1 {
		return 1
	}
	return alpha
}
