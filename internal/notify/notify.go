// Package notify fans document change events out to connected reviewer sessions.
// Events are refresh triggers only: delivery is best effort and a slow subscriber
// loses events rather than blocking the publisher.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"accredapi/internal/model"
)

// DefaultBufferSize is the per-subscriber channel capacity.
const DefaultBufferSize = 32

// Publisher accepts events for delivery.
type Publisher interface {
	Publish(ctx context.Context, e model.Event) error
}

// Hub is the in-process broadcaster. It is safe for concurrent use.
type Hub struct {
	mu      sync.Mutex
	subs    map[chan model.Event]struct{}
	buffer  int
	dropped atomic.Int64
	log     *slog.Logger
}

// NewHub creates a hub whose subscriber channels hold buffer events.
func NewHub(buffer int, log *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultBufferSize
	}
	return &Hub{
		subs:   make(map[chan model.Event]struct{}),
		buffer: buffer,
		log:    log,
	}
}

var _ Publisher = (*Hub)(nil)

// Subscribe registers a subscriber until ctx is done, after which the channel is closed.
func (h *Hub) Subscribe(ctx context.Context) <-chan model.Event {
	ch := make(chan model.Event, h.buffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	n := len(h.subs)
	h.mu.Unlock()

	h.log.Debug("subscriber added", "component", "notify", "total_subscribers", n)

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, ch)
		close(ch)
		n := len(h.subs)
		h.mu.Unlock()
		h.log.Debug("subscriber removed", "component", "notify", "remaining_subscribers", n)
	}()

	return ch
}

// Publish delivers e to every subscriber without blocking. It never fails.
func (h *Hub) Publish(_ context.Context, e model.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- e:
		default:
			h.dropped.Add(1)
			h.log.Warn("event dropped for slow subscriber",
				"component", "notify",
				"event_type", string(e.Type),
				"document_id", e.DocumentID)
		}
	}
	return nil
}

// Subscribers reports the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Dropped reports how many deliveries were skipped because a buffer was full.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}
