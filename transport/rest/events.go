package rest

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tixtax-backend/internal/usecase"
)

const subscriberBuffer = 16

// Hub fans session events out to the streams watching that session.
type Hub struct {
	logger *slog.Logger

	mu   sync.Mutex
	subs map[string]map[chan usecase.Event]struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger.With("component", "hub"),
		subs:   make(map[string]map[chan usecase.Event]struct{}),
	}
}

// Publish never blocks: a subscriber whose buffer is full misses the event.
func (that *Hub) Publish(_ context.Context, event usecase.Event) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for ch := range that.subs[event.SessionID] {
		select {
		case ch <- event:
		default:
			that.logger.Warn("dropping event for slow subscriber", "session", event.SessionID, "kind", event.Kind)
		}
	}
}

// Subscribe returns a channel of events for sessionID. It is closed when ctx ends.
func (that *Hub) Subscribe(ctx context.Context, sessionID string) <-chan usecase.Event {
	ch := make(chan usecase.Event, subscriberBuffer)

	that.mu.Lock()
	if that.subs[sessionID] == nil {
		that.subs[sessionID] = make(map[chan usecase.Event]struct{})
	}
	that.subs[sessionID][ch] = struct{}{}
	that.mu.Unlock()

	go func() {
		<-ctx.Done()

		that.mu.Lock()
		delete(that.subs[sessionID], ch)
		if len(that.subs[sessionID]) == 0 {
			delete(that.subs, sessionID)
		}
		close(ch)
		that.mu.Unlock()
	}()

	return ch
}
