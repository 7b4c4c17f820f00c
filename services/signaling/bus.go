package signaling

import (
	"context"
	"sync"
)

// Envelope is an event addressed to a room, minus the connection that caused it.
type Envelope struct {
	RoomID  string `json:"roomId"`
	Exclude string `json:"exclude,omitempty"`
	Event   Event  `json:"event"`
}

// Bus carries envelopes to every hub that may hold members of the room.
type Bus interface {
	Publish(ctx context.Context, env Envelope) error
	Subscribe(deliver func(Envelope))
	Close() error
}

// MemoryBus delivers envelopes synchronously inside the current process.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers []func(Envelope)
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{}
}

func (b *MemoryBus) Publish(_ context.Context, env Envelope) error {
	b.mu.RLock()
	handlers := b.handlers
	b.mu.RUnlock()

	for _, deliver := range handlers {
		deliver(env)
	}
	return nil
}

func (b *MemoryBus) Subscribe(deliver func(Envelope)) {
	b.mu.Lock()
	b.handlers = append(b.handlers, deliver)
	b.mu.Unlock()
}

func (b *MemoryBus) Close() error {
	return nil
}
