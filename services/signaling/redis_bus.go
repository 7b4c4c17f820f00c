package signaling

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"telecare/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RoomsChannel is the pub/sub channel shared by every instance.
const RoomsChannel = "signaling:rooms"

// RedisBus fans envelopes out through Redis pub/sub so members connected to different
// instances can reach each other. Every instance, including the publisher, receives each
// envelope and delivers it to its own members.
type RedisBus struct {
	client *redis.Client
	pubsub *redis.PubSub

	mu       sync.RWMutex
	handlers []func(Envelope)

	cancel context.CancelFunc
	done   chan struct{}
}

// NewRedisBus subscribes to RoomsChannel and starts the receive loop.
func NewRedisBus(ctx context.Context, client *redis.Client) (*RedisBus, error) {
	pubsub := client.Subscribe(ctx, RoomsChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", RoomsChannel, err)
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	b := &RedisBus{
		client: client,
		pubsub: pubsub,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go b.receive(loopCtx)
	return b, nil
}

func (b *RedisBus) receive(ctx context.Context) {
	defer close(b.done)
	ch := b.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				utils.GetLogger().Warn("Dropping malformed signaling envelope", zap.Error(err))
				continue
			}
			b.mu.RLock()
			handlers := b.handlers
			b.mu.RUnlock()
			for _, deliver := range handlers {
				deliver(env)
			}
		}
	}
}

func (b *RedisBus) Publish(ctx context.Context, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, RoomsChannel, data).Err()
}

func (b *RedisBus) Subscribe(deliver func(Envelope)) {
	b.mu.Lock()
	b.handlers = append(b.handlers, deliver)
	b.mu.Unlock()
}

func (b *RedisBus) Close() error {
	b.cancel()
	err := b.pubsub.Close()
	<-b.done
	return err
}
