package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"accredapi/internal/model"
)

// NewRedisClient parses url and verifies the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// RedisBus publishes events to a Redis channel and relays the channel into a local Hub,
// so every replica's subscribers see events raised on any replica.
type RedisBus struct {
	client *redis.Client
	topic  string
	hub    *Hub
	log    *slog.Logger
	done   chan struct{}
}

// NewRedisBus relays topic messages into hub once started.
func NewRedisBus(client *redis.Client, topic string, hub *Hub, log *slog.Logger) *RedisBus {
	return &RedisBus{
		client: client,
		topic:  topic,
		hub:    hub,
		log:    log,
		done:   make(chan struct{}),
	}
}

var _ Publisher = (*RedisBus)(nil)

// Publish sends e to every replica subscribed to the topic, this one included.
func (b *RedisBus) Publish(ctx context.Context, e model.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := b.client.Publish(ctx, b.topic, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", b.topic, err)
	}
	return nil
}

// Start subscribes to the topic and relays messages into the hub until ctx is done.
// It returns once the subscription is confirmed by the server.
func (b *RedisBus) Start(ctx context.Context) error {
	ps := b.client.Subscribe(ctx, b.topic)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return fmt.Errorf("subscribe %s: %w", b.topic, err)
	}

	go func() {
		defer close(b.done)
		defer ps.Close()

		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var e model.Event
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					b.log.Warn("discarding malformed event", "component", "notify", "topic", b.topic, "error", err.Error())
					continue
				}
				_ = b.hub.Publish(ctx, e)
			}
		}
	}()

	b.log.Info("event relay started", "component", "notify", "topic", b.topic)
	return nil
}

// Done is closed when the relay loop started by Start has exited.
func (b *RedisBus) Done() <-chan struct{} {
	return b.done
}
