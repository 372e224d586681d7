// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/catboard/cat/internal/game"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultChannelPrefix is prepended to the game id to form the PUBLISH channel.
const DefaultChannelPrefix = "cat:game:"

// EventPublisher mirrors game events to an outside system.
type EventPublisher interface {
	Publish(ctx context.Context, ev game.Event) error
}

// NopPublisher drops every event. Used when Redis is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, game.Event) error { return nil }

// RedisPublisher PUBLISHes every game event as JSON on "<prefix><game id>", so other
// processes can follow a game without holding a websocket.
type RedisPublisher struct {
	Rdb    *redis.Client
	Prefix string
}

// ConnectRedis creates a client for addr/db and checks it with a PING.
func ConnectRedis(addr string, db int, prefix string) (*RedisPublisher, error) {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return &RedisPublisher{Rdb: rdb, Prefix: prefix}, nil
}

// Channel returns the channel events of gameID are published on.
func (p *RedisPublisher) Channel(gameID uuid.UUID) string {
	return p.Prefix + gameID.String()
}

// Publish serializes the event to JSON and publishes it on the game's channel.
func (p *RedisPublisher) Publish(ctx context.Context, ev game.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	channel := p.Channel(ev.GameID)
	if err := p.Rdb.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to PUBLISH to Redis channel '%s': %w", channel, err)
	}
	return nil
}

// Close releases the underlying client.
func (p *RedisPublisher) Close() error {
	return p.Rdb.Close()
}
