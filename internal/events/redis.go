package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisPublisher fans learning events out over a Redis pub/sub channel.
type RedisPublisher struct {
	rdb     *goredis.Client
	channel string
}

func NewRedisPublisher(addr, channel string, dialTimeout time.Duration) (*RedisPublisher, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	if channel == "" {
		channel = "learning-events"
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: dialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newRedisPublisher(rdb, channel), nil
}

func newRedisPublisher(rdb *goredis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, p.channel, raw).Err()
}

func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}
