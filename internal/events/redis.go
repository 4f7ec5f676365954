package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

type RedisPublisher struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
	origin  string
}

func NewRedisPublisher(cfg Config, log *logger.Logger) (*RedisPublisher, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := cfg.RedisChannel
	if ch == "" {
		ch = "adaptiq.events"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.RedisAddr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisPublisher{
		log:     log.With("service", "RedisEventPublisher"),
		rdb:     rdb,
		channel: ch,
		origin:  cfg.Origin,
	}, nil
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	if p == nil || p.rdb == nil {
		return fmt.Errorf("redis publisher not initialized")
	}
	if e.Origin == "" {
		e.Origin = p.origin
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, p.channel, raw).Err()
}

// Subscribe delivers events published by other instances to onEvent until
// ctx is done. Events carrying this publisher's own origin are skipped.
func (p *RedisPublisher) Subscribe(ctx context.Context, onEvent func(Event)) error {
	if p == nil || p.rdb == nil {
		return fmt.Errorf("redis publisher not initialized")
	}
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}

	sub := p.rdb.Subscribe(ctx, p.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				var e Event
				if err := json.Unmarshal([]byte(m.Payload), &e); err != nil {
					p.log.Warn("bad redis event payload", "error", err)
					continue
				}
				if p.origin != "" && e.Origin == p.origin {
					continue
				}
				onEvent(e)
			}
		}
	}()
	return nil
}

func (p *RedisPublisher) Close() error {
	if p == nil || p.rdb == nil {
		return nil
	}
	return p.rdb.Close()
}
