package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/adaptiq/adaptiq-backend/internal/domain/accessibility"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

// SettingsCache sits in front of the settings table. A miss is (zero, false, nil).
type SettingsCache interface {
	Get(ctx context.Context, userID uuid.UUID) (accessibility.Settings, bool, error)
	Set(ctx context.Context, userID uuid.UUID, s accessibility.Settings) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

type Nop struct{}

func (Nop) Get(context.Context, uuid.UUID) (accessibility.Settings, bool, error) {
	return accessibility.Settings{}, false, nil
}
func (Nop) Set(context.Context, uuid.UUID, accessibility.Settings) error { return nil }
func (Nop) Invalidate(context.Context, uuid.UUID) error                  { return nil }

type redisSettingsCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisSettingsCache(addr string, ttl time.Duration, log *logger.Logger) (SettingsCache, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &redisSettingsCache{
		log:    log.With("service", "RedisSettingsCache"),
		rdb:    rdb,
		prefix: "adaptiq:settings:",
		ttl:    ttl,
	}, nil
}

func (c *redisSettingsCache) key(userID uuid.UUID) string { return c.prefix + userID.String() }

func (c *redisSettingsCache) Get(ctx context.Context, userID uuid.UUID) (accessibility.Settings, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(userID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return accessibility.Settings{}, false, nil
	}
	if err != nil {
		return accessibility.Settings{}, false, err
	}
	var s accessibility.Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		c.log.Warn("Dropping undecodable cached settings", "user_id", userID, "error", err)
		_ = c.rdb.Del(ctx, c.key(userID)).Err()
		return accessibility.Settings{}, false, nil
	}
	return s, true, nil
}

func (c *redisSettingsCache) Set(ctx context.Context, userID uuid.UUID, s accessibility.Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(userID), raw, c.ttl).Err()
}

func (c *redisSettingsCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return c.rdb.Del(ctx, c.key(userID)).Err()
}
