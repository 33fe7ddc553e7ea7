package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"taskzone/internal/domain/model"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	usersVersionKey = "taskzone:users:version"
	usersPagePrefix = "taskzone:users:page"
)

// Connect opens a Redis client and verifies it with a ping.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// UserPageCache stores pages of the public user listing. Pages are keyed by
// a version counter; Invalidate bumps the counter so every cached page goes
// stale at once and expires on its TTL.
type UserPageCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewUserPageCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *UserPageCache {
	return &UserPageCache{rdb: rdb, ttl: ttl, logger: logger}
}

// GetPage looks up a page and returns the key it was looked up under. The
// key pins the listing version seen at read time, so a page stored with it
// after a concurrent Invalidate is never served. An empty key means the
// version could not be read and the page must not be stored. Any Redis
// failure is a miss.
func (c *UserPageCache) GetPage(ctx context.Context, limit, offset int) (string, []model.PublicUser, bool) {
	key, err := c.pageKey(ctx, limit, offset)
	if err != nil {
		c.logger.Warn("user page cache: read version", zap.Error(err))
		return "", nil, false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("user page cache: get", zap.String("key", key), zap.Error(err))
		}
		return key, nil, false
	}

	var users []model.PublicUser
	if err := json.Unmarshal(raw, &users); err != nil {
		c.logger.Warn("user page cache: decode", zap.String("key", key), zap.Error(err))
		return key, nil, false
	}
	return key, users, true
}

// SetPage stores users under a key previously returned by GetPage.
func (c *UserPageCache) SetPage(ctx context.Context, key string, users []model.PublicUser) {
	if key == "" {
		return
	}
	raw, err := json.Marshal(users)
	if err != nil {
		c.logger.Warn("user page cache: encode", zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("user page cache: set", zap.String("key", key), zap.Error(err))
	}
}

func (c *UserPageCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Incr(ctx, usersVersionKey).Err(); err != nil {
		c.logger.Warn("user page cache: invalidate", zap.Error(err))
	}
}

func (c *UserPageCache) pageKey(ctx context.Context, limit, offset int) (string, error) {
	version, err := c.rdb.Get(ctx, usersVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("%s:v%d:%d:%d", usersPagePrefix, version, limit, offset), nil
}
