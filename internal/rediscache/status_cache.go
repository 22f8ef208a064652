package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/quizline/realtime-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "room-status:"

type StatusStore interface {
	FindRoom(ctx context.Context, roomID string) (*domain.Room, error)
}

// StatusCache — cache-aside поверх репозитория статусов.
// TTL короткий: переход live -> finished должен стать видимым быстро.
// Ошибки redis — это промах кэша, не ошибка запроса.
type StatusCache struct {
	store StatusStore
	rdb   *redis.Client
	ttl   time.Duration
}

func NewStatusCache(store StatusStore, rdb *redis.Client, ttl time.Duration) *StatusCache {
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	return &StatusCache{store: store, rdb: rdb, ttl: ttl}
}

func (c *StatusCache) FindRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	key := keyPrefix + roomID

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var rm domain.Room
		if err := json.Unmarshal(data, &rm); err == nil {
			return &rm, nil
		}
		// битая запись — перечитываем из стора
		slog.Warn("status cache: corrupt entry", "room", roomID)
	} else if !errors.Is(err, redis.Nil) {
		slog.Warn("status cache: get failed", "room", roomID, "err", err)
	}

	rm, err := c.store.FindRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(rm); err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			slog.Warn("status cache: set failed", "room", roomID, "err", err)
		}
	}
	return rm, nil
}
