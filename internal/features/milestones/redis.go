package milestones

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"serotonyl.ru/hydration/internal/common"
)

// RedisConfig — настройки Redis-хранилища достижений.
type RedisConfig struct {
	RedisClient *redis.Client
}

// RedisStore хранит открытые достижения в хэше milestones:<user>
// (поле = milestoneID, значение = время открытия в unix nano).
type RedisStore struct {
	client *redis.Client
}

// NewRedis создаёт Redis-хранилище достижений.
func NewRedis(cfg *RedisConfig) (*RedisStore, error) {
	if cfg == nil || cfg.RedisClient == nil {
		return nil, errors.New("redis client is required")
	}
	return &RedisStore{client: cfg.RedisClient}, nil
}

func unlockedKey(userID string) string {
	return "milestones:" + userID
}

// GetUnlocked возвращает все открытые достижения пользователя.
func (s *RedisStore) GetUnlocked(ctx context.Context, userID string) (map[string]time.Time, error) {
	fields, err := s.client.HGetAll(ctx, unlockedKey(userID)).Result()
	if err != nil {
		return nil, common.Upstream("чтение достижений", err)
	}
	out := make(map[string]time.Time, len(fields))
	for id, raw := range fields {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		out[id] = time.Unix(0, n).UTC()
	}
	return out, nil
}

// RecordUnlock использует HSETNX: повторная запись не меняет время открытия.
func (s *RedisStore) RecordUnlock(ctx context.Context, userID, milestoneID string, at time.Time) (bool, error) {
	ok, err := s.client.HSetNX(ctx, unlockedKey(userID), milestoneID, at.UTC().UnixNano()).Result()
	if err != nil {
		return false, common.Upstream("запись достижения", err)
	}
	return ok, nil
}
