package rewards

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"serotonyl.ru/hydration/internal/common"
)

// RedisConfig — настройки Redis-хранилища наград.
type RedisConfig struct {
	RedisClient *redis.Client
}

// RedisStore хранит полученные награды в хэше rewards:<user>
// (поле = rewardID, значение = время получения в unix nano).
type RedisStore struct {
	client *redis.Client
}

// NewRedis создаёт Redis-хранилище наград.
func NewRedis(cfg *RedisConfig) (*RedisStore, error) {
	if cfg == nil || cfg.RedisClient == nil {
		return nil, errors.New("redis client is required")
	}
	return &RedisStore{client: cfg.RedisClient}, nil
}

func claimsKey(userID string) string {
	return "rewards:" + userID
}

// GetClaims возвращает все полученные награды пользователя.
func (s *RedisStore) GetClaims(ctx context.Context, userID string) (map[string]time.Time, error) {
	fields, err := s.client.HGetAll(ctx, claimsKey(userID)).Result()
	if err != nil {
		return nil, common.Upstream("чтение наград", err)
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

// Claim записывает получение через HSETNX и читает сохранённое время,
// так что при гонке оба вызова вернут один и тот же claimed_at.
func (s *RedisStore) Claim(ctx context.Context, userID, rewardID string, at time.Time) (*Claim, bool, error) {
	key := claimsKey(userID)
	created, err := s.client.HSetNX(ctx, key, rewardID, at.UTC().UnixNano()).Result()
	if err != nil {
		return nil, false, common.Upstream("получение награды", err)
	}

	raw, err := s.client.HGet(ctx, key, rewardID).Result()
	if err != nil {
		return nil, false, common.Upstream("получение награды", err)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false, common.Upstream("получение награды", err)
	}

	return &Claim{
		UserID:    userID,
		RewardID:  rewardID,
		ClaimedAt: time.Unix(0, n).UTC(),
	}, created, nil
}
