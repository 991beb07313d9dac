package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"serotonyl.ru/hydration/internal/common"
)

// reminderTTL — отметки о напоминаниях нужны только в пределах дня.
const reminderTTL = 48 * time.Hour

// logListLimit — сколько последних записей журнала храним на пользователя.
const logListLimit = 200

// RedisConfig — настройки Redis-хранилища журналов.
type RedisConfig struct {
	RedisClient *redis.Client
}

// RedisStore хранит журнал уведомлений в Redis:
//   - notify:sent:<dedup key> — отметка успешной отправки
//   - notify:log:<user> — список последних записей (JSON), новые в начале
//   - notify:reminder:<user>:<date> — отметка о напоминании с TTL
type RedisStore struct {
	client *redis.Client
}

// NewRedis создаёт Redis-хранилище журналов.
func NewRedis(cfg *RedisConfig) (*RedisStore, error) {
	if cfg == nil || cfg.RedisClient == nil {
		return nil, errors.New("redis client is required")
	}
	return &RedisStore{client: cfg.RedisClient}, nil
}

// HasSent — есть ли успешная отправка с таким ключом.
func (s *RedisStore) HasSent(ctx context.Context, dedupKey string) (bool, error) {
	n, err := s.client.Exists(ctx, "notify:sent:"+dedupKey).Result()
	if err != nil {
		return false, common.Upstream("проверка журнала уведомлений", err)
	}
	return n == 1, nil
}

// Record пишет запись в журнал; успешная отправка дополнительно ставит отметку по ключу.
func (s *RedisStore) Record(ctx context.Context, e *LogEntry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}

	listKey := "notify:log:" + e.UserID
	pipe := s.client.TxPipeline()
	if e.Sent {
		pipe.SetNX(ctx, "notify:sent:"+e.DedupKey, e.ID, 0)
	}
	pipe.LPush(ctx, listKey, raw)
	pipe.LTrim(ctx, listKey, 0, logListLimit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return common.Upstream("запись журнала уведомлений", err)
	}
	return nil
}

// ListByUser возвращает последние записи журнала пользователя.
func (s *RedisStore) ListByUser(ctx context.Context, userID string, limit int) ([]*LogEntry, error) {
	items, err := s.client.LRange(ctx, "notify:log:"+userID, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, common.Upstream("чтение журнала уведомлений", err)
	}
	out := make([]*LogEntry, 0, len(items))
	for _, item := range items {
		var e LogEntry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			continue
		}
		out = append(out, &e)
	}
	return out, nil
}

// MarkReminded ставит отметку о напоминании за день через SETNX.
func (s *RedisStore) MarkReminded(ctx context.Context, userID string, date time.Time) (bool, error) {
	key := "notify:reminder:" + userID + ":" + common.FormatDate(date)
	ok, err := s.client.SetNX(ctx, key, 1, reminderTTL).Result()
	if err != nil {
		return false, common.Upstream("отметка напоминания", err)
	}
	return ok, nil
}
