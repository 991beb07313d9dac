package hydration

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"serotonyl.ru/hydration/internal/common"
)

// upsertScript атомарно создаёт запись дня и прибавляет delta.
// completed пересчитывается в том же скрипте, поэтому снаружи
// не бывает состояния, где glass_count >= target, а completed = 0.
//
// KEYS[1] = hydration:<user>:<date>, KEYS[2] = hydration:<user>:days
// ARGV = delta, default target, now (unix nano), date, day score
// Возвращает {glass_count, target, completed, created_at, updated_at}.
var upsertScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  redis.call('HSET', KEYS[1], 'glass_count', 0, 'target', ARGV[2], 'completed', 0, 'created_at', ARGV[3])
  redis.call('ZADD', KEYS[2], ARGV[5], ARGV[4])
end
local count = redis.call('HINCRBY', KEYS[1], 'glass_count', ARGV[1])
local target = tonumber(redis.call('HGET', KEYS[1], 'target'))
local completed = 0
if count >= target then completed = 1 end
redis.call('HSET', KEYS[1], 'completed', completed, 'updated_at', ARGV[3])
return {count, target, completed, redis.call('HGET', KEYS[1], 'created_at'), ARGV[3]}
`)

// setTargetScript меняет цель дня и пересчитывает completed.
// ARGV = target, now (unix nano), date, day score
var setTargetScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  redis.call('HSET', KEYS[1], 'glass_count', 0, 'created_at', ARGV[2])
  redis.call('ZADD', KEYS[2], ARGV[4], ARGV[3])
end
local count = tonumber(redis.call('HGET', KEYS[1], 'glass_count'))
local target = tonumber(ARGV[1])
local completed = 0
if count >= target then completed = 1 end
redis.call('HSET', KEYS[1], 'target', target, 'completed', completed, 'updated_at', ARGV[2])
return {count, target, completed, redis.call('HGET', KEYS[1], 'created_at'), ARGV[2]}
`)

// RedisConfig — настройки Redis-хранилища записей.
type RedisConfig struct {
	RedisClient *redis.Client
}

// RedisStore хранит записи в хэшах hydration:<user>:<date>
// и индексирует дни пользователя в сортированном множестве hydration:<user>:days
// (score = номер дня от эпохи).
type RedisStore struct {
	client *redis.Client
}

// NewRedis создаёт Redis-хранилище записей.
func NewRedis(cfg *RedisConfig) (*RedisStore, error) {
	if cfg == nil || cfg.RedisClient == nil {
		return nil, errors.New("redis client is required")
	}
	return &RedisStore{client: cfg.RedisClient}, nil
}

func recordKey(userID string, date time.Time) string {
	return fmt.Sprintf("hydration:%s:%s", userID, common.FormatDate(date))
}

func daysKey(userID string) string {
	return fmt.Sprintf("hydration:%s:days", userID)
}

func dayScore(date time.Time) int64 {
	return common.DateOf(date).Unix() / int64(common.Day/time.Second)
}

// FindRecord возвращает запись пользователя за день.
func (s *RedisStore) FindRecord(ctx context.Context, userID string, date time.Time) (*DailyRecord, error) {
	fields, err := s.client.HGetAll(ctx, recordKey(userID, date)).Result()
	if err != nil {
		return nil, common.Upstream("чтение записи", err)
	}
	if len(fields) == 0 {
		return nil, common.ErrRecordNotFound
	}
	return recordFromHash(userID, common.DateOf(date), fields), nil
}

// UpsertRecord создаёт или увеличивает запись одним Lua-скриптом.
func (s *RedisStore) UpsertRecord(ctx context.Context, userID string, at time.Time, delta, defaultTarget int) (*DailyRecord, error) {
	day := common.DateOf(at)
	res, err := upsertScript.Run(ctx, s.client,
		[]string{recordKey(userID, day), daysKey(userID)},
		delta, defaultTarget, at.UTC().UnixNano(), common.FormatDate(day), dayScore(day),
	).Slice()
	if err != nil {
		return nil, common.Upstream("обновление записи", err)
	}
	return recordFromReply(userID, day, res)
}

// SetTarget меняет цель дня одним Lua-скриптом.
func (s *RedisStore) SetTarget(ctx context.Context, userID string, at time.Time, target int) (*DailyRecord, error) {
	day := common.DateOf(at)
	res, err := setTargetScript.Run(ctx, s.client,
		[]string{recordKey(userID, day), daysKey(userID)},
		target, at.UTC().UnixNano(), common.FormatDate(day), dayScore(day),
	).Slice()
	if err != nil {
		return nil, common.Upstream("изменение цели", err)
	}
	return recordFromReply(userID, day, res)
}

// ListRecords возвращает записи в диапазоне по возрастанию даты.
func (s *RedisStore) ListRecords(ctx context.Context, userID string, rng DateRange) ([]*DailyRecord, error) {
	by := &redis.ZRangeBy{Min: "-inf", Max: "+inf"}
	if !rng.From.IsZero() {
		by.Min = strconv.FormatInt(dayScore(rng.From), 10)
	}
	if !rng.To.IsZero() {
		by.Max = strconv.FormatInt(dayScore(rng.To), 10)
	}

	dates, err := s.client.ZRangeByScore(ctx, daysKey(userID), by).Result()
	if err != nil {
		return nil, common.Upstream("список записей", err)
	}
	if len(dates) == 0 {
		return nil, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(dates))
	for i, d := range dates {
		cmds[i] = pipe.HGetAll(ctx, fmt.Sprintf("hydration:%s:%s", userID, d))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, common.Upstream("список записей", err)
	}

	out := make([]*DailyRecord, 0, len(dates))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		day, err := common.ParseDate(dates[i])
		if err != nil {
			return nil, common.Upstream("список записей", err)
		}
		out = append(out, recordFromHash(userID, day, fields))
	}
	return out, nil
}

func recordFromHash(userID string, day time.Time, fields map[string]string) *DailyRecord {
	count, _ := strconv.Atoi(fields["glass_count"])
	target, _ := strconv.Atoi(fields["target"])
	return &DailyRecord{
		UserID:     userID,
		Date:       day,
		GlassCount: count,
		Target:     target,
		Completed:  fields["completed"] == "1",
		CreatedAt:  unixNano(fields["created_at"]),
		UpdatedAt:  unixNano(fields["updated_at"]),
	}
}

func recordFromReply(userID string, day time.Time, res []interface{}) (*DailyRecord, error) {
	if len(res) != 5 {
		return nil, common.Upstream("обновление записи", fmt.Errorf("unexpected script reply %v", res))
	}
	count, _ := res[0].(int64)
	target, _ := res[1].(int64)
	completed, _ := res[2].(int64)
	created, _ := res[3].(string)
	updated, _ := res[4].(string)
	return &DailyRecord{
		UserID:     userID,
		Date:       day,
		GlassCount: int(count),
		Target:     int(target),
		Completed:  completed == 1,
		CreatedAt:  unixNano(created),
		UpdatedAt:  unixNano(updated),
	}, nil
}

func unixNano(s string) time.Time {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
