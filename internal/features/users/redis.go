package users

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"serotonyl.ru/hydration/internal/common"
)

const (
	userKeyPrefix  = "user:"
	emailKeyPrefix = "user:email:"
	usersIndexKey  = "users"
)

// ensureScript атомарно занимает email и создаёт хэш пользователя.
// KEYS[1] = user:email:<email>, KEYS[2] = users
// ARGV = id, email, name, notification_email, created_at(unix nano), user key prefix
// Возвращает {id, 1} при создании, {id, 0} если email уже занят
// и {id, -1} если id занят другим email.
var ensureScript = redis.NewScript(`
local existing = redis.call('GET', KEYS[1])
if existing then
  return {existing, 0}
end
local userKey = ARGV[6] .. ARGV[1]
if redis.call('EXISTS', userKey) == 1 then
  return {ARGV[1], -1}
end
redis.call('SET', KEYS[1], ARGV[1])
redis.call('HSET', userKey,
  'id', ARGV[1], 'email', ARGV[2], 'name', ARGV[3],
  'notification_email', ARGV[4], 'created_at', ARGV[5], 'updated_at', ARGV[5])
redis.call('ZADD', KEYS[2], ARGV[5], ARGV[1])
return {ARGV[1], 1}
`)

// RedisConfig — настройки Redis-хранилища пользователей.
type RedisConfig struct {
	RedisClient *redis.Client
}

// RedisStore хранит пользователей в Redis: хэш user:<id>, индекс email → id
// и сортированное множество users по времени создания.
type RedisStore struct {
	client *redis.Client
}

// NewRedis создаёт Redis-хранилище пользователей.
func NewRedis(cfg *RedisConfig) (*RedisStore, error) {
	if cfg == nil || cfg.RedisClient == nil {
		return nil, errors.New("redis client is required")
	}
	return &RedisStore{client: cfg.RedisClient}, nil
}

// Ensure создаёт пользователя, если email свободен.
func (s *RedisStore) Ensure(ctx context.Context, u *User) (*User, bool, error) {
	res, err := ensureScript.Run(ctx, s.client,
		[]string{emailKeyPrefix + u.Email, usersIndexKey},
		u.ID, u.Email, u.Name, u.NotificationEmail, u.CreatedAt.UTC().UnixNano(), userKeyPrefix,
	).Slice()
	if err != nil {
		return nil, false, common.Upstream("создание пользователя", err)
	}
	if len(res) != 2 {
		return nil, false, common.Upstream("создание пользователя", fmt.Errorf("unexpected script reply %v", res))
	}

	id, _ := res[0].(string)
	created, _ := res[1].(int64)
	if created < 0 {
		return nil, false, fmt.Errorf("создание пользователя %s: %w", id, common.ErrUserIDTaken)
	}
	stored, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return stored, created == 1, nil
}

// GetByID возвращает пользователя по ID.
func (s *RedisStore) GetByID(ctx context.Context, id string) (*User, error) {
	fields, err := s.client.HGetAll(ctx, userKeyPrefix+id).Result()
	if err != nil {
		return nil, common.Upstream("поиск пользователя", err)
	}
	if len(fields) == 0 {
		return nil, common.ErrUserNotFound
	}
	return userFromHash(fields), nil
}

// GetByEmail возвращает пользователя по email.
func (s *RedisStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	id, err := s.client.Get(ctx, emailKeyPrefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return nil, common.ErrUserNotFound
	}
	if err != nil {
		return nil, common.Upstream("поиск пользователя", err)
	}
	return s.GetByID(ctx, id)
}

// List возвращает всех пользователей в порядке создания.
func (s *RedisStore) List(ctx context.Context) ([]*User, error) {
	ids, err := s.client.ZRange(ctx, usersIndexKey, 0, -1).Result()
	if err != nil {
		return nil, common.Upstream("список пользователей", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, userKeyPrefix+id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, common.Upstream("список пользователей", err)
	}

	out := make([]*User, 0, len(ids))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		out = append(out, userFromHash(fields))
	}
	return out, nil
}

func userFromHash(fields map[string]string) *User {
	return &User{
		ID:                fields["id"],
		Email:             fields["email"],
		Name:              fields["name"],
		NotificationEmail: fields["notification_email"],
		CreatedAt:         parseUnixNano(fields["created_at"]),
		UpdatedAt:         parseUnixNano(fields["updated_at"]),
	}
}

func parseUnixNano(s string) time.Time {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
