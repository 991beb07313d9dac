// Package pgtest подключает тесты репозиториев к настоящему PostgreSQL.
// База берётся из TEST_DATABASE_URL; без неё тесты пропускаются.
package pgtest

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/hydration/internal/db/postgres"
)

// EnvDatabaseURL — переменная окружения с DSN тестовой базы.
const EnvDatabaseURL = "TEST_DATABASE_URL"

// Open подключается к тестовой базе и применяет миграции.
// Пул закрывается в t.Cleanup.
func Open(t testing.TB) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv(EnvDatabaseURL)
	if dsn == "" {
		t.Skipf("%s не задан, тесты PostgreSQL пропущены", EnvDatabaseURL)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pool.Ping(ctx))
	require.NoError(t, postgres.RunMigrations(ctx, pool))
	return pool
}

// Reset очищает все таблицы сервиса.
func Reset(t testing.TB, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
		TRUNCATE users, hydration_records, milestone_unlocks, reward_claims,
		         notification_log, reminder_log CASCADE
	`)
	require.NoError(t, err)
}

// SeedUser создаёт пользователя, на которого ссылаются внешние ключи.
func SeedUser(t testing.TB, pool *pgxpool.Pool, id string) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, email) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		id, id+"@example.com")
	require.NoError(t, err)
}
