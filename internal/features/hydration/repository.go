// Package hydration — repository.go выполняет операции с таблицей hydration_records.
package hydration

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/hydration/internal/common"
)

// Store — хранилище дневных записей. Ключ — (userID, date), date всегда полночь UTC.
// Реализации: PostgreSQL (Repository) и Redis (RedisStore).
type Store interface {
	// FindRecord возвращает запись за день или common.ErrRecordNotFound.
	FindRecord(ctx context.Context, userID string, date time.Time) (*DailyRecord, error)
	// UpsertRecord атомарно создаёт запись дня DateOf(at) (с целью defaultTarget)
	// или прибавляет delta к счётчику и в том же шаге пересчитывает Completed.
	// delta == 0 — ленивое создание. at же пишется в created_at/updated_at.
	UpsertRecord(ctx context.Context, userID string, at time.Time, delta, defaultTarget int) (*DailyRecord, error)
	// SetTarget меняет цель дня DateOf(at) (создавая запись при необходимости) и пересчитывает Completed.
	SetTarget(ctx context.Context, userID string, at time.Time, target int) (*DailyRecord, error)
	// ListRecords возвращает записи в диапазоне по возрастанию даты.
	ListRecords(ctx context.Context, userID string, rng DateRange) ([]*DailyRecord, error)
}

// Repository предоставляет методы для работы с таблицей hydration_records.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий записей.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const recordColumns = `user_id, date, glass_count, target, completed, created_at, updated_at`

func scanRecord(row pgx.Row) (*DailyRecord, error) {
	var r DailyRecord
	if err := row.Scan(&r.UserID, &r.Date, &r.GlassCount, &r.Target, &r.Completed, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.Date = common.DateOf(r.Date)
	return &r, nil
}

// FindRecord возвращает запись пользователя за день.
func (r *Repository) FindRecord(ctx context.Context, userID string, date time.Time) (*DailyRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM hydration_records WHERE user_id = $1 AND date = $2`
	rec, err := scanRecord(r.db.QueryRow(ctx, query, userID, common.DateOf(date)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrRecordNotFound
	}
	if err != nil {
		return nil, common.Upstream("чтение записи", err)
	}
	return rec, nil
}

// UpsertRecord — один INSERT ... ON CONFLICT: увеличение счётчика и пересчёт completed
// выполняются одной строковой блокировкой, поэтому параллельные запросы
// не теряют инкременты и не создают вторую запись за день.
func (r *Repository) UpsertRecord(ctx context.Context, userID string, at time.Time, delta, defaultTarget int) (*DailyRecord, error) {
	query := `
		INSERT INTO hydration_records (user_id, date, glass_count, target, completed, created_at, updated_at)
		VALUES ($1, $2, $3::int, $4::int, $3::int >= $4::int, $5, $5)
		ON CONFLICT (user_id, date) DO UPDATE
		SET glass_count = hydration_records.glass_count + EXCLUDED.glass_count,
		    completed = (hydration_records.glass_count + EXCLUDED.glass_count) >= hydration_records.target,
		    updated_at = EXCLUDED.updated_at
		RETURNING ` + recordColumns
	rec, err := scanRecord(r.db.QueryRow(ctx, query, userID, common.DateOf(at), delta, defaultTarget, at))
	if err != nil {
		return nil, common.Upstream("обновление записи", err)
	}
	return rec, nil
}

// SetTarget меняет цель дня одним запросом.
func (r *Repository) SetTarget(ctx context.Context, userID string, at time.Time, target int) (*DailyRecord, error) {
	query := `
		INSERT INTO hydration_records (user_id, date, glass_count, target, completed, created_at, updated_at)
		VALUES ($1, $2, 0, $3::int, FALSE, $4, $4)
		ON CONFLICT (user_id, date) DO UPDATE
		SET target = EXCLUDED.target,
		    completed = hydration_records.glass_count >= EXCLUDED.target,
		    updated_at = EXCLUDED.updated_at
		RETURNING ` + recordColumns
	rec, err := scanRecord(r.db.QueryRow(ctx, query, userID, common.DateOf(at), target, at))
	if err != nil {
		return nil, common.Upstream("изменение цели", err)
	}
	return rec, nil
}

// ListRecords возвращает записи пользователя в диапазоне дат по возрастанию.
func (r *Repository) ListRecords(ctx context.Context, userID string, rng DateRange) ([]*DailyRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM hydration_records
		WHERE user_id = $1
		  AND ($2::date IS NULL OR date >= $2::date)
		  AND ($3::date IS NULL OR date <= $3::date)
		ORDER BY date ASC
	`
	rows, err := r.db.Query(ctx, query, userID, nullableDate(rng.From), nullableDate(rng.To))
	if err != nil {
		return nil, common.Upstream("список записей", err)
	}
	defer rows.Close()

	var out []*DailyRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, common.Upstream("сканирование записи", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, common.Upstream("список записей", err)
	}
	return out, nil
}

func nullableDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	d := common.DateOf(t)
	return &d
}
