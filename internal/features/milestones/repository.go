// Package milestones — repository.go выполняет операции с таблицей milestone_unlocks.
package milestones

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/hydration/internal/common"
)

// Store хранит открытые достижения. Запись создаётся один раз и больше не меняется.
type Store interface {
	// GetUnlocked возвращает milestoneID → время открытия.
	GetUnlocked(ctx context.Context, userID string) (map[string]time.Time, error)
	// RecordUnlock вставляет запись, если её ещё нет. inserted == false — уже была.
	RecordUnlock(ctx context.Context, userID, milestoneID string, at time.Time) (inserted bool, err error)
}

// Repository предоставляет методы для работы с таблицей milestone_unlocks.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий достижений.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetUnlocked возвращает все открытые достижения пользователя.
func (r *Repository) GetUnlocked(ctx context.Context, userID string) (map[string]time.Time, error) {
	rows, err := r.db.Query(ctx,
		`SELECT milestone_id, unlocked_at FROM milestone_unlocks WHERE user_id = $1`, userID)
	if err != nil {
		return nil, common.Upstream("чтение достижений", err)
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var id string
		var at time.Time
		if err := rows.Scan(&id, &at); err != nil {
			return nil, common.Upstream("сканирование достижения", err)
		}
		out[id] = at.UTC()
	}
	if err := rows.Err(); err != nil {
		return nil, common.Upstream("чтение достижений", err)
	}
	return out, nil
}

// RecordUnlock — идемпотентная вставка по ключу (user_id, milestone_id).
func (r *Repository) RecordUnlock(ctx context.Context, userID, milestoneID string, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO milestone_unlocks (user_id, milestone_id, unlocked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, milestone_id) DO NOTHING
	`, userID, milestoneID, at)
	if err != nil {
		return false, common.Upstream("запись достижения", err)
	}
	return tag.RowsAffected() == 1, nil
}
