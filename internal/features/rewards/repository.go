// Package rewards — repository.go выполняет операции с таблицей reward_claims.
package rewards

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/hydration/internal/common"
)

// Store хранит полученные награды.
type Store interface {
	// GetClaims возвращает rewardID → время получения.
	GetClaims(ctx context.Context, userID string) (map[string]time.Time, error)
	// Claim сохраняет получение. Повторный вызов возвращает первую запись и created == false.
	Claim(ctx context.Context, userID, rewardID string, at time.Time) (claim *Claim, created bool, err error)
}

// Repository предоставляет методы для работы с таблицей reward_claims.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий наград.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetClaims возвращает все полученные награды пользователя.
func (r *Repository) GetClaims(ctx context.Context, userID string) (map[string]time.Time, error) {
	rows, err := r.db.Query(ctx,
		`SELECT reward_id, claimed_at FROM reward_claims WHERE user_id = $1`, userID)
	if err != nil {
		return nil, common.Upstream("чтение наград", err)
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var id string
		var at time.Time
		if err := rows.Scan(&id, &at); err != nil {
			return nil, common.Upstream("сканирование награды", err)
		}
		out[id] = at.UTC()
	}
	if err := rows.Err(); err != nil {
		return nil, common.Upstream("чтение наград", err)
	}
	return out, nil
}

// Claim вставляет получение одним запросом; при конфликте RETURNING
// отдаёт уже существующую строку с исходным claimed_at.
func (r *Repository) Claim(ctx context.Context, userID, rewardID string, at time.Time) (*Claim, bool, error) {
	var c Claim
	var inserted bool
	err := r.db.QueryRow(ctx, `
		INSERT INTO reward_claims (user_id, reward_id, claimed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, reward_id) DO UPDATE SET reward_id = EXCLUDED.reward_id
		RETURNING user_id, reward_id, claimed_at, (xmax = 0) AS inserted
	`, userID, rewardID, at).Scan(&c.UserID, &c.RewardID, &c.ClaimedAt, &inserted)
	if err != nil {
		return nil, false, common.Upstream("получение награды", err)
	}
	c.ClaimedAt = c.ClaimedAt.UTC()
	return &c, inserted, nil
}
