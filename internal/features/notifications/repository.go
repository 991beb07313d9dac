// Package notifications — repository.go выполняет операции с таблицами
// notification_log и reminder_log.
package notifications

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/hydration/internal/common"
)

// LogStore — журнал отправок. По нему решается, было ли уже успешное уведомление.
type LogStore interface {
	HasSent(ctx context.Context, dedupKey string) (bool, error)
	Record(ctx context.Context, e *LogEntry) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*LogEntry, error)
}

// ReminderStore помечает, что напоминание за день уже отправлено.
type ReminderStore interface {
	// MarkReminded возвращает true, если отметку поставил этот вызов.
	MarkReminded(ctx context.Context, userID string, date time.Time) (bool, error)
}

// Repository предоставляет методы для работы с журналами уведомлений.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий уведомлений.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// HasSent — есть ли успешная отправка с таким ключом.
func (r *Repository) HasSent(ctx context.Context, dedupKey string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM notification_log WHERE dedup_key = $1 AND sent)`, dedupKey,
	).Scan(&exists)
	if err != nil {
		return false, common.Upstream("проверка журнала уведомлений", err)
	}
	return exists, nil
}

// Record пишет запись в журнал. Вторая успешная запись с тем же ключом
// (параллельная отправка) отбрасывается частичным уникальным индексом.
func (r *Repository) Record(ctx context.Context, e *LogEntry) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO notification_log
		    (id, user_id, channel, recipient, subject, glass_count, dedup_key, sent, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (dedup_key) WHERE sent DO NOTHING
	`, e.ID, e.UserID, e.Channel, e.Recipient, e.Subject, e.GlassCount, e.DedupKey, e.Sent, e.Error, e.CreatedAt)
	if err != nil {
		return common.Upstream("запись журнала уведомлений", err)
	}
	return nil
}

// ListByUser возвращает последние записи журнала пользователя.
func (r *Repository) ListByUser(ctx context.Context, userID string, limit int) ([]*LogEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, channel, recipient, subject, glass_count, dedup_key, sent, error, created_at
		FROM notification_log
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, common.Upstream("чтение журнала уведомлений", err)
	}
	defer rows.Close()

	var out []*LogEntry
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Channel, &e.Recipient, &e.Subject,
			&e.GlassCount, &e.DedupKey, &e.Sent, &e.Error, &e.CreatedAt); err != nil {
			return nil, common.Upstream("сканирование журнала уведомлений", err)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, common.Upstream("чтение журнала уведомлений", err)
	}
	return out, nil
}

// MarkReminded ставит отметку о напоминании за день, если её ещё нет.
func (r *Repository) MarkReminded(ctx context.Context, userID string, date time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO reminder_log (user_id, date) VALUES ($1, $2)
		ON CONFLICT (user_id, date) DO NOTHING
	`, userID, common.DateOf(date))
	if err != nil {
		return false, common.Upstream("отметка напоминания", err)
	}
	return tag.RowsAffected() == 1, nil
}
