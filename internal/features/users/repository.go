// Package users — repository.go выполняет операции с таблицей users.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/hydration/internal/common"
)

// Store — хранилище пользователей. Реализации: PostgreSQL (Repository) и Redis.
type Store interface {
	// Ensure создаёт пользователя, если email ещё не занят, и возвращает сохранённую запись.
	// created == false, если пользователь уже существовал; его поля не меняются.
	// u.CreatedAt становится created_at и updated_at новой записи.
	// Если u.ID уже принадлежит другому email — common.ErrUserIDTaken.
	Ensure(ctx context.Context, u *User) (stored *User, created bool, err error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
}

// Repository предоставляет методы для работы с таблицей users.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий пользователей.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, email, name, notification_email, created_at, updated_at`

const (
	uniqueViolation = "23505"
	usersPrimaryKey = "users_pkey"
)

// Ensure вставляет пользователя одним запросом. При конфликте по email
// DO UPDATE нужен только для того, чтобы RETURNING вернул существующую строку;
// xmax = 0 отличает вставку от конфликта. Конфликт по id (другой email)
// ON CONFLICT (email) не покрывает, он приходит как unique violation на users_pkey.
func (r *Repository) Ensure(ctx context.Context, u *User) (*User, bool, error) {
	query := `
		INSERT INTO users (id, email, name, notification_email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING ` + userColumns + `, (xmax = 0) AS inserted
	`
	var out User
	var inserted bool
	err := r.db.QueryRow(ctx, query, u.ID, u.Email, u.Name, u.NotificationEmail, u.CreatedAt).Scan(
		&out.ID, &out.Email, &out.Name, &out.NotificationEmail,
		&out.CreatedAt, &out.UpdatedAt, &inserted,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == usersPrimaryKey {
		return nil, false, fmt.Errorf("создание пользователя %s: %w", u.ID, common.ErrUserIDTaken)
	}
	if err != nil {
		return nil, false, common.Upstream("создание пользователя", err)
	}
	return &out, inserted, nil
}

// GetByID возвращает пользователя по ID.
func (r *Repository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail возвращает пользователя по email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *Repository) getOne(ctx context.Context, query string, arg string) (*User, error) {
	var u User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Name, &u.NotificationEmail, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrUserNotFound
	}
	if err != nil {
		return nil, common.Upstream("поиск пользователя", err)
	}
	return &u, nil
}

// List возвращает всех пользователей. Используется для напоминаний.
func (r *Repository) List(ctx context.Context) ([]*User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, common.Upstream("список пользователей", err)
	}
	defer rows.Close()

	var out []*User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.NotificationEmail, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, common.Upstream("сканирование пользователя", err)
		}
		out = append(out, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, common.Upstream("список пользователей", err)
	}
	return out, nil
}
