// Package users — service.go сопоставляет идентификацию из запроса с пользователем.
package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/hydration/internal/common"
)

// Service управляет пользователями.
type Service struct {
	store Store
	clock common.Clock
}

// NewService создаёт новый сервис пользователей.
func NewService(store Store, clock common.Clock) *Service {
	return &Service{store: store, clock: clock}
}

// Resolve находит существующего пользователя по email (приоритетно) или по ID.
//   - ни email, ни ID → ErrUserRequired
//   - пользователя нет → ErrUserNotFound
func (s *Service) Resolve(ctx context.Context, id Identity) (*User, error) {
	id = id.Normalize()
	if id.Empty() {
		return nil, common.ErrUserRequired
	}
	if id.Email != "" {
		return s.store.GetByEmail(ctx, id.Email)
	}
	return s.store.GetByID(ctx, id.UserID)
}

// ResolveOrCreate используется при записи стакана: по email пользователь
// находится или создаётся (с переданным userId либо новым UUID).
// Без email пользователь должен уже существовать.
// userId, занятый другим email, — common.ErrUserIDTaken.
func (s *Service) ResolveOrCreate(ctx context.Context, id Identity) (*User, error) {
	id = id.Normalize()
	if id.Empty() {
		return nil, common.ErrUserRequired
	}
	if id.Email == "" {
		return s.store.GetByID(ctx, id.UserID)
	}

	existing, err := s.store.GetByEmail(ctx, id.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	now := s.clock.Now()
	candidate := &User{
		ID:                id.UserID,
		Email:             id.Email,
		Name:              id.Name,
		NotificationEmail: id.NotificationEmail,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if candidate.ID == "" {
		candidate.ID = uuid.NewString()
	}
	if candidate.NotificationEmail == "" {
		candidate.NotificationEmail = candidate.Email
	}

	stored, created, err := s.store.Ensure(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if created {
		log.WithFields(log.Fields{
			"user_id": stored.ID,
			"email":   stored.Email,
		}).Info("Новый пользователь зарегистрирован")
	}
	return stored, nil
}

// List возвращает всех пользователей.
func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.store.List(ctx)
}
