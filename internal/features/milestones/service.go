// Package milestones — service.go связывает чистую оценку каталога с хранилищем.
package milestones

import (
	"context"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/hydration/internal/common"
)

// Service открывает достижения и отдаёт их статусы.
type Service struct {
	store Store
	clock common.Clock
}

// NewService создаёт сервис достижений.
func NewService(store Store, clock common.Clock) *Service {
	return &Service{store: store, clock: clock}
}

// EvaluateAndUnlock оценивает каталог по свежим показателям и сохраняет новые открытия.
//
// Вызывать только после того, как изменение записи зафиксировано в хранилище.
// Возвращаются лишь те элементы, которые реально вставил этот вызов:
// повторный или параллельный запрос с тем же входом получит пустой список.
func (s *Service) EvaluateAndUnlock(ctx context.Context, in Input, catalog []Definition) ([]Definition, error) {
	unlocked, err := s.store.GetUnlocked(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	already := make(map[string]bool, len(unlocked))
	for id := range unlocked {
		already[id] = true
	}

	candidates := Evaluate(in, catalog, already)
	if len(candidates) == 0 {
		return nil, nil
	}

	now := s.clock.Now()
	var out []Definition
	for _, d := range candidates {
		inserted, err := s.store.RecordUnlock(ctx, in.UserID, d.ID, now)
		if err != nil {
			return out, err
		}
		if !inserted {
			continue
		}
		out = append(out, d)
		log.WithFields(log.Fields{
			"user_id":   in.UserID,
			"milestone": d.ID,
		}).Info("Открыто достижение")
	}
	return out, nil
}

// Statuses возвращает каталог с состоянием открытия для пользователя.
func (s *Service) Statuses(ctx context.Context, userID string, catalog []Definition) ([]Status, error) {
	unlocked, err := s.store.GetUnlocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]Status, 0, len(catalog))
	for _, d := range catalog {
		st := Status{Definition: d}
		if at, ok := unlocked[d.ID]; ok {
			st.Unlocked = true
			st.UnlockedAt = &at
		}
		out = append(out, st)
	}
	return out, nil
}

// Unlock открывает один элемент вне общей оценки (например, при заявке на награду).
func (s *Service) Unlock(ctx context.Context, userID, milestoneID string) (bool, error) {
	return s.store.RecordUnlock(ctx, userID, milestoneID, s.clock.Now())
}
