// Package rewards — service.go содержит логику списка и получения наград.
package rewards

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/hydration/internal/common"
	"serotonyl.ru/hydration/internal/features/hydration"
	"serotonyl.ru/hydration/internal/features/milestones"
	"serotonyl.ru/hydration/internal/features/users"
)

// SnapshotSource пересчитывает показатели пользователя по записям.
type SnapshotSource interface {
	Summary(ctx context.Context, userID string) (hydration.Snapshot, error)
}

// Service управляет наградами.
type Service struct {
	store      Store
	users      *users.Service
	milestones *milestones.Service
	progress   SnapshotSource
	clock      common.Clock
}

// NewService создаёт сервис наград.
func NewService(store Store, usersService *users.Service, milestonesService *milestones.Service,
	progress SnapshotSource, clock common.Clock) *Service {
	return &Service{
		store:      store,
		users:      usersService,
		milestones: milestonesService,
		progress:   progress,
		clock:      clock,
	}
}

// List возвращает все награды каталога с состоянием открытия и получения.
func (s *Service) List(ctx context.Context, id users.Identity) ([]Reward, error) {
	user, err := s.users.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.ListForUser(ctx, user.ID)
}

// ListForUser — List для уже найденного пользователя.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Reward, error) {
	statuses, err := s.milestones.Statuses(ctx, userID, milestones.Rewards())
	if err != nil {
		return nil, err
	}
	claims, err := s.store.GetClaims(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]Reward, 0, len(statuses))
	for _, st := range statuses {
		r := Reward{
			Definition: st.Definition,
			Unlocked:   st.Unlocked,
			UnlockedAt: st.UnlockedAt,
		}
		if at, ok := claims[st.ID]; ok {
			r.Claimed = true
			r.ClaimedAt = &at
		}
		out = append(out, r)
	}
	return out, nil
}

// Claim забирает награду.
//
// Награда должна быть открыта: либо уже записана в хранилище, либо порог
// достигнут по текущим записям (тогда открытие сохраняется здесь же).
// Повторное получение возвращает первую запись без ошибки.
func (s *Service) Claim(ctx context.Context, req ClaimRequest) (*Reward, error) {
	rewardID := strings.TrimSpace(req.RewardID)
	if rewardID == "" {
		return nil, common.ErrRewardIDRequired
	}
	def, ok := milestones.Lookup(rewardID)
	if !ok || !def.Claimable {
		return nil, common.ErrUnknownReward
	}

	user, err := s.users.Resolve(ctx, req.Identity)
	if err != nil {
		return nil, err
	}

	statuses, err := s.milestones.Statuses(ctx, user.ID, []milestones.Definition{def})
	if err != nil {
		return nil, err
	}
	status := statuses[0]

	if !status.Unlocked {
		snap, err := s.progress.Summary(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		in := milestones.Input{
			UserID:          user.ID,
			DailyGlassCount: snap.Today.Glasses,
			CurrentStreak:   snap.Today.Streak,
			LifetimeGlasses: snap.Stats.TotalGlasses,
		}
		if !def.Qualifies(in) {
			return nil, common.ErrRewardLocked
		}
		if _, err := s.milestones.Unlock(ctx, user.ID, def.ID); err != nil {
			return nil, err
		}
		now := s.clock.Now()
		status.Unlocked = true
		status.UnlockedAt = &now
	}

	claim, created, err := s.store.Claim(ctx, user.ID, def.ID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if created {
		log.WithFields(log.Fields{
			"user_id":   user.ID,
			"reward_id": def.ID,
		}).Info("Награда получена")
	}

	return &Reward{
		Definition: def,
		Unlocked:   true,
		UnlockedAt: status.UnlockedAt,
		Claimed:    true,
		ClaimedAt:  &claim.ClaimedAt,
	}, nil
}
