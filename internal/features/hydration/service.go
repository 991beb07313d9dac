// Package hydration — service.go содержит основную бизнес-логику трекера:
// запись стакана, чтение дня, прогресс за неделю и вечерние напоминания.
package hydration

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/hydration/internal/common"
	"serotonyl.ru/hydration/internal/features/milestones"
	"serotonyl.ru/hydration/internal/features/notifications"
	"serotonyl.ru/hydration/internal/features/users"
)

// Notifier — отправка уведомлений о прогрессе и напоминаний.
type Notifier interface {
	NotifyProgress(ctx context.Context, p notifications.Progress) (bool, error)
	SendReminder(ctx context.Context, p notifications.Progress) (bool, error)
}

// Config — параметры сервиса.
type Config struct {
	DefaultTarget     int // Цель для новых записей
	ReminderThreshold int // Минимальная серия, при которой шлём напоминание
}

// Service управляет дневными записями.
type Service struct {
	store      Store
	users      *users.Service
	milestones *milestones.Service
	notifier   Notifier
	clock      common.Clock
	cfg        Config
}

// NewService создаёт сервис записей.
func NewService(store Store, usersService *users.Service, milestonesService *milestones.Service,
	notifier Notifier, clock common.Clock, cfg Config) *Service {
	if cfg.DefaultTarget <= 0 {
		cfg.DefaultTarget = DefaultTarget
	}
	return &Service{
		store:      store,
		users:      usersService,
		milestones: milestonesService,
		notifier:   notifier,
		clock:      clock,
		cfg:        cfg,
	}
}

// ProgressView — ответ GET /api/progress.
type ProgressView struct {
	Week          []DaySummary        `json:"weeklyData"`
	CurrentStreak int                 `json:"currentStreak"`
	BestStreak    int                 `json:"bestStreak"`
	Stats         Stats               `json:"stats"`
	Achievements  []milestones.Status `json:"achievements"`
}

// TodayView — ответ GET /api/hydration.
type TodayView struct {
	Today Today `json:"hydration"`
	Stats Stats `json:"stats"`
}

// AddGlass записывает один стакан за сегодня.
//
// Порядок:
//  1. Находим или создаём пользователя (ошибка валидации — без побочных эффектов)
//  2. Атомарный upsert записи дня; ошибка хранилища прерывает запрос
//  3. Пересчитываем серию и статистику по зафиксированным записям
//  4. Открываем достижения по свежим показателям
//  5. Уведомление о прогрессе
//
// Шаги 3-5 — обогащение ответа: их сбои логируются и не откатывают стакан.
func (s *Service) AddGlass(ctx context.Context, id users.Identity) (*AddGlassResult, error) {
	user, err := s.users.ResolveOrCreate(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	rec, err := s.store.UpsertRecord(ctx, user.ID, now, 1, s.cfg.DefaultTarget)
	if err != nil {
		return nil, fmt.Errorf("не удалось записать стакан: %w", err)
	}

	result := &AddGlassResult{
		Record: rec,
		Today: Today{
			Glasses:   rec.GlassCount,
			Target:    rec.Target,
			Completed: rec.Completed,
		},
		NewlyUnlocked: []string{},
	}

	logger := log.WithFields(log.Fields{
		"user_id": user.ID,
		"glasses": rec.GlassCount,
	})

	snap, err := s.summary(ctx, user.ID)
	if err != nil {
		logger.WithError(err).Warn("Не удалось пересчитать статистику после стакана")
	} else {
		result.Today.Streak = snap.Today.Streak
		result.Stats = snap.Stats

		unlocked, err := s.milestones.EvaluateAndUnlock(ctx, milestones.Input{
			UserID:          user.ID,
			DailyGlassCount: rec.GlassCount,
			CurrentStreak:   snap.Today.Streak,
			LifetimeGlasses: snap.Stats.TotalGlasses,
		}, milestones.Catalog())
		if err != nil {
			logger.WithError(err).Warn("Не удалось проверить достижения")
		}
		for _, d := range unlocked {
			result.NewlyUnlocked = append(result.NewlyUnlocked, d.ID)
		}
	}

	sent, err := s.notifier.NotifyProgress(ctx, notifications.Progress{
		UserID:     user.ID,
		Recipient:  user.Recipient(),
		UserName:   user.DisplayName(),
		GlassCount: rec.GlassCount,
		Target:     rec.Target,
		Streak:     result.Today.Streak,
		Date:       rec.Date,
	})
	if err != nil {
		logger.WithError(err).Warn("Уведомление о прогрессе не отправлено")
	}
	result.NotificationSent = sent

	logger.WithField("completed", rec.Completed).Debug("Стакан записан")
	return result, nil
}

// GetToday возвращает запись за сегодня (создавая пустую при первом чтении) и статистику.
func (s *Service) GetToday(ctx context.Context, id users.Identity) (*TodayView, error) {
	user, err := s.users.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	rec, err := s.store.UpsertRecord(ctx, user.ID, s.clock.Now(), 0, s.cfg.DefaultTarget)
	if err != nil {
		return nil, err
	}

	snap, err := s.summary(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &TodayView{
		Today: Today{
			Glasses:   rec.GlassCount,
			Target:    rec.Target,
			Completed: rec.Completed,
			Streak:    snap.Today.Streak,
		},
		Stats: snap.Stats,
	}, nil
}

// SetTarget меняет цель на сегодня.
func (s *Service) SetTarget(ctx context.Context, id users.Identity, target int) (*Today, error) {
	if target <= 0 {
		return nil, common.ErrInvalidTarget
	}
	user, err := s.users.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	rec, err := s.store.SetTarget(ctx, user.ID, s.clock.Now(), target)
	if err != nil {
		return nil, err
	}

	snap, err := s.summary(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": user.ID,
		"target":  target,
	}).Info("Цель на день изменена")

	return &Today{
		Glasses:   rec.GlassCount,
		Target:    rec.Target,
		Completed: rec.Completed,
		Streak:    snap.Today.Streak,
	}, nil
}

// Progress возвращает недельную серию, стрики, статистику и статус достижений.
func (s *Service) Progress(ctx context.Context, id users.Identity) (*ProgressView, error) {
	user, err := s.users.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	snap, err := s.summary(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	statuses, err := s.milestones.Statuses(ctx, user.ID, milestones.Achievements())
	if err != nil {
		return nil, err
	}

	return &ProgressView{
		Week:          snap.Week,
		CurrentStreak: snap.Today.Streak,
		BestStreak:    snap.BestStreak,
		Stats:         snap.Stats,
		Achievements:  statuses,
	}, nil
}

// Summary пересчитывает все показатели пользователя по его записям.
func (s *Service) Summary(ctx context.Context, userID string) (Snapshot, error) {
	return s.summary(ctx, userID)
}

func (s *Service) summary(ctx context.Context, userID string) (Snapshot, error) {
	records, err := s.store.ListRecords(ctx, userID, DateRange{})
	if err != nil {
		return Snapshot{}, err
	}
	return Summarize(records, s.clock.Now()), nil
}

// SendReminders напоминает пользователям с серией не меньше порога,
// у которых сегодняшняя цель ещё не выполнена. Запускается кроном.
func (s *Service) SendReminders(ctx context.Context) error {
	all, err := s.users.List(ctx)
	if err != nil {
		return fmt.Errorf("ошибка получения пользователей: %w", err)
	}

	sentCount := 0
	for _, u := range all {
		snap, err := s.summary(ctx, u.ID)
		if err != nil {
			log.WithError(err).WithField("user_id", u.ID).Error("Ошибка расчёта серии для напоминания")
			continue
		}
		if snap.Today.Completed || snap.Today.Streak < s.cfg.ReminderThreshold {
			continue
		}

		sent, err := s.notifier.SendReminder(ctx, notifications.Progress{
			UserID:     u.ID,
			Recipient:  u.Recipient(),
			UserName:   u.DisplayName(),
			GlassCount: snap.Today.Glasses,
			Target:     snap.Today.Target,
			Streak:     snap.Today.Streak,
			Date:       s.clock.Now(),
		})
		if err != nil {
			log.WithError(err).WithField("user_id", u.ID).Error("Ошибка отправки напоминания")
			continue
		}
		if sent {
			sentCount++
		}
	}

	log.WithFields(log.Fields{
		"users": len(all),
		"sent":  sentCount,
	}).Info("Напоминания о сериях разосланы")
	return nil
}
