// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание вечерних напоминаний о сериях.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// ReminderRunner рассылает напоминания пользователям с серией под угрозой.
type ReminderRunner interface {
	SendReminders(ctx context.Context) error
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron     *cron.Cron
	runner   ReminderRunner
	schedule string
}

// NewScheduler создаёт планировщик задач. Расписание задаётся в UTC,
// как и границы дней записей.
func NewScheduler(runner ReminderRunner, schedule string) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		runner:   runner,
		schedule: schedule,
	}
}

// Start регистрирует задачи и запускает планировщик.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		log.Info("[CRON] Рассылка напоминаний о сериях")
		if err := s.runner.SendReminders(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка напоминаний")
		}
	})
	if err != nil {
		return fmt.Errorf("некорректное расписание %q: %w", s.schedule, err)
	}

	s.cron.Start()
	log.WithField("schedule", s.schedule).Info("Планировщик задач запущен (UTC)")
	return nil
}

// Stop останавливает планировщик и дожидается текущей задачи.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
