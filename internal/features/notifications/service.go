// Package notifications — service.go применяет политику отправки и ведёт журнал.
package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/hydration/internal/common"
	"serotonyl.ru/hydration/internal/config"
)

// ServiceConfig — параметры сервиса уведомлений.
type ServiceConfig struct {
	AppName    string
	DedupScope string
	Enabled    bool
}

// NewServiceConfig берёт параметры из общей конфигурации.
func NewServiceConfig(cfg *config.Config) ServiceConfig {
	return ServiceConfig{
		AppName:    cfg.NotifyAppName,
		DedupScope: cfg.NotifyDedupScope,
		Enabled:    cfg.FeatureNotificationsEnabled,
	}
}

// Service решает, отправлять ли уведомление, отправляет и пишет журнал.
type Service struct {
	sender    Sender
	logs      LogStore
	reminders ReminderStore
	clock     common.Clock
	cfg       ServiceConfig
}

// NewService создаёт сервис уведомлений.
func NewService(sender Sender, logs LogStore, reminders ReminderStore, clock common.Clock, cfg ServiceConfig) *Service {
	if cfg.AppName == "" {
		cfg.AppName = "Hydration"
	}
	if cfg.DedupScope == "" {
		cfg.DedupScope = config.DedupLifetime
	}
	return &Service{
		sender:    sender,
		logs:      logs,
		reminders: reminders,
		clock:     clock,
		cfg:       cfg,
	}
}

// NotifyProgress отправляет уведомление о прогрессе, если:
//   - уведомления включены
//   - счётчик чётный и больше нуля
//   - успешной отправки с тем же ключом ещё не было
//
// Возвращает sent == true только при успешной доставке.
// Ошибка доставки записывается в журнал и возвращается; повторно не отправляем.
func (s *Service) NotifyProgress(ctx context.Context, p Progress) (bool, error) {
	if !s.cfg.Enabled || !ShouldNotify(p.GlassCount) {
		return false, nil
	}
	if p.Recipient == "" {
		return false, common.ErrRecipientRequired
	}
	if p.Date.IsZero() {
		p.Date = s.clock.Now()
	}

	key := DedupKey(s.cfg.DedupScope, p.UserID, p.Date, p.GlassCount)
	already, err := s.logs.HasSent(ctx, key)
	if err != nil {
		return false, err
	}
	if already {
		return false, nil
	}

	msg, err := BuildProgress(s.cfg.AppName, p)
	if err != nil {
		return false, err
	}
	return s.deliver(ctx, p, key, msg)
}

// SendReminder отправляет напоминание о серии не чаще раза в день.
// Отметка ставится до отправки, поэтому при сбое доставки повтора в этот день не будет.
func (s *Service) SendReminder(ctx context.Context, p Progress) (bool, error) {
	if p.Date.IsZero() {
		p.Date = s.clock.Now()
	}
	claimed, err := s.reminders.MarkReminded(ctx, p.UserID, p.Date)
	if err != nil {
		return false, err
	}
	if !claimed {
		return false, nil
	}

	key := fmt.Sprintf("reminder:%s:%s", p.UserID, common.FormatDate(p.Date))
	return s.deliver(ctx, p, key, BuildReminder(s.cfg.AppName, p))
}

// SendTest отправляет пробное сообщение без политики и дедупликации.
func (s *Service) SendTest(ctx context.Context, recipient, name, testType string) (Message, error) {
	if recipient == "" {
		return Message{}, common.ErrRecipientRequired
	}

	p := Progress{
		UserID:    "test",
		Recipient: recipient,
		UserName:  name,
		Target:    8,
		Streak:    5,
		Date:      s.clock.Now(),
	}

	var msg Message
	switch testType {
	case TestComplete:
		p.GlassCount = 8
	case TestReminder:
		p.GlassCount = 2
		msg = BuildReminder(s.cfg.AppName, p)
	case TestProgress, "":
		p.GlassCount = 4
	default:
		return Message{}, fmt.Errorf("%w: неизвестный testType %q", common.ErrValidation, testType)
	}

	if msg.Subject == "" {
		built, err := BuildProgress(s.cfg.AppName, p)
		if err != nil {
			return Message{}, err
		}
		msg = built
	}

	if err := s.sender.Send(ctx, Envelope{To: recipient, Message: msg}); err != nil {
		return Message{}, err
	}
	log.WithFields(log.Fields{
		"channel": s.sender.Channel(),
		"to":      recipient,
		"type":    testType,
	}).Info("Тестовое уведомление отправлено")
	return msg, nil
}

// History возвращает последние записи журнала пользователя.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]*LogEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.logs.ListByUser(ctx, userID, limit)
}

func (s *Service) deliver(ctx context.Context, p Progress, key string, msg Message) (bool, error) {
	entry := &LogEntry{
		ID:         uuid.NewString(),
		UserID:     p.UserID,
		Channel:    s.sender.Channel(),
		Recipient:  p.Recipient,
		Subject:    msg.Subject,
		GlassCount: p.GlassCount,
		DedupKey:   key,
		CreatedAt:  s.clock.Now(),
	}

	sendErr := s.sender.Send(ctx, Envelope{To: p.Recipient, Message: msg})
	entry.Sent = sendErr == nil
	if sendErr != nil {
		entry.Error = sendErr.Error()
	}

	if err := s.logs.Record(ctx, entry); err != nil {
		log.WithError(err).WithField("user_id", p.UserID).Warn("Не удалось записать журнал уведомлений")
	}

	if sendErr != nil {
		return false, sendErr
	}

	log.WithFields(log.Fields{
		"user_id": p.UserID,
		"channel": entry.Channel,
		"glasses": p.GlassCount,
	}).Info("Уведомление отправлено")
	return true, nil
}
