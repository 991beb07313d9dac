package notifications

import (
	"context"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/hydration/internal/config"
)

// Sender доставляет сообщение через конкретный канал.
//
//go:generate mockgen -package=mocks -destination=mocks/mock_sender.go serotonyl.ru/hydration/internal/features/notifications Sender
type Sender interface {
	Send(ctx context.Context, env Envelope) error
	Channel() string
}

// LogSender пишет уведомления в лог. Канал по умолчанию для разработки.
type LogSender struct{}

// Send логирует сообщение.
func (LogSender) Send(_ context.Context, env Envelope) error {
	log.WithFields(log.Fields{
		"to":      env.To,
		"subject": env.Message.Subject,
	}).Info(env.Message.Text)
	return nil
}

// Channel возвращает имя канала.
func (LogSender) Channel() string {
	return config.ChannelLog
}
