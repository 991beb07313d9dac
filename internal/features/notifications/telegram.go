package notifications

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"serotonyl.ru/hydration/internal/common"
	"serotonyl.ru/hydration/internal/config"
)

// telegramAPI — часть telego.Bot, которой пользуемся.
type telegramAPI interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// TelegramSender отправляет текстовую версию уведомления в чат Telegram.
type TelegramSender struct {
	bot    telegramAPI
	chatID int64
}

// NewTelegramSender создаёт отправителя в Telegram.
func NewTelegramSender(bot telegramAPI, chatID int64) *TelegramSender {
	return &TelegramSender{bot: bot, chatID: chatID}
}

// NewTelegramBot создаёт клиента Bot API по токену.
func NewTelegramBot(token string, debug bool) (*telego.Bot, error) {
	opts := []telego.BotOption{telego.WithDefaultLogger(debug, true)}
	bot, err := telego.NewBot(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	return bot, nil
}

// Send отправляет сообщение в чат. Тема идёт первой строкой.
func (s *TelegramSender) Send(ctx context.Context, env Envelope) error {
	text := env.Message.Subject + "\n\n" + env.Message.Text
	if _, err := s.bot.SendMessage(ctx, tu.Message(tu.ID(s.chatID), text)); err != nil {
		return common.Upstream("отправка в Telegram", err)
	}
	return nil
}

// Channel возвращает имя канала.
func (s *TelegramSender) Channel() string {
	return config.ChannelTelegram
}
