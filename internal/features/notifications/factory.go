package notifications

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"serotonyl.ru/hydration/internal/common"
	"serotonyl.ru/hydration/internal/config"
)

// NewSender собирает отправителя для канала из NOTIFY_CHANNEL.
func NewSender(ctx context.Context, cfg *config.Config) (Sender, error) {
	switch cfg.NotifyChannel {
	case config.ChannelLog:
		return LogSender{}, nil

	case config.ChannelSES, config.ChannelSNS:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("не удалось загрузить конфигурацию AWS: %w", err)
		}
		if cfg.NotifyChannel == config.ChannelSES {
			return NewSESSender(ses.NewFromConfig(awsCfg), cfg.NotifyFrom), nil
		}
		return NewSNSSender(sns.NewFromConfig(awsCfg), cfg.SNSTopicARN), nil

	case config.ChannelTelegram:
		bot, err := NewTelegramBot(cfg.TelegramBotToken, cfg.IsDevelopment())
		if err != nil {
			return nil, err
		}
		return NewTelegramSender(bot, cfg.TelegramChatID), nil

	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownChannel, cfg.NotifyChannel)
	}
}
