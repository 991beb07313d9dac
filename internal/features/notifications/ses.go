package notifications

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"serotonyl.ru/hydration/internal/common"
	"serotonyl.ru/hydration/internal/config"
)

// sesAPI — часть клиента SES, которой пользуемся.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender отправляет письма через Amazon SES.
type SESSender struct {
	client sesAPI
	from   string
}

// NewSESSender создаёт отправителя писем.
func NewSESSender(client sesAPI, from string) *SESSender {
	return &SESSender{client: client, from: from}
}

// Send отправляет письмо с HTML и текстовой версией.
func (s *SESSender) Send(ctx context.Context, env Envelope) error {
	if env.To == "" {
		return common.ErrRecipientRequired
	}
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{env.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(env.Message.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(env.Message.HTML),
					Charset: aws.String("UTF-8"),
				},
				Text: &types.Content{
					Data:    aws.String(env.Message.Text),
					Charset: aws.String("UTF-8"),
				},
			},
		},
		Source: aws.String(s.from),
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return common.Upstream("отправка письма", fmt.Errorf("ses: %w", err))
	}
	return nil
}

// Channel возвращает имя канала.
func (s *SESSender) Channel() string {
	return config.ChannelSES
}
