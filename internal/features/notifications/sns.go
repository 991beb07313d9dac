package notifications

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"serotonyl.ru/hydration/internal/common"
	"serotonyl.ru/hydration/internal/config"
)

// snsSubjectLimit — SNS отклоняет темы длиннее 100 символов.
const snsSubjectLimit = 100

// snsAPI — часть клиента SNS, которой пользуемся.
type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSSender публикует уведомления в топик Amazon SNS (подписчики: email, SMS, push).
type SNSSender struct {
	client   snsAPI
	topicARN string
}

// NewSNSSender создаёт отправителя в SNS-топик.
func NewSNSSender(client snsAPI, topicARN string) *SNSSender {
	return &SNSSender{client: client, topicARN: topicARN}
}

// Send публикует текстовую версию сообщения. Получатель передаётся атрибутом,
// чтобы подписки могли фильтровать по нему.
func (s *SNSSender) Send(ctx context.Context, env Envelope) error {
	subject := []rune(env.Message.Subject)
	if len(subject) > snsSubjectLimit {
		subject = subject[:snsSubjectLimit]
	}

	input := &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Subject:  aws.String(string(subject)),
		Message:  aws.String(env.Message.Text),
	}
	if env.To != "" {
		input.MessageAttributes = map[string]types.MessageAttributeValue{
			"recipient": {
				DataType:    aws.String("String"),
				StringValue: aws.String(env.To),
			},
		}
	}

	if _, err := s.client.Publish(ctx, input); err != nil {
		return common.Upstream("публикация в SNS", fmt.Errorf("sns: %w", err))
	}
	return nil
}

// Channel возвращает имя канала.
func (s *SNSSender) Channel() string {
	return config.ChannelSNS
}
