package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/hydration/internal/common"
	"serotonyl.ru/hydration/internal/config"
)

func TestShouldNotify(t *testing.T) {
	for n, want := range map[int]bool{0: false, 1: false, 2: true, 3: false, 4: true, 8: true, 9: false, -2: false} {
		assert.Equal(t, want, ShouldNotify(n), "count %d", n)
	}
}

func TestDedupKey(t *testing.T) {
	day := time.Date(2025, 4, 5, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, "progress:u1:4", DedupKey(config.DedupLifetime, "u1", day, 4))
	assert.Equal(t, "progress:u1:2025-04-05:4", DedupKey(config.DedupDaily, "u1", day, 4))
	assert.NotEqual(t,
		DedupKey(config.DedupDaily, "u1", day, 4),
		DedupKey(config.DedupDaily, "u1", day.Add(24*time.Hour), 4))
}

func TestBuildProgressTiers(t *testing.T) {
	tests := []struct {
		name    string
		glasses int
		want    string
	}{
		{"started", 2, "Отличное начало"},
		{"halfway", 4, "Половина пути"},
		{"almost done", 7, "Осталось 1 стакан"},
		{"complete", 8, "Цель на сегодня выполнена"},
		{"over target", 10, "Цель на сегодня выполнена"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := BuildProgress("Hydration", Progress{GlassCount: tt.glasses, Target: 8, Streak: 3, UserName: "Анна"})
			require.NoError(t, err)
			assert.Contains(t, msg.Text, tt.want)
			assert.Contains(t, msg.HTML, "Анна")
			assert.Contains(t, msg.Subject, common.FormatGlasses(tt.glasses))
		})
	}
}

func TestBuildProgressEscapesName(t *testing.T) {
	msg, err := BuildProgress("Hydration", Progress{GlassCount: 2, Target: 8, UserName: "<script>x</script>"})
	require.NoError(t, err)
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "&lt;script&gt;")
}

func TestBuildProgressDefaultName(t *testing.T) {
	msg, err := BuildProgress("Hydration", Progress{GlassCount: 2, Target: 8})
	require.NoError(t, err)
	assert.Contains(t, msg.Text, "друг")
}

func TestBuildReminder(t *testing.T) {
	msg := BuildReminder("Hydration", Progress{GlassCount: 3, Target: 8, Streak: 5})
	assert.Contains(t, msg.Subject, "5 дней")
	assert.Contains(t, msg.Text, "3 стакана из 8")
}

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	return &ses.SendEmailOutput{}, f.err
}

func TestSESSender(t *testing.T) {
	fake := &fakeSES{}
	sender := NewSESSender(fake, "noreply@example.com")

	err := sender.Send(context.Background(), Envelope{
		To:      "anna@example.com",
		Message: Message{Subject: "s", HTML: "<p>h</p>", Text: "t"},
	})
	require.NoError(t, err)
	require.NotNil(t, fake.input)
	assert.Equal(t, []string{"anna@example.com"}, fake.input.Destination.ToAddresses)
	assert.Equal(t, "noreply@example.com", aws.ToString(fake.input.Source))
	assert.Equal(t, "<p>h</p>", aws.ToString(fake.input.Message.Body.Html.Data))
	assert.Equal(t, "t", aws.ToString(fake.input.Message.Body.Text.Data))
	assert.Equal(t, config.ChannelSES, sender.Channel())

	assert.ErrorIs(t, sender.Send(context.Background(), Envelope{}), common.ErrRecipientRequired)

	fake.err = errors.New("throttled")
	assert.ErrorIs(t, sender.Send(context.Background(), Envelope{To: "a@b.c"}), common.ErrUpstream)
}

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	return &sns.PublishOutput{}, f.err
}

func TestSNSSender(t *testing.T) {
	fake := &fakeSNS{}
	sender := NewSNSSender(fake, "arn:aws:sns:eu-central-1:123:hydration")

	long := make([]rune, 150)
	for i := range long {
		long[i] = 'я'
	}
	err := sender.Send(context.Background(), Envelope{To: "anna@example.com", Message: Message{Subject: string(long), Text: "t"}})
	require.NoError(t, err)
	assert.Equal(t, "arn:aws:sns:eu-central-1:123:hydration", aws.ToString(fake.input.TopicArn))
	assert.Len(t, []rune(aws.ToString(fake.input.Subject)), snsSubjectLimit)
	assert.Equal(t, "anna@example.com", aws.ToString(fake.input.MessageAttributes["recipient"].StringValue))

	fake.err = errors.New("denied")
	assert.ErrorIs(t, sender.Send(context.Background(), Envelope{}), common.ErrUpstream)
}

type fakeTelegram struct {
	params *telego.SendMessageParams
	err    error
}

func (f *fakeTelegram) SendMessage(_ context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	f.params = params
	return &telego.Message{}, f.err
}

func TestTelegramSender(t *testing.T) {
	fake := &fakeTelegram{}
	sender := NewTelegramSender(fake, 42)

	require.NoError(t, sender.Send(context.Background(), Envelope{Message: Message{Subject: "Тема", Text: "Текст"}}))
	assert.Equal(t, int64(42), fake.params.ChatID.ID)
	assert.Equal(t, "Тема\n\nТекст", fake.params.Text)
	assert.Equal(t, config.ChannelTelegram, sender.Channel())

	fake.err = errors.New("chat not found")
	assert.ErrorIs(t, sender.Send(context.Background(), Envelope{}), common.ErrUpstream)
}

func TestLogSender(t *testing.T) {
	assert.NoError(t, LogSender{}.Send(context.Background(), Envelope{To: "x", Message: Message{Text: "t"}}))
	assert.Equal(t, config.ChannelLog, LogSender{}.Channel())
}

func TestNewSenderLogChannel(t *testing.T) {
	s, err := NewSender(context.Background(), &config.Config{NotifyChannel: config.ChannelLog})
	require.NoError(t, err)
	assert.Equal(t, config.ChannelLog, s.Channel())

	_, err = NewSender(context.Background(), &config.Config{NotifyChannel: "pigeon"})
	assert.ErrorIs(t, err, common.ErrUnknownChannel)
}
