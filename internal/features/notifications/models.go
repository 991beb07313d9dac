// Package notifications решает, когда уведомлять пользователя о прогрессе,
// рендерит сообщения и доставляет их через выбранный канал (SES, SNS, Telegram или лог).
// models.go описывает структуры данных уведомлений и журнала отправок.
package notifications

import "time"

// Message — готовое к отправке сообщение. HTML нужен письмам, Text — остальным каналам.
type Message struct {
	Subject string
	HTML    string
	Text    string
}

// Envelope — сообщение вместе с адресом получателя.
type Envelope struct {
	To      string
	Message Message
}

// Progress — данные для уведомления о прогрессе дня.
type Progress struct {
	UserID     string
	Recipient  string
	UserName   string
	GlassCount int
	Target     int
	Streak     int
	Date       time.Time
}

// Remaining — сколько стаканов осталось до цели.
func (p Progress) Remaining() int {
	if p.GlassCount >= p.Target {
		return 0
	}
	return p.Target - p.GlassCount
}

// LogEntry — запись журнала отправок (успешных и нет).
type LogEntry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Channel    string    `json:"channel"`
	Recipient  string    `json:"recipient"`
	Subject    string    `json:"subject"`
	GlassCount int       `json:"glasses"`
	DedupKey   string    `json:"-"`
	Sent       bool      `json:"sent"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Тестовые сообщения (POST /api/test-email, команда test-notify)
const (
	TestProgress = "progress"
	TestComplete = "complete"
	TestReminder = "reminder"
)
