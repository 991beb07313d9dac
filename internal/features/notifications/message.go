package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"serotonyl.ru/hydration/internal/common"
)

// tier — стадия прогресса дня, от неё зависит текст.
type tier int

const (
	tierStarted tier = iota
	tierHalfway
	tierAlmostDone
	tierComplete
)

func tierOf(p Progress) tier {
	switch {
	case p.GlassCount >= p.Target:
		return tierComplete
	case p.GlassCount >= p.Target-1:
		return tierAlmostDone
	case p.GlassCount*2 >= p.Target:
		return tierHalfway
	default:
		return tierStarted
	}
}

func headline(p Progress) (message, motivation string) {
	switch tierOf(p) {
	case tierComplete:
		return "🎉 Цель на сегодня выполнена!",
			fmt.Sprintf("Серия уже %s. Так держать!", common.FormatDays(p.Streak))
	case tierAlmostDone:
		return fmt.Sprintf("💪 Почти у цели! Осталось %s.", common.FormatGlasses(p.Remaining())),
			"Финиш совсем рядом."
	case tierHalfway:
		return "🌟 Половина пути позади!",
			"Каждый стакан идёт на пользу."
	default:
		return "💧 Отличное начало! Продолжай в том же духе.",
			"Привычка складывается из маленьких шагов."
	}
}

var progressTemplate = template.Must(template.New("progress").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.AppName}}</title></head>
<body style="font-family:-apple-system,'Segoe UI',sans-serif;background:#f4f8fb;padding:20px;color:#2d2d2d">
  <div style="max-width:600px;margin:0 auto;background:#fff;border-radius:16px;padding:32px">
    <h1 style="color:#3a86c8;text-align:center">{{.AppName}}</h1>
    <p>Привет, {{.Name}}!</p>
    <p style="font-size:1.2rem;font-weight:600;text-align:center">{{.Message}}</p>
    <div style="background:#e3eef7;border-radius:10px;height:20px;overflow:hidden">
      <div style="background:#3a86c8;height:100%;width:{{.Percent}}%"></div>
    </div>
    <p style="text-align:center">{{.Glasses}} из {{.Target}} · серия: {{.Streak}}</p>
    <p>{{.Motivation}}</p>
  </div>
</body>
</html>`))

// BuildProgress рендерит уведомление о прогрессе дня.
// Тема всегда содержит число стаканов.
func BuildProgress(appName string, p Progress) (Message, error) {
	msg, motivation := headline(p)
	percent := 100
	if p.Target > 0 && p.GlassCount < p.Target {
		percent = p.GlassCount * 100 / p.Target
	}
	name := p.UserName
	if name == "" {
		name = "друг"
	}

	var buf bytes.Buffer
	err := progressTemplate.Execute(&buf, map[string]any{
		"AppName":    appName,
		"Name":       name,
		"Message":    msg,
		"Motivation": motivation,
		"Percent":    percent,
		"Glasses":    common.FormatGlasses(p.GlassCount),
		"Target":     p.Target,
		"Streak":     common.FormatDays(p.Streak),
	})
	if err != nil {
		return Message{}, fmt.Errorf("рендер уведомления: %w", err)
	}

	text := strings.Join([]string{
		fmt.Sprintf("%s, %s", name, msg),
		fmt.Sprintf("%s из %d · серия: %s", common.FormatGlasses(p.GlassCount), p.Target, common.FormatDays(p.Streak)),
		motivation,
	}, "\n")

	return Message{
		Subject: fmt.Sprintf("💧 %s: уже %s!", appName, common.FormatGlasses(p.GlassCount)),
		HTML:    buf.String(),
		Text:    text,
	}, nil
}

// BuildReminder рендерит вечернее напоминание для тех, у кого серия под угрозой.
func BuildReminder(appName string, p Progress) Message {
	text := fmt.Sprintf("⚠️ У тебя серия %s! Сегодня выпито %s из %d, не забудь про воду, чтобы не потерять прогресс.",
		common.FormatDays(p.Streak), common.FormatGlasses(p.GlassCount), p.Target)
	return Message{
		Subject: fmt.Sprintf("⚠️ %s: серия %s под угрозой", appName, common.FormatDays(p.Streak)),
		HTML:    "<p>" + template.HTMLEscapeString(text) + "</p>",
		Text:    text,
	}
}
