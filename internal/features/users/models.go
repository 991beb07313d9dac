// Package users хранит пользователей трекера и сопоставляет email с идентификатором.
// models.go описывает структуры данных для работы с таблицей users.
package users

import (
	"strings"
	"time"
)

// User представляет пользователя трекера.
// Все остальные сущности (записи, достижения, награды) привязаны к ID.
type User struct {
	ID                string    `json:"id"`                // Внешний ID клиента или сгенерированный UUID
	Email             string    `json:"email"`             // Уникальный email, по нему ищем и создаём
	Name              string    `json:"name,omitempty"`    // Имя для обращения в уведомлениях
	NotificationEmail string    `json:"notificationEmail"` // Куда слать уведомления (по умолчанию = Email)
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Identity — то, чем клиент представляется в запросе.
// Достаточно одного из UserID и Email.
type Identity struct {
	UserID            string `json:"userId" form:"userId"`
	Email             string `json:"email" form:"email"`
	Name              string `json:"userName" form:"userName"`
	NotificationEmail string `json:"notificationEmail" form:"notificationEmail"`
}

// Normalize обрезает пробелы и приводит email к нижнему регистру.
func (i Identity) Normalize() Identity {
	i.UserID = strings.TrimSpace(i.UserID)
	i.Email = NormalizeEmail(i.Email)
	i.Name = strings.TrimSpace(i.Name)
	i.NotificationEmail = NormalizeEmail(i.NotificationEmail)
	return i
}

// Empty — не передано ни одного идентифицирующего поля.
func (i Identity) Empty() bool {
	return i.UserID == "" && i.Email == ""
}

// NormalizeEmail приводит адрес к каноническому виду для поиска.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Recipient возвращает адрес для уведомлений.
func (u *User) Recipient() string {
	if u.NotificationEmail != "" {
		return u.NotificationEmail
	}
	return u.Email
}

// DisplayName возвращает имя для обращения; без имени — часть email до @.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if at := strings.IndexByte(u.Email, '@'); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}
