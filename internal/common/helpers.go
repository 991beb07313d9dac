// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: нормализация дат, округление, русская плюрализация.
package common

import (
	"math"
	"time"
)

// Day — длительность календарного дня. Все даты записей нормализуются к полуночи UTC,
// поэтому сдвиг на Day всегда попадает ровно в соседний календарный день.
const Day = 24 * time.Hour

// DateLayout — формат даты без времени в API и ключах хранилища.
const DateLayout = "2006-01-02"

// DateOf возвращает полночь UTC календарного дня, в который попадает t (по UTC).
//
// Это единственное правило нормализации в сервисе: им пользуются создание записи,
// её поиск и построение недельной серии.
//
// Примеры:
//
//	DateOf(2025-04-05T23:59:00+00:00) → 2025-04-05T00:00:00Z
//	DateOf(2025-04-06T01:30:00+03:00) → 2025-04-05T00:00:00Z
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay сообщает, попадают ли два момента в один календарный день UTC.
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// DaysBefore возвращает дату, отстоящую от day на n дней назад.
func DaysBefore(day time.Time, n int) time.Time {
	return DateOf(day).AddDate(0, 0, -n)
}

// FormatDate форматирует дату в виде 2006-01-02.
func FormatDate(t time.Time) string {
	return DateOf(t).Format(DateLayout)
}

// ParseDate разбирает дату в формате 2006-01-02 и нормализует её.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// RoundTo1 округляет до одного знака после запятой, половина — от нуля.
//
//	RoundTo1(4.25)  → 4.3
//	RoundTo1(-4.25) → -4.3
func RoundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
