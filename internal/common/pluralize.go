// Package common — pluralize.go содержит склонение русских числительных
// для текстов уведомлений.
package common

import "fmt"

// pluralize выбирает форму слова по правилам русского языка:
//   - n%10==1 И n%100!=11 → one (1, 21, 31, 101, ...)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → few (2, 3, 4, 22, 23, ...)
//   - остальные случаи → many (0, 5-20, 25-30, 100, ...)
func pluralize(n int, one, few, many string) string {
	if n < 0 {
		n = -n
	}
	lastDigit := n % 10
	lastTwoDigits := n % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return one
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return few
	}
	return many
}

// PluralizeDays возвращает правильную форму слова «день» для числа n.
func PluralizeDays(n int) string {
	return pluralize(n, "день", "дня", "дней")
}

// PluralizeGlasses возвращает правильную форму слова «стакан» для числа n.
//
//	PluralizeGlasses(1)  → "стакан"
//	PluralizeGlasses(3)  → "стакана"
//	PluralizeGlasses(11) → "стаканов"
func PluralizeGlasses(n int) string {
	return pluralize(n, "стакан", "стакана", "стаканов")
}

// FormatGlasses создаёт строку вида "3 стакана".
func FormatGlasses(n int) string {
	return fmt.Sprintf("%d %s", n, PluralizeGlasses(n))
}

// FormatDays создаёт строку вида "5 дней".
func FormatDays(n int) string {
	return fmt.Sprintf("%d %s", n, PluralizeDays(n))
}
