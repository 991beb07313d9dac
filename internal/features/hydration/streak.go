// Package hydration — streak.go считает серии дней с выполненной целью.
// Все функции чистые: они только читают записи и ничего не меняют.
package hydration

import (
	"sort"
	"time"

	"serotonyl.ru/hydration/internal/common"
)

// CurrentStreak считает серию, заканчивающуюся в today.
//
// records должны быть отсортированы по дате по убыванию, без дублей дат.
// Запись на позиции i должна приходиться ровно на today-i и быть выполненной;
// первое несовпадение (пропущенный день или невыполненная цель) обрывает серию.
func CurrentStreak(records []*DailyRecord, today time.Time) int {
	day := common.DateOf(today)
	streak := 0
	for i, r := range records {
		expected := day.AddDate(0, 0, -i)
		if !common.DateOf(r.Date).Equal(expected) || !r.Completed {
			break
		}
		streak++
	}
	return streak
}

// ActiveStreak — стрик, который показываем пользователю.
// Пока сегодняшняя цель не выполнена, день ещё не закончился и серию не рвёт:
// тогда серия считается по записям до сегодняшнего дня от вчерашнего числа.
// records отсортированы по убыванию даты.
func ActiveStreak(records []*DailyRecord, today time.Time) int {
	day := common.DateOf(today)
	if len(records) > 0 && common.DateOf(records[0].Date).Equal(day) {
		if records[0].Completed {
			return CurrentStreak(records, day)
		}
		records = records[1:]
	}
	return CurrentStreak(records, day.AddDate(0, 0, -1))
}

// BestStreak — лучшая серия за всю историю.
//
// records отсортированы по дате по возрастанию. В отличие от CurrentStreak
// смежность дат НЕ проверяется: счётчик сбрасывается только невыполненной записью,
// поэтому пропущенные дни (без записи) серию не прерывают.
func BestStreak(records []*DailyRecord) int {
	current, best := 0, 0
	for _, r := range records {
		if !r.Completed {
			current = 0
			continue
		}
		current++
		if current > best {
			best = current
		}
	}
	return best
}

// SortDesc возвращает копию записей, отсортированную по убыванию даты.
func SortDesc(records []*DailyRecord) []*DailyRecord {
	out := append([]*DailyRecord(nil), records...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// SortAsc возвращает копию записей, отсортированную по возрастанию даты.
func SortAsc(records []*DailyRecord) []*DailyRecord {
	out := append([]*DailyRecord(nil), records...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
