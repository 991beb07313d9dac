package hydration

import (
	"time"

	"serotonyl.ru/hydration/internal/common"
)

// weekdayNames — короткие названия дней недели, индекс = time.Weekday.
var weekdayNames = [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

// Aggregates считает сумму стаканов, число выполненных дней
// и среднее за последние 7 дней.
//
// В среднее попадают записи с датой >= today-7 (граница включительно,
// сравнение по календарным дням), округление до 0.1 от нуля.
// Если в окне нет записей — 0.
func Aggregates(records []*DailyRecord, today time.Time) Stats {
	since := common.DaysBefore(today, 7)

	var stats Stats
	weekSum, weekCount := 0, 0
	for _, r := range records {
		stats.TotalGlasses += r.GlassCount
		if r.Completed {
			stats.CompletedDays++
		}
		if !common.DateOf(r.Date).Before(since) {
			weekSum += r.GlassCount
			weekCount++
		}
	}
	if weekCount > 0 {
		stats.WeeklyAverage = common.RoundTo1(float64(weekSum) / float64(weekCount))
	}
	return stats
}

// WeeklySeries возвращает 7 дней от today-6 до today включительно, от старого к новому.
// Дни без записи заполняются нулями с целью по умолчанию.
func WeeklySeries(records []*DailyRecord, today time.Time) []DaySummary {
	byDate := make(map[string]*DailyRecord, len(records))
	for _, r := range records {
		byDate[common.FormatDate(r.Date)] = r
	}

	day := common.DateOf(today)
	out := make([]DaySummary, 0, 7)
	for i := 6; i >= 0; i-- {
		d := day.AddDate(0, 0, -i)
		key := common.FormatDate(d)
		summary := DaySummary{
			Date:    key,
			DayName: weekdayNames[d.Weekday()],
			Target:  DefaultTarget,
		}
		if r, ok := byDate[key]; ok {
			summary.GlassCount = r.GlassCount
			summary.Target = r.Target
			summary.Completed = r.Completed
		}
		out = append(out, summary)
	}
	return out
}

// Summarize считает всё по записям пользователя (в любом порядке) за один вызов.
func Summarize(records []*DailyRecord, today time.Time) Snapshot {
	desc := SortDesc(records)

	snap := Snapshot{
		Stats:      Aggregates(records, today),
		BestStreak: BestStreak(SortAsc(records)),
		Week:       WeeklySeries(records, today),
	}
	snap.Today = Today{
		Target: DefaultTarget,
		Streak: ActiveStreak(desc, today),
	}
	if len(desc) > 0 && common.SameDay(desc[0].Date, today) {
		snap.Today.Glasses = desc[0].GlassCount
		snap.Today.Target = desc[0].Target
		snap.Today.Completed = desc[0].Completed
	}
	return snap
}
