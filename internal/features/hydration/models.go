// Package hydration ведёт дневные записи выпитой воды и считает по ним
// серии (стрики) и статистику.
// models.go описывает структуры данных дневной записи и производных показателей.
package hydration

import "time"

// DefaultTarget — дневная цель по умолчанию (стаканов).
const DefaultTarget = 8

// DailyRecord — одна запись на пару (пользователь, календарный день UTC).
// Completed всегда равен GlassCount >= Target: хранилище пересчитывает его
// тем же атомарным запросом, что меняет счётчик или цель.
type DailyRecord struct {
	UserID     string    `json:"userId"`
	Date       time.Time `json:"date"`      // Полночь UTC
	GlassCount int       `json:"glasses"`   // Выпито стаканов за день
	Target     int       `json:"target"`    // Цель на день
	Completed  bool      `json:"completed"` // Цель достигнута
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// DateRange — диапазон дат [From, To] включительно. Нулевая граница = без ограничения.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Stats — агрегаты по всем записям пользователя.
type Stats struct {
	TotalGlasses  int     `json:"totalGlasses"`
	CompletedDays int     `json:"completedDays"`
	WeeklyAverage float64 `json:"weeklyAverage"`
}

// DaySummary — один день недельной серии. Дни без записи синтезируются.
type DaySummary struct {
	Date       string `json:"date"`    // 2006-01-02
	DayName    string `json:"dayName"` // Пн, Вт, ...
	GlassCount int    `json:"glasses"`
	Target     int    `json:"target"`
	Completed  bool   `json:"completed"`
}

// Today — состояние текущего дня вместе со стриком.
type Today struct {
	Glasses   int  `json:"glasses"`
	Target    int  `json:"target"`
	Completed bool `json:"completed"`
	Streak    int  `json:"streak"`
}

// Snapshot — всё, что вычисляется по записям пользователя за один проход.
type Snapshot struct {
	Today      Today        `json:"hydration"`
	Stats      Stats        `json:"stats"`
	BestStreak int          `json:"bestStreak"`
	Week       []DaySummary `json:"weeklyData"`
}

// AddGlassResult — ответ на добавление стакана.
type AddGlassResult struct {
	Record           *DailyRecord `json:"-"`
	Today            Today        `json:"hydration"`
	Stats            Stats        `json:"stats"`
	NewlyUnlocked    []string     `json:"newlyUnlocked"`
	NotificationSent bool         `json:"notificationSent"`
}
