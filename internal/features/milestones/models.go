// Package milestones описывает каталог достижений и наград и решает,
// какие из них пользователь открыл.
// models.go содержит статический каталог.
package milestones

import "time"

// Kind — что сравнивается с порогом Requirement.
type Kind string

const (
	// KindDailyCount — стаканов за текущий день
	KindDailyCount Kind = "dailyCount"
	// KindStreakLength — длина текущей серии
	KindStreakLength Kind = "streakLength"
	// KindTotalGlasses — стаканов за всё время
	KindTotalGlasses Kind = "totalGlasses"
)

// Definition — элемент каталога. Claimable == true у наград:
// открываются они автоматически, а забираются отдельным действием пользователя.
type Definition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Kind        Kind   `json:"type"`
	Requirement int    `json:"requirement"`
	Claimable   bool   `json:"-"`
}

// Status — элемент каталога с состоянием для конкретного пользователя.
type Status struct {
	Definition
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt"`
}

var achievements = []Definition{
	{ID: "first-sip", Name: "Первый глоток", Description: "Выпит первый стакан воды", Icon: "💧", Kind: KindTotalGlasses, Requirement: 1},
	{ID: "hydration-hero", Name: "Герой гидратации", Description: "8 стаканов за один день", Icon: "🦸", Kind: KindDailyCount, Requirement: 8},
	{ID: "three-day-streak", Name: "Три дня подряд", Description: "Цель выполнена 3 дня подряд", Icon: "🔥", Kind: KindStreakLength, Requirement: 3},
	{ID: "week-warrior", Name: "Воин недели", Description: "Цель выполнена 7 дней подряд", Icon: "🏅", Kind: KindStreakLength, Requirement: 7},
	{ID: "monthly-master", Name: "Мастер месяца", Description: "Цель выполнена 30 дней подряд", Icon: "🏆", Kind: KindStreakLength, Requirement: 30},
	{ID: "hundred-glasses-club", Name: "Клуб 100 стаканов", Description: "100 стаканов за всё время", Icon: "💯", Kind: KindTotalGlasses, Requirement: 100},
}

var rewards = []Definition{
	{ID: "3-day-dedication", Name: "Три дня заботы", Description: "Особое видеопослание за три дня постоянства", Icon: "🎁", Kind: KindStreakLength, Requirement: 3, Claimable: true},
	{ID: "weekly-wonder", Name: "Чудо недели", Description: "Неделя без пропусков открывает романтический ужин", Icon: "🌸", Kind: KindStreakLength, Requirement: 7, Claimable: true},
	{ID: "monthly-marvel", Name: "Диво месяца", Description: "Месяц без пропусков открывает план на выходные", Icon: "💎", Kind: KindStreakLength, Requirement: 30, Claimable: true},
	{ID: "hydration-queen", Name: "Королева воды", Description: "100 стаканов за всё время открывают подарок-сюрприз", Icon: "👑", Kind: KindTotalGlasses, Requirement: 100, Claimable: true},
	{ID: "starlight-achievement", Name: "Звёздное достижение", Description: "50 дней подряд ради самого особенного сюрприза", Icon: "⭐", Kind: KindStreakLength, Requirement: 50, Claimable: true},
	{ID: "eternal-love", Name: "Вечная любовь", Description: "100 дней подряд, главная награда", Icon: "🏆", Kind: KindStreakLength, Requirement: 100, Claimable: true},
}

// Achievements возвращает каталог достижений (копию).
func Achievements() []Definition {
	return append([]Definition(nil), achievements...)
}

// Rewards возвращает каталог наград (копию).
func Rewards() []Definition {
	return append([]Definition(nil), rewards...)
}

// Catalog возвращает весь каталог: сначала достижения, затем награды.
func Catalog() []Definition {
	out := make([]Definition, 0, len(achievements)+len(rewards))
	out = append(out, achievements...)
	return append(out, rewards...)
}

// Lookup ищет элемент каталога по ID.
func Lookup(id string) (Definition, bool) {
	for _, d := range Catalog() {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}
