package milestones

// Input — показатели пользователя после последнего изменения записи.
type Input struct {
	UserID          string
	DailyGlassCount int
	CurrentStreak   int
	LifetimeGlasses int
}

// Qualifies — достигнут ли порог элемента каталога.
func (d Definition) Qualifies(in Input) bool {
	switch d.Kind {
	case KindDailyCount:
		return in.DailyGlassCount >= d.Requirement
	case KindStreakLength:
		return in.CurrentStreak >= d.Requirement
	case KindTotalGlasses:
		return in.LifetimeGlasses >= d.Requirement
	default:
		return false
	}
}

// Evaluate возвращает элементы каталога, которые пользователь только что открыл:
// порог достигнут и ID ещё нет в alreadyUnlocked. Порядок — как в каталоге.
// Повторный вызов с тем же входом и дополненным alreadyUnlocked вернёт пустой список.
func Evaluate(in Input, catalog []Definition, alreadyUnlocked map[string]bool) []Definition {
	var out []Definition
	for _, d := range catalog {
		if alreadyUnlocked[d.ID] {
			continue
		}
		if d.Qualifies(in) {
			out = append(out, d)
		}
	}
	return out
}
