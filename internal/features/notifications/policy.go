package notifications

import (
	"fmt"
	"time"

	"serotonyl.ru/hydration/internal/common"
	"serotonyl.ru/hydration/internal/config"
)

// ShouldNotify — уведомляем только на чётных значениях счётчика (2, 4, 6, ...).
func ShouldNotify(glassCount int) bool {
	return glassCount > 0 && glassCount%2 == 0
}

// DedupKey — ключ «не больше одной успешной отправки».
//   - lifetime: (пользователь, число стаканов) за всё время
//   - daily: (пользователь, день, число стаканов)
func DedupKey(scope, userID string, date time.Time, glassCount int) string {
	if scope == config.DedupDaily {
		return fmt.Sprintf("progress:%s:%s:%d", userID, common.FormatDate(date), glassCount)
	}
	return fmt.Sprintf("progress:%s:%d", userID, glassCount)
}
