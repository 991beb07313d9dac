// Package rewards показывает награды пользователя и принимает заявки на них.
// Награды открываются автоматически вместе с достижениями, а забираются отдельно.
package rewards

import (
	"time"

	"serotonyl.ru/hydration/internal/features/milestones"
	"serotonyl.ru/hydration/internal/features/users"
)

// Claim — полученная награда. Создаётся один раз.
type Claim struct {
	UserID    string    `json:"userId"`
	RewardID  string    `json:"rewardId"`
	ClaimedAt time.Time `json:"claimedAt"`
}

// Reward — награда каталога с состоянием для пользователя.
type Reward struct {
	milestones.Definition
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt"`
	Claimed    bool       `json:"claimed"`
	ClaimedAt  *time.Time `json:"claimedAt"`
}

// ClaimRequest — тело POST /api/rewards.
type ClaimRequest struct {
	users.Identity
	RewardID string `json:"rewardId"`
}
