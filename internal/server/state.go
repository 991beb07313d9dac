package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"serotonyl.ru/hydration/internal/common"
	"serotonyl.ru/hydration/internal/features/hydration"
	"serotonyl.ru/hydration/internal/features/milestones"
	"serotonyl.ru/hydration/internal/features/rewards"
	"serotonyl.ru/hydration/internal/features/users"
)

// StateView — полный снимок состояния пользователя для синхронизации клиента.
// Пересчитывается на каждый запрос из хранилища, кэша нет.
type StateView struct {
	User         *users.User            `json:"user"`
	Today        hydration.Today        `json:"hydration"`
	Stats        hydration.Stats        `json:"stats"`
	BestStreak   int                    `json:"bestStreak"`
	Week         []hydration.DaySummary `json:"weeklyData"`
	Achievements []milestones.Status    `json:"achievements"`
	Rewards      []rewards.Reward       `json:"rewards"`
}

// StateHandler собирает GET /api/state из нескольких сервисов.
type StateHandler struct {
	users      *users.Service
	hydration  *hydration.Service
	milestones *milestones.Service
	rewards    *rewards.Service
}

// NewStateHandler создаёт обработчик снимка состояния.
func NewStateHandler(usersService *users.Service, hydrationService *hydration.Service,
	milestonesService *milestones.Service, rewardsService *rewards.Service) *StateHandler {
	return &StateHandler{
		users:      usersService,
		hydration:  hydrationService,
		milestones: milestonesService,
		rewards:    rewardsService,
	}
}

// Get — GET /api/state?email=...&userId=...
func (h *StateHandler) Get(c *gin.Context) {
	var id users.Identity
	if err := c.ShouldBindQuery(&id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	user, err := h.users.Resolve(ctx, id)
	if err != nil {
		c.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	snap, err := h.hydration.Summary(ctx, user.ID)
	if err != nil {
		c.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	achievements, err := h.milestones.Statuses(ctx, user.ID, milestones.Achievements())
	if err != nil {
		c.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	rewardList, err := h.rewards.ListForUser(ctx, user.ID)
	if err != nil {
		c.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, StateView{
		User:         user,
		Today:        snap.Today,
		Stats:        snap.Stats,
		BestStreak:   snap.BestStreak,
		Week:         snap.Week,
		Achievements: achievements,
		Rewards:      rewardList,
	})
}
