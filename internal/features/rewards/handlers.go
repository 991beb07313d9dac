package rewards

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"serotonyl.ru/hydration/internal/common"
	"serotonyl.ru/hydration/internal/features/users"
)

// Handler обрабатывает запросы наград.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик наград.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List — GET /api/rewards.
func (h *Handler) List(c *gin.Context) {
	var id users.Identity
	if err := c.ShouldBindQuery(&id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.service.List(c.Request.Context(), id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rewards": list})
}

// Claim — POST /api/rewards {userId|email, rewardId}.
func (h *Handler) Claim(c *gin.Context) {
	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reward, err := h.service.Claim(c.Request.Context(), req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reward": reward})
}
