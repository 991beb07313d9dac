// Package hydration — handlers.go обрабатывает HTTP-эндпоинты записей:
// чтение дня, добавление стакана, смена цели и недельный прогресс.
package hydration

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"serotonyl.ru/hydration/internal/common"
	"serotonyl.ru/hydration/internal/features/users"
)

// Handler обрабатывает запросы трекера.
type Handler struct {
	service *Service
}

// NewHandler создаёт новый обработчик трекера.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type targetRequest struct {
	users.Identity
	Target int `json:"target"`
}

// GetToday — GET /api/hydration?email=...&userId=...
func (h *Handler) GetToday(c *gin.Context) {
	var id users.Identity
	if err := c.ShouldBindQuery(&id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.service.GetToday(c.Request.Context(), id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AddGlass — POST /api/hydration: +1 стакан за сегодня.
//
// Формат ответа:
//
//	{"hydration": {"glasses": 4, "target": 8, "completed": false, "streak": 2},
//	 "stats": {...}, "newlyUnlocked": ["first-sip"], "notificationSent": true}
func (h *Handler) AddGlass(c *gin.Context) {
	var id users.Identity
	if err := c.ShouldBindJSON(&id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.AddGlass(c.Request.Context(), id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SetTarget — PUT /api/hydration/target.
func (h *Handler) SetTarget(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	today, err := h.service.SetTarget(c.Request.Context(), req.Identity, req.Target)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hydration": today})
}

// Progress — GET /api/progress.
func (h *Handler) Progress(c *gin.Context) {
	var id users.Identity
	if err := c.ShouldBindQuery(&id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.service.Progress(c.Request.Context(), id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
