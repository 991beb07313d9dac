package notifications

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/hydration/internal/common"
)

// Handler обрабатывает HTTP-запросы уведомлений.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик уведомлений.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type testRequest struct {
	Email    string `json:"email"`
	UserName string `json:"userName"`
	TestType string `json:"testType"`
}

// SendTest — POST /api/test-email: пробное сообщение на указанный адрес.
func (h *Handler) SendTest(c *gin.Context) {
	var req testRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.service.SendTest(c.Request.Context(),
		strings.TrimSpace(req.Email), strings.TrimSpace(req.UserName), req.TestType)
	if err != nil {
		log.WithError(err).Warn("Тестовое уведомление не отправлено")
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"subject": msg.Subject,
		"channel": h.service.sender.Channel(),
	})
}
