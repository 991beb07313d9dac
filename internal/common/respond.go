package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// RespondError отвечает JSON {"error": ...} со статусом из HTTPStatus.
// Ошибки 5xx пишутся в лог с путём запроса.
func RespondError(c *gin.Context, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.FullPath()).Error("Ошибка обработки запроса")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
