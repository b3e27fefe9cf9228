package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Gopher0727/SquadUp/internal/services"
	logger "github.com/Gopher0727/SquadUp/middleware/log"
)

// respondError 业务错误按分类映射状态码，其他错误统一返回 500 并记录日志
func respondError(c *gin.Context, log *logger.Logger, err error) {
	var de *services.DomainError
	if errors.As(err, &de) {
		c.JSON(statusFor(de.Kind), gin.H{"error": de.Message})
		return
	}

	log.ErrorContext(c.Request.Context(), "request failed",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindBadRequest:
		return http.StatusBadRequest
	case services.KindForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
