package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"adventure-server/internal/models"
)

// handleServiceError отображает ошибки сервисного слоя на HTTP статусы.
// Детали внутренних ошибок наружу не отдаются.
func (h *StoryHandler) handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var errResp models.ErrorResponse

	switch {
	case errors.Is(err, models.ErrJobNotFound):
		statusCode = http.StatusNotFound
		errResp = errorResponse("Job not found")
	case errors.Is(err, models.ErrStoryNotFound):
		statusCode = http.StatusNotFound
		errResp = errorResponse("Story not found")
	case errors.Is(err, models.ErrNoRootNode):
		h.logger.Error("Story consistency error", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = errorResponse("Story root node not found")
	case errors.Is(err, models.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		errResp = errorResponse(err.Error())
	default:
		h.logger.Error("Unhandled internal error", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = errorResponse("An unexpected internal error occurred")
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}
