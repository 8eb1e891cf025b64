package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getJobStatus возвращает текущее состояние задачи генерации.
// Статус всегда читается свежим запросом к хранилищу, без кэша.
func (h *StoryHandler) getJobStatus(c *gin.Context) {
	jobID, ok := parseIDParam(c, "job_id")
	if !ok {
		return
	}

	job, err := h.jobs.GetJob(c.Request.Context(), jobID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}
