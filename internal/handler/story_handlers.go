package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// createStory создает задачу генерации истории и возвращает ее,
// не дожидаясь окончания генерации.
func (h *StoryHandler) createStory(c *gin.Context) {
	var req CreateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: theme is required"))
		return
	}

	sessionID := h.sessionID(c)
	h.logger.Info("Creating story",
		zap.String("theme", req.Theme),
		zap.String("sessionID", sessionID))

	job, err := h.jobs.CreateStoryJob(c.Request.Context(), req.Theme, sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// getCompleteStory возвращает полную историю: метаданные, корневой узел
// и плоскую карту всех узлов.
func (h *StoryHandler) getCompleteStory(c *gin.Context) {
	storyID, ok := parseIDParam(c, "story_id")
	if !ok {
		return
	}

	story, err := h.stories.GetCompleteStory(c.Request.Context(), storyID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, story)
}
