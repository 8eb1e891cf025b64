package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"adventure-server/internal/service"
)

const (
	sessionCookieName = "session_id"
	sessionCookieTTL  = 365 * 24 * time.Hour
)

// StoryHandler обрабатывает HTTP запросы сервера приключений.
type StoryHandler struct {
	jobs    service.JobService
	stories service.StoryService
	logger  *zap.Logger
}

// NewStoryHandler создает новый StoryHandler.
func NewStoryHandler(jobs service.JobService, stories service.StoryService, logger *zap.Logger) *StoryHandler {
	return &StoryHandler{
		jobs:    jobs,
		stories: stories,
		logger:  logger.Named("StoryHandler"),
	}
}

// RegisterRoutes регистрирует маршруты сервера.
func (h *StoryHandler) RegisterRoutes(router *gin.Engine) {
	storiesGroup := router.Group("/stories")
	{
		storiesGroup.POST("/create", h.createStory)
		storiesGroup.GET("/:story_id/complete", h.getCompleteStory)
	}

	jobsGroup := router.Group("/jobs")
	{
		jobsGroup.GET("/:job_id", h.getJobStatus)
	}
}

// sessionID возвращает идентификатор сессии из cookie.
// При первом обращении выдает новый идентификатор и устанавливает cookie.
func (h *StoryHandler) sessionID(c *gin.Context) string {
	if sid, err := c.Cookie(sessionCookieName); err == nil && sid != "" {
		return sid
	}

	sid := uuid.NewString()
	c.SetCookie(sessionCookieName, sid, int(sessionCookieTTL.Seconds()), "/", "", false, true)
	return sid
}

// parseIDParam разбирает UUID из параметра пути.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid "+name))
		return uuid.UUID{}, false
	}
	return id, true
}
