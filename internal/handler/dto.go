package handler

import "adventure-server/internal/models"

// CreateStoryRequest — тело запроса на создание истории.
type CreateStoryRequest struct {
	Theme string `json:"theme" binding:"required"`
}

func errorResponse(message string) models.ErrorResponse {
	return models.ErrorResponse{Message: message}
}
