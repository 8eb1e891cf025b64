package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"adventure-server/internal/models"
	"adventure-server/internal/service"
)

// Mock JobService
type JobService struct {
	mock.Mock
}

func (m *JobService) CreateStoryJob(ctx context.Context, theme string, sessionID string) (*models.StoryJob, error) {
	args := m.Called(ctx, theme, sessionID)
	job, _ := args.Get(0).(*models.StoryJob)
	return job, args.Error(1)
}

func (m *JobService) GetJob(ctx context.Context, jobID uuid.UUID) (*models.StoryJob, error) {
	args := m.Called(ctx, jobID)
	job, _ := args.Get(0).(*models.StoryJob)
	return job, args.Error(1)
}

// Mock StoryService
type StoryService struct {
	mock.Mock
}

func (m *StoryService) GetCompleteStory(ctx context.Context, storyID uuid.UUID) (*models.CompleteStory, error) {
	args := m.Called(ctx, storyID)
	story, _ := args.Get(0).(*models.CompleteStory)
	return story, args.Error(1)
}

// Mock StoryGenerator
type StoryGenerator struct {
	mock.Mock
}

func (m *StoryGenerator) GenerateStory(ctx context.Context, sessionID string, theme string) (*models.Story, error) {
	args := m.Called(ctx, sessionID, theme)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}

// Mock AIClient
type AIClient struct {
	mock.Mock
}

func (m *AIClient) GenerateText(ctx context.Context, systemPrompt string, userInput string) (string, service.UsageInfo, error) {
	args := m.Called(ctx, systemPrompt, userInput)
	usage, _ := args.Get(1).(service.UsageInfo)
	return args.String(0), usage, args.Error(2)
}
