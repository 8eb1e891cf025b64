package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"adventure-server/internal/models"
)

// Mock JobRepository
type JobRepository struct {
	mock.Mock
}

func (m *JobRepository) Create(ctx context.Context, job *models.StoryJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *JobRepository) GetByID(ctx context.Context, jobID uuid.UUID) (*models.StoryJob, error) {
	args := m.Called(ctx, jobID)
	job, _ := args.Get(0).(*models.StoryJob)
	return job, args.Error(1)
}

func (m *JobRepository) SetProcessing(ctx context.Context, jobID uuid.UUID) error {
	args := m.Called(ctx, jobID)
	return args.Error(0)
}

func (m *JobRepository) MarkCompleted(ctx context.Context, jobID, storyID uuid.UUID, completedAt time.Time) error {
	args := m.Called(ctx, jobID, storyID, completedAt)
	return args.Error(0)
}

func (m *JobRepository) MarkFailed(ctx context.Context, jobID uuid.UUID, errMsg string, completedAt time.Time) error {
	args := m.Called(ctx, jobID, errMsg, completedAt)
	return args.Error(0)
}

// Mock StoryRepository
type StoryRepository struct {
	mock.Mock
}

func (m *StoryRepository) CreateWithNodes(ctx context.Context, story *models.Story, nodes []models.StoryNode) error {
	args := m.Called(ctx, story, nodes)
	return args.Error(0)
}

func (m *StoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	args := m.Called(ctx, id)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}

func (m *StoryRepository) ListNodes(ctx context.Context, storyID uuid.UUID) ([]models.StoryNode, error) {
	args := m.Called(ctx, storyID)
	nodes, _ := args.Get(0).([]models.StoryNode)
	return nodes, args.Error(1)
}
