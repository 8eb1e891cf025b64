package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"adventure-server/internal/models"
)

// DBTX абстрагирует источник запросов: пул, соединение или транзакция pgx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// JobRepository предоставляет доступ к записям задач генерации.
// Каждый вызов самостоятельно получает и освобождает соединение из пула:
// вызывающий код не зависит от механизма скоупинга соединений.
type JobRepository interface {
	// Create persists a new job record (status=pending).
	Create(ctx context.Context, job *models.StoryJob) error

	// GetByID retrieves a job by its unique ID.
	// Returns models.ErrJobNotFound if no record matches.
	GetByID(ctx context.Context, jobID uuid.UUID) (*models.StoryJob, error)

	// SetProcessing transitions a pending job to processing.
	SetProcessing(ctx context.Context, jobID uuid.UUID) error

	// MarkCompleted transitions a processing job to completed and records the story reference.
	MarkCompleted(ctx context.Context, jobID, storyID uuid.UUID, completedAt time.Time) error

	// MarkFailed transitions a processing job to failed and records the failure text.
	MarkFailed(ctx context.Context, jobID uuid.UUID, errMsg string, completedAt time.Time) error
}

// StoryRepository предоставляет доступ к историям и их узлам.
type StoryRepository interface {
	// CreateWithNodes atomically persists a story together with its full node set.
	CreateWithNodes(ctx context.Context, story *models.Story, nodes []models.StoryNode) error

	// GetByID retrieves story metadata by ID.
	// Returns models.ErrStoryNotFound if no record matches.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Story, error)

	// ListNodes returns the flat, unordered node set of a story.
	ListNodes(ctx context.Context, storyID uuid.UUID) ([]models.StoryNode, error)
}
