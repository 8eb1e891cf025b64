package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"adventure-server/internal/models"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ JobRepository = (*pgJobRepository)(nil)

type pgJobRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgJobRepository создает новый экземпляр репозитория задач генерации
func NewPgJobRepository(db DBTX, logger *zap.Logger) JobRepository {
	return &pgJobRepository{
		db:     db,
		logger: logger.Named("PgJobRepo"),
	}
}

const createJobQuery = `
INSERT INTO story_jobs (job_id, session_id, theme, status, created_at)
VALUES ($1, $2, $3, $4, $5)`

const getJobByIDQuery = `
SELECT job_id, session_id, theme, status, story_id, error, created_at, completed_at
FROM story_jobs
WHERE job_id = $1`

// Переходы статусов защищены условием WHERE: терминальная запись
// повторно не переписывается.
const setJobProcessingQuery = `
UPDATE story_jobs SET status = 'processing'
WHERE job_id = $1 AND status = 'pending'`

const markJobCompletedQuery = `
UPDATE story_jobs SET status = 'completed', story_id = $2, completed_at = $3
WHERE job_id = $1 AND status = 'processing'`

const markJobFailedQuery = `
UPDATE story_jobs SET status = 'failed', error = $2, completed_at = $3
WHERE job_id = $1 AND status = 'processing'`

// Create inserts a new job record.
func (r *pgJobRepository) Create(ctx context.Context, job *models.StoryJob) error {
	if job.JobID == uuid.Nil {
		job.JobID = uuid.New()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(ctx, createJobQuery,
		job.JobID,
		job.SessionID,
		job.Theme,
		job.Status,
		job.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create job", zap.Error(err), zap.String("jobID", job.JobID.String()))
		return fmt.Errorf("ошибка создания задачи: %w", err)
	}
	r.logger.Info("Job created", zap.String("jobID", job.JobID.String()), zap.String("sessionID", job.SessionID))
	return nil
}

// GetByID retrieves a job by its unique ID.
func (r *pgJobRepository) GetByID(ctx context.Context, jobID uuid.UUID) (*models.StoryJob, error) {
	var job models.StoryJob
	err := pgxscan.Get(ctx, r.db, &job, getJobByIDQuery, jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Job not found", zap.String("jobID", jobID.String()))
			return nil, models.ErrJobNotFound
		}
		r.logger.Error("Failed to get job", zap.Error(err), zap.String("jobID", jobID.String()))
		return nil, fmt.Errorf("ошибка поиска задачи: %w", err)
	}
	return &job, nil
}

// SetProcessing transitions a pending job to processing.
func (r *pgJobRepository) SetProcessing(ctx context.Context, jobID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, setJobProcessingQuery, jobID)
	if err != nil {
		r.logger.Error("Failed to set job processing", zap.Error(err), zap.String("jobID", jobID.String()))
		return fmt.Errorf("ошибка обновления статуса задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrJobNotFound
	}
	r.logger.Info("Job status updated", zap.String("jobID", jobID.String()), zap.String("status", string(models.JobStatusProcessing)))
	return nil
}

// MarkCompleted transitions a processing job to completed.
func (r *pgJobRepository) MarkCompleted(ctx context.Context, jobID, storyID uuid.UUID, completedAt time.Time) error {
	tag, err := r.db.Exec(ctx, markJobCompletedQuery, jobID, storyID, completedAt)
	if err != nil {
		r.logger.Error("Failed to mark job completed", zap.Error(err), zap.String("jobID", jobID.String()))
		return fmt.Errorf("ошибка завершения задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrJobNotFound
	}
	r.logger.Info("Job marked as completed",
		zap.String("jobID", jobID.String()),
		zap.String("storyID", storyID.String()))
	return nil
}

// MarkFailed transitions a processing job to failed.
func (r *pgJobRepository) MarkFailed(ctx context.Context, jobID uuid.UUID, errMsg string, completedAt time.Time) error {
	tag, err := r.db.Exec(ctx, markJobFailedQuery, jobID, errMsg, completedAt)
	if err != nil {
		r.logger.Error("Failed to mark job failed", zap.Error(err), zap.String("jobID", jobID.String()))
		return fmt.Errorf("ошибка записи ошибки задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrJobNotFound
	}
	r.logger.Info("Job marked as failed",
		zap.String("jobID", jobID.String()),
		zap.String("error", errMsg))
	return nil
}
