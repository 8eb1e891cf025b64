package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"adventure-server/internal/models"
	"adventure-server/internal/repository"
	"adventure-server/pkg/taskmanager"
)

// TaskSubmitter планирует отложенное выполнение вне жизненного цикла запроса.
// В тестах заменяется синхронным вариантом.
type TaskSubmitter interface {
	Submit(ctx context.Context, name string, fn taskmanager.TaskFunc) (uuid.UUID, error)
}

// JobService управляет жизненным циклом задач генерации:
// pending -> processing -> completed | failed.
type JobService interface {
	// CreateStoryJob creates a pending job and schedules deferred generation.
	// Returns immediately, without waiting for generation.
	CreateStoryJob(ctx context.Context, theme string, sessionID string) (*models.StoryJob, error)

	// GetJob returns the current job state via a fresh lookup.
	GetJob(ctx context.Context, jobID uuid.UUID) (*models.StoryJob, error)
}

type jobService struct {
	jobs      repository.JobRepository
	generator StoryGenerator
	tasks     TaskSubmitter
	logger    *zap.Logger
}

// NewJobService создает новый JobService
func NewJobService(jobs repository.JobRepository, generator StoryGenerator, tasks TaskSubmitter, logger *zap.Logger) JobService {
	return &jobService{
		jobs:      jobs,
		generator: generator,
		tasks:     tasks,
		logger:    logger.Named("JobService"),
	}
}

// CreateStoryJob creates a pending job record and schedules generation.
func (s *jobService) CreateStoryJob(ctx context.Context, theme string, sessionID string) (*models.StoryJob, error) {
	if strings.TrimSpace(theme) == "" {
		return nil, fmt.Errorf("%w: тема не может быть пустой", models.ErrInvalidInput)
	}

	job := &models.StoryJob{
		JobID:     uuid.New(),
		SessionID: sessionID,
		Theme:     theme,
		Status:    models.JobStatusPending,
		CreatedAt: time.Now(),
	}

	s.logger.Info("Создание задачи генерации истории",
		zap.String("jobID", job.JobID.String()),
		zap.String("sessionID", sessionID),
		zap.String("theme", theme))

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	jobsCreatedTotal.Inc()

	// Планируем генерацию после фиксации записи. Задача получает контекст,
	// отвязанный от контекста запроса.
	jobID, jobTheme, jobSession := job.JobID, job.Theme, job.SessionID
	if _, err := s.tasks.Submit(ctx, "story_generation", func(taskCtx context.Context) error {
		return s.runGeneration(taskCtx, jobID, jobTheme, jobSession)
	}); err != nil {
		s.logger.Error("Не удалось запланировать задачу генерации",
			zap.Error(err), zap.String("jobID", job.JobID.String()))
		return nil, fmt.Errorf("ошибка планирования генерации: %w", err)
	}

	return job, nil
}

// GetJob returns the current job state.
func (s *jobService) GetJob(ctx context.Context, jobID uuid.UUID) (*models.StoryJob, error) {
	return s.jobs.GetByID(ctx, jobID)
}

// runGeneration выполняется в фоновой задаче, вне цикла запрос/ответ.
// Любая ошибка здесь не поднимается наверх к клиенту: она фиксируется
// на записи задачи и видна только через поллинг.
func (s *jobService) runGeneration(ctx context.Context, jobID uuid.UUID, theme string, sessionID string) error {
	s.logger.Info("Запуск генерации истории",
		zap.String("jobID", jobID.String()),
		zap.String("theme", theme))

	if _, err := s.jobs.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, models.ErrJobNotFound) {
			// Запрос, создавший задачу, уже отвечен — молча выходим
			s.logger.Error("Задача не найдена", zap.String("jobID", jobID.String()))
			return nil
		}
		return err
	}

	// Переводим в processing сразу, чтобы поллеры видели прогресс
	if err := s.jobs.SetProcessing(ctx, jobID); err != nil {
		return err
	}

	startTime := time.Now()
	story, genErr := s.generator.GenerateStory(ctx, sessionID, theme)
	generationDuration.Observe(time.Since(startTime).Seconds())

	if genErr != nil {
		s.logger.Error("Генерация истории завершилась с ошибкой",
			zap.Error(genErr), zap.String("jobID", jobID.String()))
		generationTasksTotal.With(prometheus.Labels{"status": "failed"}).Inc()
		if err := s.jobs.MarkFailed(ctx, jobID, genErr.Error(), time.Now()); err != nil {
			return err
		}
		return genErr
	}

	if err := s.jobs.MarkCompleted(ctx, jobID, story.ID, time.Now()); err != nil {
		return err
	}
	generationTasksTotal.With(prometheus.Labels{"status": "completed"}).Inc()

	s.logger.Info("Генерация истории завершена",
		zap.String("jobID", jobID.String()),
		zap.String("storyID", story.ID.String()),
		zap.Duration("duration", time.Since(startTime)))
	return nil
}
