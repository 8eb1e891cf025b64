//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"adventure-server/internal/database"
	"adventure-server/internal/models"
	"adventure-server/internal/repository"
)

// RepositoryTestSuite поднимает PostgreSQL в контейнере и гоняет репозитории
// против настоящей схемы с миграциями.
type RepositoryTestSuite struct {
	suite.Suite
	ctx         context.Context
	pgContainer *postgres.PostgresContainer
	pgPool      *pgxpool.Pool
	jobRepo     repository.JobRepository
	storyRepo   repository.StoryRepository
}

func (s *RepositoryTestSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start postgres container")

	pgConnStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get postgres connection string")

	s.pgPool, err = pgxpool.New(s.ctx, pgConnStr)
	require.NoError(s.T(), err, "Failed to connect to test postgres")

	require.NoError(s.T(), database.ApplyMigrations(s.pgPool), "Failed to run migrations")

	logger := zap.NewNop()
	s.jobRepo = repository.NewPgJobRepository(s.pgPool, logger)
	s.storyRepo = repository.NewPgStoryRepository(s.pgPool, logger)
}

func (s *RepositoryTestSuite) TearDownSuite() {
	if s.pgPool != nil {
		s.pgPool.Close()
	}
	if s.pgContainer != nil {
		_ = s.pgContainer.Terminate(s.ctx)
	}
}

func (s *RepositoryTestSuite) newJob() *models.StoryJob {
	return &models.StoryJob{
		JobID:     uuid.New(),
		SessionID: uuid.NewString(),
		Theme:     "интеграционная тема",
		Status:    models.JobStatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

func (s *RepositoryTestSuite) TestJobLifecycle() {
	job := s.newJob()
	require.NoError(s.T(), s.jobRepo.Create(s.ctx, job))

	loaded, err := s.jobRepo.GetByID(s.ctx, job.JobID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusPending, loaded.Status)
	s.Equal(job.Theme, loaded.Theme)
	s.Nil(loaded.StoryID)
	s.Nil(loaded.Error)
	s.Nil(loaded.CompletedAt)

	s.Require().NoError(s.jobRepo.SetProcessing(s.ctx, job.JobID))

	loaded, err = s.jobRepo.GetByID(s.ctx, job.JobID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusProcessing, loaded.Status)

	// Завершаем задачу со ссылкой на историю
	story := &models.Story{ID: uuid.New(), Title: "T", SessionID: job.SessionID, CreatedAt: time.Now().UTC()}
	nodeID := uuid.New()
	nodes := []models.StoryNode{{ID: nodeID, StoryID: story.ID, Content: "корень и концовка", IsRoot: true, IsEnding: true}}
	s.Require().NoError(s.storyRepo.CreateWithNodes(s.ctx, story, nodes))

	completedAt := time.Now().UTC()
	s.Require().NoError(s.jobRepo.MarkCompleted(s.ctx, job.JobID, story.ID, completedAt))

	loaded, err = s.jobRepo.GetByID(s.ctx, job.JobID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusCompleted, loaded.Status)
	s.Require().NotNil(loaded.StoryID)
	s.Equal(story.ID, *loaded.StoryID)
	s.Require().NotNil(loaded.CompletedAt)
}

func (s *RepositoryTestSuite) TestJobFailurePath() {
	job := s.newJob()
	s.Require().NoError(s.jobRepo.Create(s.ctx, job))
	s.Require().NoError(s.jobRepo.SetProcessing(s.ctx, job.JobID))

	s.Require().NoError(s.jobRepo.MarkFailed(s.ctx, job.JobID, "ошибка генерации", time.Now().UTC()))

	loaded, err := s.jobRepo.GetByID(s.ctx, job.JobID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusFailed, loaded.Status)
	s.Require().NotNil(loaded.Error)
	s.Equal("ошибка генерации", *loaded.Error)
	s.Nil(loaded.StoryID)
}

func (s *RepositoryTestSuite) TestStatusTransitionsAreMonotonic() {
	job := s.newJob()
	s.Require().NoError(s.jobRepo.Create(s.ctx, job))
	s.Require().NoError(s.jobRepo.SetProcessing(s.ctx, job.JobID))
	s.Require().NoError(s.jobRepo.MarkFailed(s.ctx, job.JobID, "терминальная ошибка", time.Now().UTC()))

	// Из терминального статуса переходов нет
	err := s.jobRepo.SetProcessing(s.ctx, job.JobID)
	s.ErrorIs(err, models.ErrJobNotFound)

	err = s.jobRepo.MarkCompleted(s.ctx, job.JobID, uuid.New(), time.Now().UTC())
	s.ErrorIs(err, models.ErrJobNotFound)

	loaded, err := s.jobRepo.GetByID(s.ctx, job.JobID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusFailed, loaded.Status)
}

func (s *RepositoryTestSuite) TestGetJobNotFound() {
	_, err := s.jobRepo.GetByID(s.ctx, uuid.New())
	s.ErrorIs(err, models.ErrJobNotFound)
}

func (s *RepositoryTestSuite) TestStoryRoundTrip() {
	story := &models.Story{
		ID:        uuid.New(),
		Title:     "Интеграционная история",
		SessionID: uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
	rootID := uuid.New()
	endID := uuid.New()
	nodes := []models.StoryNode{
		{
			ID: rootID, StoryID: story.ID, Content: "Начало", IsRoot: true,
			Options: []models.StoryOption{{Text: "Дальше", NodeID: endID}},
		},
		{ID: endID, StoryID: story.ID, Content: "Конец", IsEnding: true, IsWinningEnding: true},
	}

	s.Require().NoError(s.storyRepo.CreateWithNodes(s.ctx, story, nodes))

	loaded, err := s.storyRepo.GetByID(s.ctx, story.ID)
	s.Require().NoError(err)
	s.Equal(story.Title, loaded.Title)
	s.Equal(story.SessionID, loaded.SessionID)

	loadedNodes, err := s.storyRepo.ListNodes(s.ctx, story.ID)
	s.Require().NoError(err)
	s.Require().Len(loadedNodes, 2)

	byID := make(map[uuid.UUID]models.StoryNode, len(loadedNodes))
	for _, n := range loadedNodes {
		byID[n.ID] = n
	}
	root := byID[rootID]
	s.True(root.IsRoot)
	s.Require().Len(root.Options, 1)
	s.Equal(endID, root.Options[0].NodeID)
	s.True(byID[endID].IsWinningEnding)
}

func (s *RepositoryTestSuite) TestSecondRootIsRejected() {
	story := &models.Story{ID: uuid.New(), Title: "T", SessionID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	nodes := []models.StoryNode{
		{ID: uuid.New(), StoryID: story.ID, Content: "корень 1", IsRoot: true, IsEnding: true},
		{ID: uuid.New(), StoryID: story.ID, Content: "корень 2", IsRoot: true, IsEnding: true},
	}

	// Частичный уникальный индекс допускает только один корень на историю,
	// транзакция откатывается целиком
	err := s.storyRepo.CreateWithNodes(s.ctx, story, nodes)
	s.Error(err)

	_, err = s.storyRepo.GetByID(s.ctx, story.ID)
	s.ErrorIs(err, models.ErrStoryNotFound)
}

func (s *RepositoryTestSuite) TestGetStoryNotFound() {
	_, err := s.storyRepo.GetByID(s.ctx, uuid.New())
	s.ErrorIs(err, models.ErrStoryNotFound)
}

func TestRepositoryTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(RepositoryTestSuite))
}
