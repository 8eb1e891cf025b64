package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"adventure-server/internal/models"
	"adventure-server/internal/repository"
)

// StoryService восстанавливает полное дерево истории из плоского хранилища.
type StoryService interface {
	// GetCompleteStory returns story metadata plus the root projection and
	// the flat id->node map. Pure read path.
	GetCompleteStory(ctx context.Context, storyID uuid.UUID) (*models.CompleteStory, error)
}

type storyService struct {
	stories repository.StoryRepository
	logger  *zap.Logger
}

// NewStoryService создает новый StoryService
func NewStoryService(stories repository.StoryRepository, logger *zap.Logger) StoryService {
	return &storyService{
		stories: stories,
		logger:  logger.Named("StoryService"),
	}
}

// GetCompleteStory собирает ответ из метаданных истории и плоского набора
// узлов. Вложенная структура не строится: клиент следует по ссылкам
// options от корня, глубина дерева не ограничена контрактом.
func (s *storyService) GetCompleteStory(ctx context.Context, storyID uuid.UUID) (*models.CompleteStory, error) {
	story, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}

	nodes, err := s.stories.ListNodes(ctx, storyID)
	if err != nil {
		return nil, err
	}

	nodeMap := make(map[string]models.CompleteStoryNode, len(nodes))
	var rootNode models.CompleteStoryNode
	rootFound := false
	for _, node := range nodes {
		projection := models.CompleteStoryNode{
			ID:              node.ID,
			Content:         node.Content,
			IsEnding:        node.IsEnding,
			IsWinningEnding: node.IsWinningEnding,
			Options:         node.Options,
		}
		nodeMap[node.ID.String()] = projection
		if node.IsRoot {
			rootNode = projection
			rootFound = true
		}
	}

	if !rootFound {
		// История есть, а корня нет — дефект генерации, не ошибка клиента
		s.logger.Error("Root node not found for story", zap.String("storyID", storyID.String()))
		return nil, models.ErrNoRootNode
	}

	return &models.CompleteStory{
		ID:        story.ID,
		Title:     story.Title,
		SessionID: story.SessionID,
		CreatedAt: story.CreatedAt,
		RootNode:  rootNode,
		AllNodes:  nodeMap,
	}, nil
}
