package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"adventure-server/internal/models"
	"adventure-server/internal/repository"
	"adventure-server/internal/schemas"
)

const storyPromptFile = "story_architect.md"

// StoryGenerator синхронно генерирует полную историю (корень + дерево выборов)
// и сохраняет ее в хранилище. Возвращает метаданные созданной истории.
type StoryGenerator interface {
	GenerateStory(ctx context.Context, sessionID string, theme string) (*models.Story, error)
}

type aiStoryGenerator struct {
	ai           AIClient
	stories      repository.StoryRepository
	systemPrompt string
	logger       *zap.Logger
}

// NewStoryGenerator создает генератор историй. Системный промт читается
// из файла в promptsDir один раз при создании.
func NewStoryGenerator(promptsDir string, ai AIClient, stories repository.StoryRepository, logger *zap.Logger) (StoryGenerator, error) {
	promptPath := filepath.Join(promptsDir, storyPromptFile)
	content, err := os.ReadFile(promptPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", promptPath, err)
	}

	return &aiStoryGenerator{
		ai:           ai,
		stories:      stories,
		systemPrompt: string(content),
		logger:       logger.Named("StoryGenerator"),
	}, nil
}

// GenerateStory запрашивает у нейросети дерево истории по теме, разбирает
// ответ, присваивает узлам идентификаторы и атомарно сохраняет историю.
// Одна попытка, без повторов: ошибка терминальна для задачи.
func (g *aiStoryGenerator) GenerateStory(ctx context.Context, sessionID string, theme string) (*models.Story, error) {
	g.logger.Info("Генерация истории запущена",
		zap.String("sessionID", sessionID),
		zap.String("theme", theme))

	userInput := fmt.Sprintf("Create the story with this theme: %s", theme)

	text, usage, err := g.ai.GenerateText(ctx, g.systemPrompt, userInput)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("Ответ нейросети получен", zap.Int("totalTokens", usage.TotalTokens))

	payload, err := schemas.ParseStoryPayload(text)
	if err != nil {
		g.logger.Error("Не удалось разобрать ответ нейросети", zap.Error(err))
		return nil, fmt.Errorf("ошибка разбора ответа нейросети: %w", err)
	}

	story := &models.Story{
		ID:        uuid.New(),
		Title:     payload.Title,
		SessionID: sessionID,
		CreatedAt: time.Now(),
	}
	nodes := flattenStoryTree(story.ID, payload.RootNode)

	if err := g.stories.CreateWithNodes(ctx, story, nodes); err != nil {
		return nil, err
	}

	g.logger.Info("История сгенерирована",
		zap.String("storyID", story.ID.String()),
		zap.String("title", story.Title),
		zap.Int("nodeCount", len(nodes)))
	return story, nil
}

// flattenStoryTree разворачивает вложенное дерево ответа нейросети в плоский
// набор узлов: каждому узлу присваивается UUID, ссылки в options заменяются
// на идентификаторы узлов назначения.
func flattenStoryTree(storyID uuid.UUID, root *schemas.StoryNodePayload) []models.StoryNode {
	var nodes []models.StoryNode
	appendNode(storyID, root, true, &nodes)
	return nodes
}

func appendNode(storyID uuid.UUID, payload *schemas.StoryNodePayload, isRoot bool, nodes *[]models.StoryNode) uuid.UUID {
	node := models.StoryNode{
		ID:              uuid.New(),
		StoryID:         storyID,
		Content:         payload.Content,
		IsRoot:          isRoot,
		IsEnding:        payload.IsEnding,
		IsWinningEnding: payload.IsEnding && payload.IsWinningEnding,
	}

	// Резервируем позицию узла до обхода потомков, чтобы корень
	// оказался первым в наборе.
	*nodes = append(*nodes, node)
	idx := len(*nodes) - 1

	options := make([]models.StoryOption, 0, len(payload.Options))
	for _, opt := range payload.Options {
		childID := appendNode(storyID, opt.NextNode, false, nodes)
		options = append(options, models.StoryOption{
			Text:   opt.Text,
			NodeID: childID,
		})
	}
	(*nodes)[idx].Options = options

	return node.ID
}
