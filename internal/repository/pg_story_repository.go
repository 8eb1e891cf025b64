package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"adventure-server/internal/models"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ StoryRepository = (*pgStoryRepository)(nil)

type pgStoryRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgStoryRepository создает новый экземпляр репозитория историй.
// Репозиторий держит пул, а не DBTX: запись дерева требует собственной
// транзакции.
func NewPgStoryRepository(pool *pgxpool.Pool, logger *zap.Logger) StoryRepository {
	return &pgStoryRepository{
		pool:   pool,
		logger: logger.Named("PgStoryRepo"),
	}
}

const createStoryQuery = `
INSERT INTO stories (id, title, session_id, created_at)
VALUES ($1, $2, $3, $4)`

const createStoryNodeQuery = `
INSERT INTO story_nodes (id, story_id, content, is_root, is_ending, is_winning_ending, options)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const getStoryByIDQuery = `
SELECT id, title, session_id, created_at
FROM stories
WHERE id = $1`

const listStoryNodesQuery = `
SELECT id, story_id, content, is_root, is_ending, is_winning_ending, options
FROM story_nodes
WHERE story_id = $1`

// CreateWithNodes atomically persists a story together with its full node set.
func (r *pgStoryRepository) CreateWithNodes(ctx context.Context, story *models.Story, nodes []models.StoryNode) error {
	if story.ID == uuid.Nil {
		story.ID = uuid.New()
	}
	if story.CreatedAt.IsZero() {
		story.CreatedAt = time.Now()
	}

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, createStoryQuery,
			story.ID, story.Title, story.SessionID, story.CreatedAt,
		); err != nil {
			return fmt.Errorf("ошибка создания истории: %w", err)
		}

		for i := range nodes {
			node := &nodes[i]
			node.StoryID = story.ID

			// Преобразование options в JSON
			optionsJSON, err := json.Marshal(node.Options)
			if err != nil {
				return fmt.Errorf("ошибка маршалинга options: %w", err)
			}

			if _, err := tx.Exec(ctx, createStoryNodeQuery,
				node.ID, node.StoryID, node.Content,
				node.IsRoot, node.IsEnding, node.IsWinningEnding,
				optionsJSON,
			); err != nil {
				return fmt.Errorf("ошибка создания узла истории: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to create story with nodes",
			zap.Error(err),
			zap.String("storyID", story.ID.String()),
			zap.Int("nodeCount", len(nodes)))
		return err
	}

	r.logger.Info("Story created",
		zap.String("storyID", story.ID.String()),
		zap.String("title", story.Title),
		zap.Int("nodeCount", len(nodes)))
	return nil
}

// GetByID retrieves story metadata by its unique ID.
func (r *pgStoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	var story models.Story
	err := pgxscan.Get(ctx, r.pool, &story, getStoryByIDQuery, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Story not found", zap.String("storyID", id.String()))
			return nil, models.ErrStoryNotFound
		}
		r.logger.Error("Failed to get story", zap.Error(err), zap.String("storyID", id.String()))
		return nil, fmt.Errorf("ошибка поиска истории: %w", err)
	}
	return &story, nil
}

// ListNodes returns the flat, unordered node set of a story.
func (r *pgStoryRepository) ListNodes(ctx context.Context, storyID uuid.UUID) ([]models.StoryNode, error) {
	rows, err := r.pool.Query(ctx, listStoryNodesQuery, storyID)
	if err != nil {
		r.logger.Error("Failed to query story nodes", zap.Error(err), zap.String("storyID", storyID.String()))
		return nil, fmt.Errorf("ошибка запроса узлов истории: %w", err)
	}
	defer rows.Close()

	var nodes []models.StoryNode
	for rows.Next() {
		var node models.StoryNode
		var optionsJSON []byte
		if err := rows.Scan(
			&node.ID, &node.StoryID, &node.Content,
			&node.IsRoot, &node.IsEnding, &node.IsWinningEnding,
			&optionsJSON,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования узла истории: %w", err)
		}
		if len(optionsJSON) > 0 {
			if err := json.Unmarshal(optionsJSON, &node.Options); err != nil {
				return nil, fmt.Errorf("ошибка демаршалинга options: %w", err)
			}
		}
		nodes = append(nodes, node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения узлов истории: %w", err)
	}

	r.logger.Debug("Story nodes loaded",
		zap.String("storyID", storyID.String()),
		zap.Int("nodeCount", len(nodes)))
	return nodes, nil
}
