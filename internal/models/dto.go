package models

import (
	"time"

	"github.com/google/uuid"
)

// CompleteStoryNode — проекция узла для ответа API.
// Ссылки на дочерние узлы остаются плоскими (по id в options),
// вложенные объекты не строятся.
type CompleteStoryNode struct {
	ID              uuid.UUID     `json:"id"`
	Content         string        `json:"content"`
	IsEnding        bool          `json:"is_ending"`
	IsWinningEnding bool          `json:"is_winning_ending"`
	Options         []StoryOption `json:"options,omitempty"`
}

// CompleteStory — полная история: метаданные + корневой узел + плоская карта
// всех узлов. Клиент восстанавливает вложенность, следуя по options от корня.
type CompleteStory struct {
	ID        uuid.UUID                    `json:"id"`
	Title     string                       `json:"title"`
	SessionID string                       `json:"session_id"`
	CreatedAt time.Time                    `json:"created_at"`
	RootNode  CompleteStoryNode            `json:"root_node"`
	AllNodes  map[string]CompleteStoryNode `json:"all_nodes"`
}

// ErrorResponse представляет стандартизированный ответ об ошибке.
type ErrorResponse struct {
	Message string `json:"message"`
}
