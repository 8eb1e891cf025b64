package models

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus представляет статус задачи генерации истории
type JobStatus string

// Возможные статусы задачи генерации
const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// IsTerminal сообщает, является ли статус терминальным.
// Из терминального статуса переходов нет.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// StoryJob представляет одну отслеживаемую задачу асинхронной генерации истории.
// Запись создается обработчиком запроса в статусе pending и далее мутируется
// только фоновой задачей генерации.
type StoryJob struct {
	JobID       uuid.UUID  `json:"job_id" db:"job_id"`
	SessionID   string     `json:"session_id" db:"session_id"`
	Theme       string     `json:"theme" db:"theme"`
	Status      JobStatus  `json:"status" db:"status"`
	StoryID     *uuid.UUID `json:"story_id,omitempty" db:"story_id"`
	Error       *string    `json:"error,omitempty" db:"error"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// Story представляет одну сгенерированную историю (метаданные дерева).
// Создается провайдером генерации ровно один раз и далее неизменяема.
type Story struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	SessionID string    `json:"session_id" db:"session_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// StoryOption — один вариант выбора, ведущий к узлу назначения.
type StoryOption struct {
	Text   string    `json:"text"`
	NodeID uuid.UUID `json:"node_id"`
}

// StoryNode представляет один узел повествования.
// Ровно один узел истории имеет IsRoot = true; IsWinningEnding имеет смысл
// только при IsEnding.
type StoryNode struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	StoryID         uuid.UUID     `json:"story_id" db:"story_id"`
	Content         string        `json:"content" db:"content"`
	IsRoot          bool          `json:"is_root" db:"is_root"`
	IsEnding        bool          `json:"is_ending" db:"is_ending"`
	IsWinningEnding bool          `json:"is_winning_ending" db:"is_winning_ending"`
	Options         []StoryOption `json:"options" db:"options"`
}
