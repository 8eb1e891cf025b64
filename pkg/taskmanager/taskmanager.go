package taskmanager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ITaskManager определяет интерфейс для управления отложенными задачами
type ITaskManager interface {
	Submit(ctx context.Context, name string, fn TaskFunc) (uuid.UUID, error)
	GetTask(taskID uuid.UUID) (*Task, error)
	Shutdown(ctx context.Context) error
	CleanupTasks(age time.Duration)
}

// TaskStatus представляет статус задачи
type TaskStatus string

// Возможные статусы задач
const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// TaskFunc представляет функцию, выполняемую в задаче.
// Контекст задачи отвязан от контекста исходного запроса: запрос может
// завершиться раньше, чем задача.
type TaskFunc func(ctx context.Context) error

// Task представляет одну отложенную задачу
type Task struct {
	ID        uuid.UUID
	Name      string
	Status    TaskStatus
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskManager управляет фоновыми задачами внутри процесса.
// Планирование безусловное: лимита на количество активных задач нет,
// отмены запущенной задачи нет — задача всегда доходит до терминального
// статуса.
type TaskManager struct {
	mu      sync.RWMutex
	tasks   map[uuid.UUID]*Task
	wg      sync.WaitGroup
	closing chan struct{}
}

// New создает новый экземпляр TaskManager
func New() *TaskManager {
	return &TaskManager{
		tasks:   make(map[uuid.UUID]*Task),
		closing: make(chan struct{}),
	}
}

// Submit регистрирует и немедленно запускает новую задачу в отдельной горутине.
// Возвращает ID задачи, не дожидаясь ее выполнения.
func (tm *TaskManager) Submit(ctx context.Context, name string, fn TaskFunc) (uuid.UUID, error) {
	select {
	case <-tm.closing:
		return uuid.UUID{}, errors.New("менеджер задач останавливается")
	default:
	}

	taskID := uuid.New()

	// Независимый контекст задачи, наследуем только логгер из ctx запроса
	taskLogger := log.Ctx(ctx)
	taskCtx := taskLogger.WithContext(context.Background())

	task := &Task{
		ID:        taskID,
		Name:      name,
		Status:    TaskStatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	tm.mu.Lock()
	tm.tasks[taskID] = task
	tm.mu.Unlock()

	tm.wg.Add(1)
	go func() {
		defer tm.wg.Done()
		tm.runTask(taskCtx, task, fn)
	}()

	return taskID, nil
}

// runTask выполняет задачу и переводит ее в терминальный статус
func (tm *TaskManager) runTask(ctx context.Context, task *Task, fn TaskFunc) {
	tm.updateTaskStatus(task, TaskStatusRunning, "")

	err := fn(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("taskID", task.ID.String()).
			Str("task", task.Name).
			Msg("Задача завершилась с ошибкой")
		tm.updateTaskStatus(task, TaskStatusFailed, err.Error())
		return
	}

	log.Ctx(ctx).Info().
		Str("taskID", task.ID.String()).
		Str("task", task.Name).
		Msg("Задача успешно выполнена")
	tm.updateTaskStatus(task, TaskStatusCompleted, "")
}

func (tm *TaskManager) updateTaskStatus(task *Task, status TaskStatus, errMsg string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	task.Status = status
	task.Error = errMsg
	task.UpdatedAt = time.Now()
}

// GetTask возвращает информацию о задаче по ID
func (tm *TaskManager) GetTask(taskID uuid.UUID) (*Task, error) {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	task, ok := tm.tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("задача с ID %s не найдена", taskID)
	}

	snapshot := *task
	return &snapshot, nil
}

// Shutdown прекращает прием новых задач и ожидает завершения запущенных
// с таймаутом из ctx. Запущенные задачи не отменяются.
func (tm *TaskManager) Shutdown(ctx context.Context) error {
	close(tm.closing)

	done := make(chan struct{})
	go func() {
		tm.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.New("таймаут при ожидании завершения задач")
	}
}

// CleanupTasks удаляет завершенные задачи, которые старше указанного времени
func (tm *TaskManager) CleanupTasks(age time.Duration) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	now := time.Now()
	for id, task := range tm.tasks {
		if (task.Status == TaskStatusCompleted || task.Status == TaskStatusFailed) &&
			now.Sub(task.UpdatedAt) > age {
			delete(tm.tasks, id)
		}
	}
}
