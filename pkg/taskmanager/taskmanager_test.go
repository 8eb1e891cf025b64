package taskmanager_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adventure-server/pkg/taskmanager"
)

func waitForStatus(t *testing.T, tm *taskmanager.TaskManager, id uuid.UUID, want taskmanager.TaskStatus) *taskmanager.Task {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		task, err := tm.GetTask(id)
		require.NoError(t, err)
		if task.Status == want {
			return task
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("task did not reach status %s", want)
	return nil
}

func TestSubmitRunsTask(t *testing.T) {
	tm := taskmanager.New()

	done := make(chan struct{})
	taskID, err := tm.Submit(context.Background(), "unit", func(ctx context.Context) error {
		close(done)
		return nil
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task was not executed")
	}

	task := waitForStatus(t, tm, taskID, taskmanager.TaskStatusCompleted)
	assert.Equal(t, "unit", task.Name)
	assert.Empty(t, task.Error)
}

func TestTaskFailureIsRecorded(t *testing.T) {
	tm := taskmanager.New()

	taskID, err := tm.Submit(context.Background(), "failing", func(ctx context.Context) error {
		return errors.New("boom")
	})
	require.NoError(t, err)

	task := waitForStatus(t, tm, taskID, taskmanager.TaskStatusFailed)
	assert.Equal(t, "boom", task.Error)
}

func TestTaskContextIsDetached(t *testing.T) {
	tm := taskmanager.New()

	reqCtx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	var ctxErr error
	var wg sync.WaitGroup
	wg.Add(1)
	_, err := tm.Submit(reqCtx, "detached", func(taskCtx context.Context) error {
		defer wg.Done()
		close(started)
		// Контекст запроса отменен, контекст задачи жить продолжает
		time.Sleep(20 * time.Millisecond)
		ctxErr = taskCtx.Err()
		return nil
	})
	require.NoError(t, err)

	<-started
	cancel()
	wg.Wait()

	assert.NoError(t, ctxErr)
}

func TestShutdownWaitsForRunningTasks(t *testing.T) {
	tm := taskmanager.New()

	finished := false
	_, err := tm.Submit(context.Background(), "slow", func(ctx context.Context) error {
		time.Sleep(50 * time.Millisecond)
		finished = true
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, tm.Shutdown(ctx))

	assert.True(t, finished)

	// После остановки новые задачи не принимаются
	_, err = tm.Submit(context.Background(), "late", func(ctx context.Context) error { return nil })
	assert.Error(t, err)
}

func TestShutdownTimeout(t *testing.T) {
	tm := taskmanager.New()

	release := make(chan struct{})
	_, err := tm.Submit(context.Background(), "stuck", func(ctx context.Context) error {
		<-release
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, tm.Shutdown(ctx))

	close(release)
}

func TestCleanupTasks(t *testing.T) {
	tm := taskmanager.New()

	taskID, err := tm.Submit(context.Background(), "short", func(ctx context.Context) error { return nil })
	require.NoError(t, err)

	waitForStatus(t, tm, taskID, taskmanager.TaskStatusCompleted)

	tm.CleanupTasks(0)

	_, err = tm.GetTask(taskID)
	assert.Error(t, err)
}
