// Package queue implements the bounded FIFO task queue with per-task status
// tracking and bounded retry. The channel itself is the only wait point; a
// single mutex guards the status side table and counters.
package queue

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clipforge/pipeline/config"
	pipelineerrors "github.com/clipforge/pipeline/errors"
	"github.com/clipforge/pipeline/model"
)

// DefaultMaxRetries is used by Enqueue when a caller does not override it.
const DefaultMaxRetries = 3

// Stats is a snapshot of queue-wide counters.
type Stats struct {
	QueueLength    int
	PendingCount   int
	RunningCount   int
	CompletedCount int
	FailedCount    int
}

// TaskQueue is a capacity-bounded FIFO of task ids backed by a side table
// of full Task records.
type TaskQueue struct {
	mu sync.Mutex

	ch      chan string
	tasks   map[string]*model.Task
	maxSize int

	completedCount int
	failedCount    int
}

// New constructs a TaskQueue with the given channel capacity. A
// non-positive maxSize is a configuration error.
func New(maxSize int) (*TaskQueue, error) {
	if maxSize <= 0 {
		return nil, pipelineerrors.NewQueueError("max_size must be positive", nil)
	}
	return &TaskQueue{
		ch:      make(chan string, maxSize),
		tasks:   make(map[string]*model.Task),
		maxSize: maxSize,
	}, nil
}

// NewFromConfig is a convenience constructor reading queue size off a
// config.Config.
func NewFromConfig(cfg config.Config) (*TaskQueue, error) {
	return New(cfg.QueueMaxSize)
}

// Enqueue mints a task id, constructs a PENDING Task and pushes it onto the
// FIFO. It fails with QueueError if the channel is at capacity.
func (q *TaskQueue) Enqueue(taskType model.TaskType, inputData map[string]interface{}) (string, error) {
	return q.EnqueueWithRetries(taskType, inputData, DefaultMaxRetries)
}

// EnqueueWithRetries is Enqueue with an explicit per-task max_retries.
func (q *TaskQueue) EnqueueWithRetries(taskType model.TaskType, inputData map[string]interface{}, maxRetries int) (string, error) {
	taskID := uuid.NewString()
	now := config.Clock.GetTime()
	task := &model.Task{
		TaskID:     taskID,
		TaskType:   taskType,
		InputData:  inputData,
		RetryCount: 0,
		MaxRetries: maxRetries,
		Status:     model.TaskStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	select {
	case q.ch <- taskID:
	default:
		return "", pipelineerrors.NewQueueError("queue is full", nil)
	}
	q.tasks[taskID] = task
	return taskID, nil
}

// Dequeue blocks up to timeout for the next task, transitioning it to
// RUNNING. It returns (nil, false) on timeout.
func (q *TaskQueue) Dequeue(timeout time.Duration) (*model.Task, bool) {
	select {
	case taskID := <-q.ch:
		q.mu.Lock()
		defer q.mu.Unlock()
		task, ok := q.tasks[taskID]
		if !ok {
			return nil, false
		}
		task.Status = model.TaskStatusRunning
		task.UpdatedAt = config.Clock.GetTime()
		snapshot := *task
		return &snapshot, true
	case <-time.After(timeout):
		return nil, false
	}
}

// MarkCompleted transitions a RUNNING task to COMPLETED.
func (q *TaskQueue) MarkCompleted(taskID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	task, ok := q.tasks[taskID]
	if !ok {
		return pipelineerrors.NewQueueError("unknown task: "+taskID, nil)
	}
	task.Status = model.TaskStatusCompleted
	task.UpdatedAt = config.Clock.GetTime()
	q.completedCount++
	return nil
}

// MarkFailed records errMessage and increments RetryCount. If RetryCount
// is still within MaxRetries the task is re-enqueued as PENDING; otherwise
// it transitions terminally to FAILED. RetryCount increments on every call
// including the final one that pushes it past MaxRetries, so a terminally
// failed task reads MaxRetries+1.
func (q *TaskQueue) MarkFailed(taskID, errMessage string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	task, ok := q.tasks[taskID]
	if !ok {
		return pipelineerrors.NewQueueError("unknown task: "+taskID, nil)
	}
	task.ErrorMessage = errMessage
	task.RetryCount++
	task.UpdatedAt = config.Clock.GetTime()

	if task.RetryCount <= task.MaxRetries {
		task.Status = model.TaskStatusPending
		select {
		case q.ch <- taskID:
			return nil
		default:
			// re-push failed: the queue is full, so this retry is lost.
			task.Status = model.TaskStatusFailed
			q.failedCount++
			return pipelineerrors.NewQueueError("queue full on retry re-enqueue", nil)
		}
	}

	task.Status = model.TaskStatusFailed
	q.failedCount++
	return nil
}

// GetStatus returns a snapshot of the task's current record.
func (q *TaskQueue) GetStatus(taskID string) (model.Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	task, ok := q.tasks[taskID]
	if !ok {
		return model.Task{}, false
	}
	return *task, true
}

// GetQueueLength returns the number of task ids currently buffered in the
// FIFO channel (not yet dequeued).
func (q *TaskQueue) GetQueueLength() int {
	return len(q.ch)
}

// GetPendingCount returns the number of tasks currently in PENDING status.
func (q *TaskQueue) GetPendingCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	count := 0
	for _, t := range q.tasks {
		if t.Status == model.TaskStatusPending {
			count++
		}
	}
	return count
}

// GetStats returns a snapshot of queue-wide counters.
func (q *TaskQueue) GetStats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	stats := Stats{
		QueueLength:    len(q.ch),
		CompletedCount: q.completedCount,
		FailedCount:    q.failedCount,
	}
	for _, t := range q.tasks {
		switch t.Status {
		case model.TaskStatusPending:
			stats.PendingCount++
		case model.TaskStatusRunning:
			stats.RunningCount++
		}
	}
	return stats
}

// Clear drains the channel and resets the status table and counters.
func (q *TaskQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		select {
		case <-q.ch:
		default:
			q.tasks = make(map[string]*model.Task)
			q.completedCount = 0
			q.failedCount = 0
			return
		}
	}
}
