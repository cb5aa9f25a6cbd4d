package gateway

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Tiger884/retro-pc-store/internal/models"
	"github.com/Tiger884/retro-pc-store/pkg/logx"
)

// SyncQueue holds deferred work registered while the upstream was
// unreachable. Tasks are replayed in order; a failed task is requeued with
// its attempt count bumped until the retry bound is reached.
type SyncQueue struct {
	mu       sync.Mutex
	tasks    []models.SyncTask
	maxTries int
	log      *logx.Logger
}

func NewSyncQueue(maxTries int) *SyncQueue {
	return &SyncQueue{
		maxTries: maxTries,
		log:      logx.Named("sync_queue"),
	}
}

func (q *SyncQueue) Enqueue(tag string, payload json.RawMessage) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, models.SyncTask{
		Tag:        tag,
		Payload:    payload,
		EnqueuedAt: time.Now(),
	})
	q.log.Debugw("sync task enqueued", "tag", tag, "pending", len(q.tasks))
}

func (q *SyncQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Drain replays every pending task through fn. Tasks that fail and still
// have attempts left go back to the end of the queue; exhausted tasks are
// dropped with a log line.
func (q *SyncQueue) Drain(ctx context.Context, fn func(context.Context, models.SyncTask) error) {
	q.mu.Lock()
	pending := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	for _, task := range pending {
		if ctx.Err() != nil {
			q.requeue(task)
			continue
		}
		if err := fn(ctx, task); err != nil {
			task.AttemptCount++
			if task.AttemptCount >= q.maxTries {
				q.log.Warnw("sync task dropped after retries",
					"tag", task.Tag, "attempts", task.AttemptCount, "error", err)
				continue
			}
			q.log.Debugw("sync task failed, requeued",
				"tag", task.Tag, "attempts", task.AttemptCount, "error", err)
			q.requeue(task)
			continue
		}
		q.log.Debugw("sync task replayed", "tag", task.Tag)
	}
}

func (q *SyncQueue) requeue(task models.SyncTask) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
}
