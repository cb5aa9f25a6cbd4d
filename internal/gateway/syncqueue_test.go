package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiger884/retro-pc-store/internal/models"
	"github.com/Tiger884/retro-pc-store/pkg/logx"
)

func newTestQueue(maxTries int) *SyncQueue {
	q := NewSyncQueue(maxTries)
	q.log = logx.Nop()
	return q
}

func TestSyncQueue_DrainReplaysInOrder(t *testing.T) {
	q := newTestQueue(3)
	q.Enqueue("first", json.RawMessage(`1`))
	q.Enqueue("second", json.RawMessage(`2`))

	var seen []string
	q.Drain(context.Background(), func(ctx context.Context, task models.SyncTask) error {
		seen = append(seen, task.Tag)
		return nil
	})

	assert.Equal(t, []string{"first", "second"}, seen)
	assert.Equal(t, 0, q.Len())
}

func TestSyncQueue_RequeuesFailedTask(t *testing.T) {
	q := newTestQueue(3)
	q.Enqueue("flaky", nil)

	q.Drain(context.Background(), func(ctx context.Context, task models.SyncTask) error {
		return errors.New("upstream down")
	})

	require.Equal(t, 1, q.Len())

	// The requeued task carries its attempt count forward.
	var got models.SyncTask
	q.Drain(context.Background(), func(ctx context.Context, task models.SyncTask) error {
		got = task
		return nil
	})
	assert.Equal(t, 1, got.AttemptCount)
	assert.Equal(t, 0, q.Len())
}

func TestSyncQueue_DropsAfterMaxTries(t *testing.T) {
	q := newTestQueue(2)
	q.Enqueue("doomed", nil)

	fail := func(ctx context.Context, task models.SyncTask) error {
		return errors.New("still down")
	}
	q.Drain(context.Background(), fail)
	require.Equal(t, 1, q.Len())
	q.Drain(context.Background(), fail)

	assert.Equal(t, 0, q.Len())
}

func TestSyncQueue_CancelledContextKeepsTasks(t *testing.T) {
	q := newTestQueue(3)
	q.Enqueue("pending", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	q.Drain(ctx, func(ctx context.Context, task models.SyncTask) error {
		t.Fatal("handler must not run with a cancelled context")
		return nil
	})

	assert.Equal(t, 1, q.Len())
}
