package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestQueueProcessesJobs(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}
	done := make(chan struct{}, 3)

	q := NewQueue("test", func(_ context.Context, job Job) error {
		mu.Lock()
		seen[job.ID] = true
		mu.Unlock()
		done <- struct{}{}
		return nil
	}, QueueConfig{Workers: 2, BufferSize: 8, Logger: zap.NewNop()})
	q.Start(context.Background())
	defer q.Stop()

	for _, id := range []string{"j1", "j2", "j3"} {
		require.NoError(t, q.Enqueue(Job{ID: id, Type: "noop"}))
	}
	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, seen, 3)
}

func TestEnqueueRequiresStartedQueue(t *testing.T) {
	q := NewQueue("idle", func(context.Context, Job) error { return nil }, QueueConfig{Logger: zap.NewNop()})
	assert.Error(t, q.Enqueue(Job{ID: "j1"}))
}

func TestStopDrainsBufferedJobs(t *testing.T) {
	var mu sync.Mutex
	var processed []string
	workerBusy := make(chan struct{})
	release := make(chan struct{})

	q := NewQueue("drain", func(_ context.Context, job Job) error {
		if job.ID == "gate" {
			close(workerBusy)
			<-release
			return nil
		}
		mu.Lock()
		processed = append(processed, job.ID)
		mu.Unlock()
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 8, Logger: zap.NewNop()})
	q.Start(context.Background())

	// Occupy the single worker so the remaining jobs stay buffered.
	require.NoError(t, q.Enqueue(Job{ID: "gate"}))
	<-workerBusy
	for _, id := range []string{"j1", "j2", "j3"} {
		require.NoError(t, q.Enqueue(Job{ID: id}))
	}
	close(release)
	q.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"j1", "j2", "j3"}, processed)
}

func TestEnqueueRejectedAfterStop(t *testing.T) {
	q := NewQueue("stopped", func(context.Context, Job) error { return nil }, QueueConfig{Logger: zap.NewNop()})
	q.Start(context.Background())
	q.Stop()
	assert.Error(t, q.Enqueue(Job{ID: "late"}))
}
