package service_test

import (
	"context"
	"github.com/stretchr/testify/assert"
	"secure-print-release/internal/service"
	"sync/atomic"
	"testing"
	"time"
)

type countingSweeper struct {
	calls int32
}

func (s *countingSweeper) SweepExpired(context.Context) int {
	atomic.AddInt32(&s.calls, 1)
	return 2
}

func TestCleanupWorker_Tick(t *testing.T) {
	sweeper := &countingSweeper{}
	worker := service.NewCleanupWorker(sweeper, time.Hour)

	assert.Equal(t, 2, worker.Tick(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&sweeper.calls))
}

func TestCleanupWorker_StartStop(t *testing.T) {
	sweeper := &countingSweeper{}
	worker := service.NewCleanupWorker(sweeper, 5*time.Millisecond)

	worker.Start(context.Background())
	worker.Start(context.Background())

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&sweeper.calls) >= 2
	}, time.Second, 5*time.Millisecond)

	worker.Stop()
	calls := atomic.LoadInt32(&sweeper.calls)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, calls, atomic.LoadInt32(&sweeper.calls), "no sweeps after Stop")

	worker.Stop()
}

func TestCleanupWorker_EvictsThroughJobService(t *testing.T) {
	h := newHarness(t, nil)
	job, file := h.submitPDF(t, 1)
	worker := service.NewCleanupWorker(h.service, time.Minute)

	assert.Equal(t, 0, worker.Tick(context.Background()))

	h.clock.Advance(time.Minute)
	assert.Equal(t, 1, worker.Tick(context.Background()))
	assert.False(t, h.uploads.Exists(file.Path))

	_, ok := h.registry.Metadata.Get(job.ID)
	assert.False(t, ok)
}
