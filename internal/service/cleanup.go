package service

import (
	"context"
	"log"
	"sync"
	"time"
)

// Sweeper : anything that can evict expired links in one pass
type Sweeper interface {
	SweepExpired(ctx context.Context) int
}

// CleanupWorker : runs a sweep every interval until stopped
type CleanupWorker struct {
	sweeper  Sweeper
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	doneCh chan struct{}
}

func NewCleanupWorker(sweeper Sweeper, interval time.Duration) *CleanupWorker {
	return &CleanupWorker{
		sweeper:  sweeper,
		interval: interval,
	}
}

// Start : no-op when already running
func (w *CleanupWorker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		return
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.doneCh = make(chan struct{})
	log.Printf("[Cleanup] worker started, interval %s", w.interval)

	go func(doneCh chan struct{}) {
		defer close(doneCh)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.Tick(ctx)
			}
		}
	}(w.doneCh)
}

// Tick : one sweep, also the hook for tests and manual triggers
func (w *CleanupWorker) Tick(ctx context.Context) int {
	evicted := w.sweeper.SweepExpired(ctx)
	if evicted > 0 {
		log.Printf("[Cleanup] evicted %d expired job(s)", evicted)
	}
	return evicted
}

// Stop : waits for an in-flight sweep to finish
func (w *CleanupWorker) Stop() {
	w.mu.Lock()
	cancel, doneCh := w.cancel, w.doneCh
	w.cancel, w.doneCh = nil, nil
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-doneCh
	log.Println("[Cleanup] worker stopped")
}
