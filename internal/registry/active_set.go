package registry

import (
	"context"
	"sync"
)

// ActiveSet : job ids currently held by a lifecycle operation.
// Handlers wait for the id, the cleanup loop only tries and skips.
type ActiveSet struct {
	mu   sync.Mutex
	held map[string]chan struct{}
}

func NewActiveSet() *ActiveSet {
	return &ActiveSet{held: make(map[string]chan struct{})}
}

// Acquire : blocks until id is free or ctx is done. The returned func releases the id and is safe to call twice.
func (a *ActiveSet) Acquire(ctx context.Context, id string) (func(), error) {
	for {
		a.mu.Lock()
		waitCh, busy := a.held[id]
		if !busy {
			release := a.hold(id)
			a.mu.Unlock()
			return release, nil
		}
		a.mu.Unlock()

		select {
		case <-waitCh:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (a *ActiveSet) TryAcquire(id string) (func(), bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, busy := a.held[id]; busy {
		return nil, false
	}
	return a.hold(id), true
}

func (a *ActiveSet) IsActive(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, busy := a.held[id]
	return busy
}

// hold : caller holds a.mu
func (a *ActiveSet) hold(id string) func() {
	doneCh := make(chan struct{})
	a.held[id] = doneCh

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			delete(a.held, id)
			a.mu.Unlock()
			close(doneCh)
		})
	}
}
