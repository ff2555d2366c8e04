// Package limbo holds destructive actions for a grace period during which
// they can be taken back.
package limbo

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"chesslog/internal/core"
)

const (
	// UndoTimeout is the default grace period
	UndoTimeout = 5 * time.Second

	// DeleteAllKey identifies a pending delete of every game
	DeleteAllKey core.GameKey = -1
)

// Registry tracks pending actions keyed by game
type Registry struct {
	mu      sync.Mutex
	actions map[core.GameKey]*Action
	closed  bool
	wg      sync.WaitGroup
	log     *zap.Logger
}

// Action is one scheduled commit
type Action struct {
	Key      core.GameKey
	Deadline time.Time
	timer    *time.Timer
	done     chan bool
}

// Done receives true when the action ran and false when it was cancelled
func (a *Action) Done() <-chan bool {
	return a.done
}

func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		actions: make(map[core.GameKey]*Action),
		log:     log.Named("limbo"),
	}
}

// Start schedules fn to run after delay. A pending action for the same key
// is cancelled first.
func (r *Registry) Start(key core.GameKey, delay time.Duration, fn func()) (*Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, fmt.Errorf("limbo registry shut down")
	}
	if prev, ok := r.actions[key]; ok {
		r.cancelLocked(prev)
	}

	a := &Action{
		Key:      key,
		Deadline: time.Now().Add(delay),
		done:     make(chan bool, 1),
	}
	r.actions[key] = a
	r.wg.Add(1)
	a.timer = time.AfterFunc(delay, func() {
		defer r.wg.Done()
		r.fire(a, fn)
	})

	r.log.Debug("action scheduled", zap.Stringer("key", key), zap.Duration("delay", delay))
	return a, nil
}

// fire runs fn unless the action was cancelled in the meantime
func (r *Registry) fire(a *Action, fn func()) {
	r.mu.Lock()
	current := r.actions[a.Key] == a
	if current {
		delete(r.actions, a.Key)
	}
	r.mu.Unlock()

	if !current {
		return
	}
	fn()
	r.log.Debug("action committed", zap.Stringer("key", a.Key))
	a.done <- true
}

// Cancel aborts the pending action for key, reporting whether one was pending
func (r *Registry) Cancel(key core.GameKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.actions[key]
	if !ok {
		return false
	}
	r.cancelLocked(a)
	r.log.Debug("action cancelled", zap.Stringer("key", key))
	return true
}

// cancelLocked removes a; caller holds mu
func (r *Registry) cancelLocked(a *Action) {
	delete(r.actions, a.Key)
	if a.timer.Stop() {
		// The callback will never run, so account for it here
		r.wg.Done()
	}
	a.done <- false
}

// Pending returns the action scheduled for key
func (r *Registry) Pending(key core.GameKey) (*Action, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.actions[key]
	return a, ok
}

// Keys lists keys with pending actions in ascending order
func (r *Registry) Keys() []core.GameKey {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]core.GameKey, 0, len(r.actions))
	for k := range r.actions {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Shutdown cancels every pending action and waits for running ones
func (r *Registry) Shutdown(timeout time.Duration) error {
	r.mu.Lock()
	r.closed = true
	for _, a := range r.actions {
		r.cancelLocked(a)
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("limbo registry shutdown timed out")
	}
}
