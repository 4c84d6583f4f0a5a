// Package task runs named goroutines under a shared cancellation context.
package task

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arloliu/go-sps/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

// Func is run repeatedly by a task goroutine. It returns false to stop the
// task.
type Func func() bool

// Manager manages the lifecycle of task goroutines.
//
// All tasks observe the same context. Stop cancels it and Wait blocks until
// every task returned, after which the Manager can start tasks again.
type Manager struct {
	pctx   context.Context
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.RWMutex // protects ctx and cancel; held while adding to wg

	wg    sync.WaitGroup
	count atomic.Int32

	tickers *xsync.MapOf[string, *time.Ticker]
	logger  logger.Logger
}

// NewManager creates a Manager whose tasks stop when ctx is done.
func NewManager(ctx context.Context, l logger.Logger) *Manager {
	mgr := &Manager{
		pctx:    ctx,
		tickers: xsync.NewMapOf[string, *time.Ticker](),
		logger:  l,
	}
	mgr.ctx, mgr.cancel = context.WithCancel(ctx)

	return mgr
}

// Context returns the context shared by the running tasks.
func (mgr *Manager) Context() context.Context {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()

	return mgr.ctx
}

// Start runs fn in a loop on a new goroutine until it returns false or the
// Manager is stopped.
func (mgr *Manager) Start(name string, fn Func) error {
	return mgr.spawn(name, func(ctx context.Context) {
		for ctx.Err() == nil {
			if !mgr.call(name, fn) {
				return
			}
		}
	})
}

// StartInterval runs fn every interval until it returns false or the
// Manager is stopped. If runNow is true fn also runs once before the first
// tick, on the calling goroutine.
func (mgr *Manager) StartInterval(name string, fn Func, interval time.Duration, runNow bool) error {
	if interval <= 0 {
		return fmt.Errorf("task %s: invalid interval: %v", name, interval)
	}

	if mgr.Context().Err() != nil {
		return fmt.Errorf("task %s: manager already stopped", name)
	}

	ticker := time.NewTicker(interval)
	if _, loaded := mgr.tickers.LoadOrStore(name, ticker); loaded {
		ticker.Stop()
		return fmt.Errorf("task %s: interval task already exists", name)
	}

	cleanup := func() {
		ticker.Stop()
		mgr.tickers.Delete(name)
	}

	if runNow && !mgr.call(name, fn) {
		cleanup()
		return nil
	}

	err := mgr.spawn(name, func(ctx context.Context) {
		defer cleanup()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !mgr.call(name, fn) {
					return
				}
			}
		}
	})
	if err != nil {
		cleanup()
	}

	return err
}

// Stop signals all tasks to stop.
func (mgr *Manager) Stop() {
	mgr.tickers.Range(func(_ string, ticker *time.Ticker) bool {
		ticker.Stop()
		return true
	})

	mgr.mu.Lock()
	mgr.cancel()
	mgr.mu.Unlock()
}

// Wait blocks until all tasks returned and rearms the Manager.
//
// Tasks may start other tasks while Wait blocks; other callers must not.
func (mgr *Manager) Wait() {
	mgr.wg.Wait()

	mgr.mu.Lock()
	mgr.ctx, mgr.cancel = context.WithCancel(mgr.pctx)
	mgr.mu.Unlock()
}

// Count returns the number of running tasks.
func (mgr *Manager) Count() int {
	return int(mgr.count.Load())
}

// spawn starts body unless the Manager is stopped. The stop check and the
// WaitGroup increment happen under the same lock as Stop.
func (mgr *Manager) spawn(name string, body func(ctx context.Context)) error {
	mgr.mu.RLock()
	ctx := mgr.ctx
	if ctx.Err() != nil {
		mgr.mu.RUnlock()
		return fmt.Errorf("task %s: manager already stopped", name)
	}
	mgr.wg.Add(1)
	mgr.count.Add(1)
	mgr.mu.RUnlock()

	go func() {
		defer func() {
			mgr.count.Add(-1)
			mgr.wg.Done()
			mgr.logger.Debug("task terminated", "name", name, "task_count", mgr.Count())
		}()

		body(ctx)
	}()

	return nil
}

// call runs fn and turns a panic into a stop.
func (mgr *Manager) call(name string, fn Func) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			mgr.logger.Error("panic in task", "name", name, "panic", r)
			ok = false
		}
	}()

	return fn()
}
