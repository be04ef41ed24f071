package tasks

import (
	"fmt"

	"github.com/panjf2000/ants/v2"

	"github.com/adbeam/adbeam/internal/shared/logger"
)

// Executor runs best-effort background work on a bounded pool. Submission
// failures and task panics are logged and never surfaced to the caller,
// so side work cannot fail a request that already committed.
type Executor struct {
	pool   *ants.Pool
	logger logger.Interface
}

func NewExecutor(poolSize int) (*Executor, error) {
	if poolSize <= 0 {
		poolSize = 64
	}

	pool, err := ants.NewPool(poolSize, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create task pool: %w", err)
	}

	return &Executor{
		pool:   pool,
		logger: logger.NewLogger().With("component", "tasks.executor"),
	}, nil
}

// Submit schedules fn on the pool. When the pool is saturated the task is
// dropped and the drop is logged.
func (e *Executor) Submit(name string, fn func()) {
	err := e.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error("background task panicked",
					"task", name,
					"panic", r)
			}
		}()
		fn()
	})
	if err != nil {
		e.logger.Warn("background task dropped",
			"task", name,
			"error", err)
	}
}

// Release shuts down the pool. Pending tasks are abandoned.
func (e *Executor) Release() {
	e.pool.Release()
}
