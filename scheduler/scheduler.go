package scheduler

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/greetbridge/errors"
)

// Config configures a Scheduler. Zero values select defaults.
type Config struct {
	// Workers is the number of worker goroutines. Default: GOMAXPROCS.
	Workers int
	// QueueSize is the capacity of the task queue. Default: 4 * Workers.
	QueueSize int
}

// Scheduler runs submitted tasks on a fixed set of workers.
type Scheduler struct {
	tasks   chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.RWMutex
	once    sync.Once
	workers int
	closed  bool
}

// New starts a scheduler.
func New(cfg Config) *Scheduler {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queue := cfg.QueueSize
	if queue <= 0 {
		queue = 4 * workers
	}

	s := &Scheduler{
		tasks:   make(chan func(), queue),
		done:    make(chan struct{}),
		workers: workers,
	}
	s.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go s.worker(i)
	}

	Logger().Debug("scheduler started",
		zap.Int("workers", workers),
		zap.Int("queue", queue))
	return s
}

// Workers returns the number of worker goroutines.
func (s *Scheduler) Workers() int {
	return s.workers
}

// Submit queues fn for execution.
func (s *Scheduler) Submit(ctx context.Context, fn func()) error {
	if fn == nil {
		return errors.InvalidInput(errors.PhaseSchedule, "nil task")
	}
	if err := ctx.Err(); err != nil {
		return errors.Canceled(errors.PhaseSchedule, "submit", err)
	}

	// The read lock keeps Close from closing the queue under a pending send.
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errors.Closed(errors.PhaseSchedule, "scheduler")
	}

	select {
	case s.tasks <- fn:
		return nil
	case <-ctx.Done():
		return errors.Canceled(errors.PhaseSchedule, "submit", ctx.Err())
	case <-s.done:
		return errors.Closed(errors.PhaseSchedule, "scheduler")
	}
}

// Close stops accepting tasks, runs the ones already queued and waits for
// the workers to exit. It is safe to call more than once.
func (s *Scheduler) Close() error {
	s.once.Do(func() {
		close(s.done)

		s.mu.Lock()
		s.closed = true
		close(s.tasks)
		s.mu.Unlock()

		s.wg.Wait()
		Logger().Debug("scheduler stopped", zap.Int("workers", s.workers))
	})
	return nil
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()
	for fn := range s.tasks {
		s.run(id, fn)
	}
}

func (s *Scheduler) run(id int, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Error("task panicked",
				zap.Int("worker", id),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()
	fn()
}
