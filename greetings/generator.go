package greetings

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/greetbridge/errors"
)

// result is the message a task sends back to the collector.
type result struct {
	err   error
	text  string
	index int
}

func greetingNumber(index int, name string) (string, error) {
	return fmt.Sprintf("Greeting number %d for %s", index, name), nil
}

// generate renders greetings 1..n on the scheduler and collects them in the
// configured order. The first failed task fails the whole call; failures that
// have already arrived are aggregated with it and the texts collected so far
// are dropped. Tasks still running finish into the buffered channel.
func (m *Module) generate(ctx context.Context, n int, name string) ([]string, error) {
	if n == 0 {
		return nil, nil
	}

	if m.cfg.ParallelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.ParallelTimeout)
		defer cancel()
	}

	// Buffered to n so no task blocks on send after the collector gives up.
	results := make(chan result, n)
	for i := 1; i <= n; i++ {
		index := i
		if err := m.sched.Submit(ctx, func() { results <- m.runTask(index, name) }); err != nil {
			return nil, m.waitError(ctx, err, i-1, n)
		}
	}

	texts := make([]string, 0, n)
	if m.cfg.Ordering == OrderIndex {
		texts = texts[:n]
	}

	for received := 0; received < n; received++ {
		select {
		case r := <-results:
			if r.err != nil {
				return nil, m.taskFailures(results, r.err, n)
			}
			if m.cfg.Ordering == OrderIndex {
				texts[r.index-1] = r.text
			} else {
				texts = append(texts, r.text)
			}
		case <-ctx.Done():
			return nil, m.waitError(ctx, ctx.Err(), received, n)
		}
	}
	return texts, nil
}

// taskFailures aggregates first with any failures already queued behind it.
func (m *Module) taskFailures(results <-chan result, first error, n int) error {
	failed := []error{first}
drain:
	for {
		select {
		case r := <-results:
			if r.err != nil {
				failed = append(failed, r.err)
			}
		default:
			break drain
		}
	}

	err := errors.TaskFailures(failed, n)
	m.log.Error("parallel greetings failed",
		zap.Int("failed", len(failed)),
		zap.Int("total", n),
		zap.Error(err))
	return err
}

// runTask renders one greeting, turning a panic into a task failure.
func (m *Module) runTask(index int, name string) (r result) {
	r.index = index
	defer func() {
		if p := recover(); p != nil {
			r.err = errors.TaskFailed(index, fmt.Errorf("panic: %v", p))
		}
	}()
	text, err := m.render(index, name)
	if err != nil {
		r.err = errors.TaskFailed(index, err)
		return r
	}
	r.text = text
	return r
}

func (m *Module) waitError(ctx context.Context, cause error, received, total int) error {
	m.log.Warn("parallel greetings abandoned",
		zap.Int("received", received),
		zap.Int("total", total),
		zap.Error(cause))

	if stderrors.Is(cause, context.DeadlineExceeded) && ctx.Err() != nil {
		return errors.Timeout(errors.PhaseGenerate, "renderGreetingsInParallel", m.cfg.ParallelTimeout, cause)
	}
	if errors.IsKind(cause, errors.KindClosed) {
		return cause
	}
	return errors.Canceled(errors.PhaseGenerate, "renderGreetingsInParallel", cause)
}
