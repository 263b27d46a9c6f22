package greetings

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/greetbridge/errors"
)

// GreetingSetCallback receives a borrowed greeting set pointer.
// It must not keep the pointer after returning.
type GreetingSetCallback func(set uint32)

// StringCallback receives a borrowed string pointer.
// It must not keep the pointer after returning.
type StringCallback func(text uint32)

// invoke runs call exactly once and reclaims the borrowed value at ptr when
// call returns, whether it returns normally, panics or outlives the caller's
// wait.
//
// Without a callback timeout or a cancellable context, call runs on the
// caller's goroutine. Otherwise it runs on its own goroutine and invoke stops
// waiting on expiry; the value stays live until call actually returns.
func (m *Module) invoke(ctx context.Context, name string, call func(), ptr uint32) error {
	done := make(chan error, 1)
	run := func() {
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = errors.CallbackPanic(r)
				m.log.Error("callback panicked",
					zap.String("entry", name),
					zap.Any("panic", r))
			}
			if rerr := m.table.Reclaim(ptr); rerr != nil {
				m.log.Debug("borrowed value already reclaimed",
					zap.String("entry", name),
					zap.Uint32("ptr", ptr),
					zap.Error(rerr))
			}
			done <- err
		}()
		call()
	}

	if m.cfg.CallbackTimeout <= 0 && ctx.Done() == nil {
		run()
		return <-done
	}

	go run()

	var expired <-chan time.Time
	if m.cfg.CallbackTimeout > 0 {
		timer := time.NewTimer(m.cfg.CallbackTimeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case err := <-done:
		return err
	case <-expired:
		m.log.Warn("callback did not return in time",
			zap.String("entry", name),
			zap.Duration("timeout", m.cfg.CallbackTimeout))
		return errors.Timeout(errors.PhaseCallback, name, m.cfg.CallbackTimeout, nil)
	case <-ctx.Done():
		return errors.Canceled(errors.PhaseCallback, name, ctx.Err())
	}
}
