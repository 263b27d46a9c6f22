// Package scheduler provides an explicitly started, explicitly closed worker
// pool for background tasks.
//
// A Scheduler is created with New and handed to whatever needs to run work
// in the background. There is no process-wide runtime: every pool has an
// owner that must Close it.
//
//	sched := scheduler.New(scheduler.Config{Workers: 4})
//	defer sched.Close()
//
//	err := sched.Submit(ctx, func() { ... })
//
// Submit blocks while the queue is full, until the task is accepted, the
// context ends or the scheduler closes. Close stops intake, lets the workers
// finish everything already queued and waits for them to exit.
//
// A task that panics is recovered and logged; the worker keeps running.
// Callers that need the panic value recover it inside their own task.
package scheduler
