package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wippyai/greetbridge/errors"
)

func TestScheduler_RunsAllTasks(t *testing.T) {
	s := New(Config{Workers: 4})
	defer s.Close()

	var count atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		if err := s.Submit(context.Background(), func() {
			defer wg.Done()
			count.Add(1)
		}); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}
	wg.Wait()

	if got := count.Load(); got != 100 {
		t.Errorf("ran %d tasks, want 100", got)
	}
}

func TestScheduler_Defaults(t *testing.T) {
	s := New(Config{})
	defer s.Close()
	if s.Workers() <= 0 {
		t.Errorf("Workers = %d, want > 0", s.Workers())
	}
	if cap(s.tasks) != 4*s.Workers() {
		t.Errorf("queue = %d, want %d", cap(s.tasks), 4*s.Workers())
	}
}

func TestScheduler_CloseDrainsQueue(t *testing.T) {
	s := New(Config{Workers: 1, QueueSize: 16})

	release := make(chan struct{})
	var count atomic.Int32
	_ = s.Submit(context.Background(), func() { <-release })
	for i := 0; i < 10; i++ {
		if err := s.Submit(context.Background(), func() { count.Add(1) }); err != nil {
			t.Fatal(err)
		}
	}

	close(release)
	_ = s.Close()

	if got := count.Load(); got != 10 {
		t.Errorf("ran %d queued tasks, want 10", got)
	}
}

func TestScheduler_SubmitAfterClose(t *testing.T) {
	s := New(Config{Workers: 1})
	_ = s.Close()
	_ = s.Close()

	err := s.Submit(context.Background(), func() {})
	if !errors.IsKind(err, errors.KindClosed) {
		t.Errorf("expected closed, got %v", err)
	}
}

func TestScheduler_SubmitCanceled(t *testing.T) {
	s := New(Config{Workers: 1, QueueSize: 1})
	defer s.Close()

	block := make(chan struct{})
	defer close(block)
	started := make(chan struct{})
	_ = s.Submit(context.Background(), func() { close(started); <-block })
	<-started
	_ = s.Submit(context.Background(), func() {}) // fills the queue

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := s.Submit(ctx, func() {})
	if !errors.IsKind(err, errors.KindCanceled) {
		t.Errorf("expected canceled, got %v", err)
	}

	done, cancelNow := context.WithCancel(context.Background())
	cancelNow()
	if err := s.Submit(done, func() {}); !errors.IsKind(err, errors.KindCanceled) {
		t.Errorf("expected canceled for done context, got %v", err)
	}
}

func TestScheduler_NilTask(t *testing.T) {
	s := New(Config{Workers: 1})
	defer s.Close()
	if err := s.Submit(context.Background(), nil); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("expected invalid_input, got %v", err)
	}
}

func TestScheduler_PanicKeepsWorker(t *testing.T) {
	s := New(Config{Workers: 1})
	defer s.Close()

	_ = s.Submit(context.Background(), func() { panic("boom") })

	ran := make(chan struct{})
	if err := s.Submit(context.Background(), func() { close(ran) }); err != nil {
		t.Fatal(err)
	}
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("worker did not survive a panicking task")
	}
}

func TestScheduler_CloseUnblocksSubmit(t *testing.T) {
	s := New(Config{Workers: 1, QueueSize: 1})

	block := make(chan struct{})
	started := make(chan struct{})
	_ = s.Submit(context.Background(), func() { close(started); <-block })
	<-started
	_ = s.Submit(context.Background(), func() {})

	errc := make(chan error, 1)
	go func() {
		errc <- s.Submit(context.Background(), func() {})
	}()

	time.Sleep(10 * time.Millisecond)
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(block)
	}()
	_ = s.Close()

	select {
	case err := <-errc:
		// the pending submit either got in before close or was rejected
		if err != nil && !errors.IsKind(err, errors.KindClosed) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Submit still blocked after Close")
	}
}
