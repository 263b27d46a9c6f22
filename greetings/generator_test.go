package greetings

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/wippyai/greetbridge/errors"
	"github.com/wippyai/greetbridge/layout"
)

func TestRenderGreetingsInParallel_IndexOrder(t *testing.T) {
	m := newTestModule(t, nil)
	name := encode(t, m, "Alice")

	ptr, err := m.RenderGreetingsInParallel(context.Background(), 3, name)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Greeting number 1 for Alice",
		"Greeting number 2 for Alice",
		"Greeting number 3 for Alice",
	}, readSet(t, m, ptr))

	require.NoError(t, m.ReleaseGreetingSet(ptr))
	require.NoError(t, hostCodec(m).Free(name))
	assertNoLeaks(t, m)
}

func TestRenderGreetingsInParallel_IndexOrderUnderJitter(t *testing.T) {
	m := newTestModule(t, &Config{Backend: BackendHeap, Workers: 8, ParallelTimeout: 5 * time.Second})
	m.render = func(i int, name string) (string, error) {
		time.Sleep(time.Duration((50-i)%7) * time.Millisecond)
		return greetingNumber(i, name)
	}
	name := encode(t, m, "Bob")

	ptr, err := m.RenderGreetingsInParallel(context.Background(), 50, name)
	require.NoError(t, err)

	got := readSet(t, m, ptr)
	require.Len(t, got, 50)
	for i, text := range got {
		assert.Equal(t, fmt.Sprintf("Greeting number %d for Bob", i+1), text)
	}
	require.NoError(t, m.ReleaseGreetingSet(ptr))
}

func TestRenderGreetingsInParallel_CompletionOrder(t *testing.T) {
	const n = 4
	m := newTestModule(t, &Config{Backend: BackendHeap, Workers: n, Ordering: OrderCompletion})
	// later indices finish first
	m.render = func(i int, name string) (string, error) {
		time.Sleep(time.Duration(n-i) * 40 * time.Millisecond)
		return greetingNumber(i, name)
	}
	name := encode(t, m, "Alice")

	ptr, err := m.RenderGreetingsInParallel(context.Background(), n, name)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Greeting number 4 for Alice",
		"Greeting number 3 for Alice",
		"Greeting number 2 for Alice",
		"Greeting number 1 for Alice",
	}, readSet(t, m, ptr))
	require.NoError(t, m.ReleaseGreetingSet(ptr))
}

func TestRenderGreetingsInParallel_Zero(t *testing.T) {
	m := newTestModule(t, nil)
	name := encode(t, m, "Nobody")

	ptr, err := m.RenderGreetingsInParallel(context.Background(), 0, name)
	require.NoError(t, err)

	set, err := layout.ReadGreetingSet(m.Memory(), ptr)
	require.NoError(t, err)
	assert.Equal(t, layout.GreetingSet{Greetings: 0, Count: 0}, set)
	require.NoError(t, m.ReleaseGreetingSet(ptr))
}

func TestRenderGreetingsInParallel_InvalidInput(t *testing.T) {
	m := newTestModule(t, nil)

	_, err := m.RenderGreetingsInParallel(context.Background(), -1, encode(t, m, "x"))
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput), "got %v", err)

	_, err = m.RenderGreetingsInParallel(context.Background(), 2, 0)
	assert.True(t, errors.IsKind(err, errors.KindNullPointer), "got %v", err)
	assert.Zero(t, m.Outstanding())
}

func TestRenderGreetingsInParallel_TaskFailures(t *testing.T) {
	tests := []struct {
		name      string
		render    func(int, string) (string, error)
		minFailed int
		maxFailed int
	}{
		{
			name: "error",
			render: func(i int, name string) (string, error) {
				if i == 2 {
					return "", fmt.Errorf("task %d broke", i)
				}
				return greetingNumber(i, name)
			},
			minFailed: 1,
			maxFailed: 1,
		},
		{
			name: "panic",
			render: func(i int, name string) (string, error) {
				if i%2 == 1 {
					panic("odd index")
				}
				return greetingNumber(i, name)
			},
			minFailed: 1,
			maxFailed: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModule(t, nil)
			m.render = tt.render
			name := encode(t, m, "Alice")
			before, _ := m.Allocator().Live()

			_, err := m.RenderGreetingsInParallel(context.Background(), 4, name)
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.KindTaskFailure), "got %v", err)

			var e *errors.Error
			require.ErrorAs(t, err, &e)
			failed := len(multierr.Errors(e.Cause))
			assert.GreaterOrEqual(t, failed, tt.minFailed)
			assert.LessOrEqual(t, failed, tt.maxFailed)

			after, _ := m.Allocator().Live()
			assert.Equal(t, before, after, "nothing may be encoded for a failed run")
			assert.Zero(t, m.Outstanding())
		})
	}
}

func TestRenderGreetingsInParallel_FailsFast(t *testing.T) {
	m := newTestModule(t, &Config{Backend: BackendHeap, Workers: 2, ParallelTimeout: 5 * time.Second})
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	m.render = func(i int, name string) (string, error) {
		if i == 2 {
			<-release
			return greetingNumber(i, name)
		}
		return "", fmt.Errorf("task %d broke", i)
	}

	start := time.Now()
	_, err := m.RenderGreetingsInParallel(context.Background(), 2, encode(t, m, "Eager"))
	assert.True(t, errors.IsKind(err, errors.KindTaskFailure), "got %v", err)
	assert.Less(t, time.Since(start), time.Second, "a failure must not wait for blocked tasks")
	assert.Zero(t, m.Outstanding())
}

func TestRenderGreetingsInParallel_Timeout(t *testing.T) {
	m := newTestModule(t, &Config{Backend: BackendHeap, Workers: 2, ParallelTimeout: 30 * time.Millisecond})
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	m.render = func(i int, name string) (string, error) {
		if i == 3 {
			<-release
		}
		return greetingNumber(i, name)
	}

	start := time.Now()
	_, err := m.RenderGreetingsInParallel(context.Background(), 3, encode(t, m, "Slow"))
	assert.True(t, errors.IsKind(err, errors.KindTimeout), "got %v", err)
	assert.Less(t, time.Since(start), time.Second)
	assert.Zero(t, m.Outstanding())
}

func TestRenderGreetingsInParallel_Canceled(t *testing.T) {
	m := newTestModule(t, &Config{Backend: BackendHeap, Workers: 1})
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithCancel(context.Background())
	m.render = func(i int, name string) (string, error) {
		if i == 1 {
			cancel()
			<-release
		}
		return greetingNumber(i, name)
	}

	_, err := m.RenderGreetingsInParallel(ctx, 2, encode(t, m, "Gone"))
	assert.True(t, errors.IsKind(err, errors.KindCanceled), "got %v", err)
}

func TestRenderGreetingsInParallel_Concurrent(t *testing.T) {
	m := newTestModule(t, &Config{Backend: BackendHeap, Workers: 4, ParallelTimeout: 5 * time.Second})
	name := encode(t, m, "Crowd")

	errc := make(chan error, 8)
	for g := 0; g < 8; g++ {
		go func() {
			ptr, err := m.RenderGreetingsInParallel(context.Background(), 10, name)
			if err == nil {
				err = m.ReleaseGreetingSet(ptr)
			}
			errc <- err
		}()
	}
	for g := 0; g < 8; g++ {
		require.NoError(t, <-errc)
	}
	assert.Zero(t, m.Outstanding())
}

func TestRenderGreetingsInParallel_ConcurrentWazero(t *testing.T) {
	m := newTestModule(t, &Config{
		Backend:          BackendWazero,
		MemoryPages:      1,
		MemoryLimitPages: 1024,
		Workers:          4,
		ParallelTimeout:  5 * time.Second,
	})
	name := encode(t, m, strings.Repeat("w", 3000))

	errc := make(chan error, 8)
	for g := 0; g < 8; g++ {
		go func() {
			for k := 0; k < 20; k++ {
				ptr, err := m.RenderGreetingsInParallel(context.Background(), 10, name)
				if err == nil {
					err = m.ReleaseGreetingSet(ptr)
				}
				if err != nil {
					errc <- err
					return
				}
			}
			errc <- nil
		}()
	}
	for g := 0; g < 8; g++ {
		require.NoError(t, <-errc)
	}
	require.NoError(t, hostCodec(m).Free(name))
	assertNoLeaks(t, m)
}
