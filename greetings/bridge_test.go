package greetings

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/greetbridge/errors"
)

func TestCallMeBack_ExactlyOnce(t *testing.T) {
	m := newTestModule(t, nil)

	var calls int
	var got string
	err := m.CallMeBack(context.Background(), func(text uint32) {
		calls++
		got = decode(t, m, text)
		assert.Equal(t, 1, m.Outstanding(), "borrowed value should be live during the call")
	})
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, "Hello there!", got)
	assertNoLeaks(t, m)
}

func TestCallMeBack_ReceiverCannotRelease(t *testing.T) {
	m := newTestModule(t, nil)

	var releaseErr error
	err := m.CallMeBack(context.Background(), func(text uint32) {
		releaseErr = m.ReleaseString(text)
	})
	require.NoError(t, err)
	assert.True(t, errors.IsKind(releaseErr, errors.KindNotOwned), "got %v", releaseErr)
	assertNoLeaks(t, m)
}

func TestSendGreetings(t *testing.T) {
	m := newTestModule(t, nil)

	var got []string
	var borrowed uint32
	err := m.SendGreetings(context.Background(), func(set uint32) {
		borrowed = set
		got = readSet(t, m, set)
		assert.True(t, errors.IsKind(m.ReleaseGreetingSet(set), errors.KindNotOwned))
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Hello!", "Hello again!"}, got)
	assertNoLeaks(t, m)

	// the module already freed it
	assert.True(t, errors.IsKind(m.ReleaseGreetingSet(borrowed), errors.KindDoubleRelease))
}

func TestCallbacks_Nil(t *testing.T) {
	m := newTestModule(t, nil)
	assert.True(t, errors.IsKind(m.CallMeBack(context.Background(), nil), errors.KindInvalidInput))
	assert.True(t, errors.IsKind(m.SendGreetings(context.Background(), nil), errors.KindInvalidInput))
	assertNoLeaks(t, m)
}

func TestCallMeBack_Panic(t *testing.T) {
	m := newTestModule(t, nil)

	err := m.CallMeBack(context.Background(), func(uint32) {
		panic("callback exploded")
	})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindCallbackPanic), "got %v", err)
	assertNoLeaks(t, m)
}

func TestCallMeBack_Timeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = BackendHeap
	cfg.CallbackTimeout = 20 * time.Millisecond
	m := newTestModule(t, cfg)

	unblock := make(chan struct{})
	var finished atomic.Bool
	err := m.CallMeBack(context.Background(), func(text uint32) {
		<-unblock
		// still readable after the caller gave up
		s, derr := hostCodec(m).Decode(text)
		assert.NoError(t, derr)
		assert.Equal(t, "Hello there!", s)
		finished.Store(true)
	})
	require.True(t, errors.IsKind(err, errors.KindTimeout), "got %v", err)

	assert.Equal(t, 1, m.Outstanding(), "value must stay live while the callback runs")

	close(unblock)
	require.Eventually(t, func() bool {
		return finished.Load() && m.Outstanding() == 0
	}, time.Second, 5*time.Millisecond)
	assertNoLeaks(t, m)
}

func TestSendGreetings_WithTimeoutReturnsInTime(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = BackendHeap
	cfg.CallbackTimeout = time.Second
	m := newTestModule(t, cfg)

	var calls atomic.Int32
	err := m.SendGreetings(context.Background(), func(set uint32) {
		calls.Add(1)
		assert.Len(t, readSet(t, m, set), 2)
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assertNoLeaks(t, m)
}

func TestCallMeBack_Canceled(t *testing.T) {
	m := newTestModule(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	unblock := make(chan struct{})
	err := m.CallMeBack(ctx, func(uint32) {
		cancel()
		<-unblock
	})
	assert.True(t, errors.IsKind(err, errors.KindCanceled), "got %v", err)

	close(unblock)
	require.Eventually(t, func() bool { return m.Outstanding() == 0 }, time.Second, 5*time.Millisecond)
}
