// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package clipboard

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// =============================================================================
// TEST HELPERS
// =============================================================================

type fakeWriter struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (f *fakeWriter) Write(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return nil
}

// fakeClock captures scheduled reverts so tests fire them by hand.
type fakeClock struct {
	mu        sync.Mutex
	durations []time.Duration
	fns       []func()
	timers    []*time.Timer
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) *time.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.durations = append(c.durations, d)
	c.fns = append(c.fns, fn)
	t := time.AfterFunc(time.Hour, func() {})
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) fire(i int) {
	c.mu.Lock()
	fn := c.fns[i]
	c.mu.Unlock()
	fn()
}

func (c *fakeClock) stopAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.timers {
		t.Stop()
	}
}

// =============================================================================
// ACTION TESTS
// =============================================================================

func TestCopySetsCopiedAndReverts(t *testing.T) {
	w := &fakeWriter{}
	clock := &fakeClock{}
	defer clock.stopAll()

	a := NewAction(w, WithAfterFunc(clock.AfterFunc))
	defer a.Close()

	var changes []bool
	a.OnChange(func(copied bool) { changes = append(changes, copied) })

	require.NoError(t, a.Copy(context.Background(), "fmt.Println()"))
	assert.True(t, a.Copied())
	assert.Equal(t, []string{"fmt.Println()"}, w.texts)
	require.Len(t, clock.durations, 1)
	assert.Equal(t, RevertAfter, clock.durations[0])

	clock.fire(0)
	assert.False(t, a.Copied())
	assert.Equal(t, []bool{true, false}, changes)
}

func TestCopyAgainRestartsCountdown(t *testing.T) {
	clock := &fakeClock{}
	defer clock.stopAll()

	a := NewAction(&fakeWriter{}, WithAfterFunc(clock.AfterFunc))
	defer a.Close()

	var changes []bool
	a.OnChange(func(copied bool) { changes = append(changes, copied) })

	require.NoError(t, a.Copy(context.Background(), "x"))
	require.NoError(t, a.Copy(context.Background(), "x"))
	require.Len(t, clock.fns, 2)

	// the first timer is stale and must not revert
	clock.fire(0)
	assert.True(t, a.Copied())

	clock.fire(1)
	assert.False(t, a.Copied())

	// firing again is a no-op
	clock.fire(1)
	assert.Equal(t, []bool{true, false}, changes)
}

func TestCopyFailureLeavesStateAndLogs(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	clock := &fakeClock{}
	defer clock.stopAll()

	w := &fakeWriter{err: errors.New("no clipboard")}
	a := NewAction(w, WithAfterFunc(clock.AfterFunc), WithLogger(zap.New(core)))
	defer a.Close()

	err := a.Copy(context.Background(), "x")
	require.Error(t, err)
	assert.False(t, a.Copied())
	assert.Empty(t, clock.fns)
	assert.Equal(t, 1, logs.FilterMessage("copy to clipboard failed").Len())

	// a failure while copied does not clear the indicator
	w.err = nil
	require.NoError(t, a.Copy(context.Background(), "x"))
	w.err = errors.New("again")
	require.Error(t, a.Copy(context.Background(), "x"))
	assert.True(t, a.Copied())
}

func TestCloseStopsRevert(t *testing.T) {
	clock := &fakeClock{}
	defer clock.stopAll()

	a := NewAction(&fakeWriter{}, WithAfterFunc(clock.AfterFunc))
	require.NoError(t, a.Copy(context.Background(), "x"))
	a.Close()

	clock.fire(0)
	assert.True(t, a.Copied(), "revert after close is ignored")
}

func TestRealTimerReverts(t *testing.T) {
	a := NewAction(&fakeWriter{}, WithRevertAfter(10*time.Millisecond))
	defer a.Close()

	done := make(chan bool, 2)
	a.OnChange(func(copied bool) { done <- copied })

	require.NoError(t, a.Copy(context.Background(), "x"))
	assert.True(t, <-done)
	select {
	case copied := <-done:
		assert.False(t, copied)
	case <-time.After(time.Second):
		t.Fatal("indicator did not revert")
	}
}

// =============================================================================
// BOARD TESTS
// =============================================================================

func TestBoardKeepsActionsPerID(t *testing.T) {
	clock := &fakeClock{}
	defer clock.stopAll()

	b := NewBoard(&fakeWriter{}, WithAfterFunc(clock.AfterFunc))
	defer b.Close()

	var events []string
	b.OnChange(func(id string, copied bool) {
		if copied {
			events = append(events, id+":on")
		} else {
			events = append(events, id+":off")
		}
	})

	require.NoError(t, b.Copy(context.Background(), "a", "one"))
	assert.True(t, b.Copied("a"))
	assert.False(t, b.Copied("b"))
	assert.Same(t, b.Action("a"), b.Action("a"))

	clock.fire(0)
	assert.False(t, b.Copied("a"))
	assert.Equal(t, []string{"a:on", "a:off"}, events)
}

func TestBoardRetain(t *testing.T) {
	b := NewBoard(&fakeWriter{})
	defer b.Close()

	first := b.Action("a")
	b.Action("b")
	b.Retain([]string{"b"})

	assert.NotSame(t, first, b.Action("a"))
}

// =============================================================================
// SYSTEM WRITER TESTS
// =============================================================================

func TestSystemWriterCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := &SystemWriter{Terminal: &bytes.Buffer{}}
	assert.ErrorIs(t, w.Write(ctx, "x"), context.Canceled)
}

func TestWriterFunc(t *testing.T) {
	var got string
	w := WriterFunc(func(_ context.Context, text string) error {
		got = text
		return nil
	})
	require.NoError(t, w.Write(context.Background(), "hi"))
	assert.Equal(t, "hi", got)
}
