package sched

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock hands out tickers that fire only when the test says so.
type fakeClock struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (c *fakeClock) Now() time.Time { return time.Unix(0, 0) }

func (c *fakeClock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time, 1)}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *fakeClock) tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tickers {
		if !t.stopped {
			t.ch <- time.Unix(0, 0)
		}
	}
}

func (c *fakeClock) live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.tickers {
		if !t.stopped {
			n++
		}
	}
	return n
}

type fakeTicker struct {
	ch      chan time.Time
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }
func (t *fakeTicker) Stop()               { t.stopped = true }

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestSchedulerFiresImmediatelyAndOnTicks(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{}
	var fires atomic.Int64
	s := New(clock, func() { fires.Add(1) })

	s.Start(time.Second)
	waitFor(t, func() bool { return fires.Load() == 1 })

	clock.tick()
	waitFor(t, func() bool { return fires.Load() == 2 })
	clock.tick()
	waitFor(t, func() bool { return fires.Load() == 3 })

	s.Stop()
	assert.False(t, s.Running())
}

func TestSchedulerRestartDoesNotDuplicate(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{}
	var fires atomic.Int64
	s := New(clock, func() { fires.Add(1) })

	s.Start(time.Second)
	waitFor(t, func() bool { return fires.Load() == 1 })
	s.Start(time.Second)
	waitFor(t, func() bool { return fires.Load() == 2 })

	// The first loop's ticker must be dead; only one live ticker remains.
	require.Equal(t, 1, clock.live())

	before := fires.Load()
	clock.tick()
	waitFor(t, func() bool { return fires.Load() == before+1 })

	s.Stop()
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{}
	s := New(clock, func() {})

	s.Stop() // never started
	s.Start(time.Second)
	s.Stop()
	s.Stop()
	assert.False(t, s.Running())
	assert.Equal(t, 0, clock.live())
}

func TestSchedulerRestartAfterStop(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{}
	var fires atomic.Int64
	s := New(clock, func() { fires.Add(1) })

	s.Start(time.Second)
	s.Stop()
	n := fires.Load()

	s.Start(time.Second)
	waitFor(t, func() bool { return fires.Load() == n+1 })
	assert.True(t, s.Running())
	s.Stop()
}
