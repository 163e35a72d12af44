package actor

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimer_firesAfterDuration(t *testing.T) {
	sys := newTestSystem(t, PoolOptions{})
	a, err := sys.Spawn("a")
	require.NoError(t, err)

	const d = 50 * time.Millisecond

	fired := make(chan time.Duration, 1)
	start := time.Now()
	tm := a.Timer(d, func() { fired <- time.Since(start) })
	require.NoError(t, tm.Start())

	select {
	case elapsed := <-fired:
		require.GreaterOrEqual(t, elapsed, d)
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
}

// Starting twice before the first deadline elapses yields exactly one
// firing, timed from the second call.
func TestTimer_restartResetsDeadline(t *testing.T) {
	sys := newTestSystem(t, PoolOptions{})
	a, err := sys.Spawn("a")
	require.NoError(t, err)

	const d = 80 * time.Millisecond

	var count atomic.Int32
	fired := make(chan time.Time, 2)
	tm := a.Timer(d, func() {
		count.Add(1)
		fired <- time.Now()
	})

	require.NoError(t, tm.Start())
	time.Sleep(d / 2)
	restart := time.Now()
	require.NoError(t, tm.Start())

	select {
	case at := <-fired:
		require.GreaterOrEqual(t, at.Sub(restart), d, "deadline not reset by restart")
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}

	time.Sleep(2 * d)
	assert.Equal(t, int32(1), count.Load(), "restart must collapse to one firing")
}

func TestTimer_stopPreventsFiring(t *testing.T) {
	sys := newTestSystem(t, PoolOptions{})
	a, err := sys.Spawn("a")
	require.NoError(t, err)

	var count atomic.Int32
	tm := a.Timer(50*time.Millisecond, func() { count.Add(1) })
	require.NoError(t, tm.Start())
	tm.Stop()

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(0), count.Load())
}

func TestTimer_stopInactiveIsNoop(t *testing.T) {
	sys := newTestSystem(t, PoolOptions{})
	a, err := sys.Spawn("a")
	require.NoError(t, err)

	tm := a.Timer(time.Millisecond, func() {})
	tm.Stop()
	tm.Stop()
}

func TestTimer_restartAfterFire(t *testing.T) {
	sys := newTestSystem(t, PoolOptions{})
	a, err := sys.Spawn("a")
	require.NoError(t, err)

	fired := make(chan struct{}, 2)
	tm := a.Timer(20*time.Millisecond, func() { fired <- struct{}{} })

	require.NoError(t, tm.Start())
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("first firing missing")
	}

	require.NoError(t, tm.Start())
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("second firing missing")
	}
}
