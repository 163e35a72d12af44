package actor

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Under publish load exceeding single-worker throughput the pool grows;
// after load ceases for the cooldown window it shrinks back to the minimum.
func TestPool_growsUnderLoadAndShrinksAfter(t *testing.T) {
	sys := newTestSystem(t, PoolOptions{
		MinWorkers:    1,
		MaxWorkers:    4,
		GrowThreshold: 1,
		GrowInterval:  10 * time.Millisecond,
		GrowAfter:     2,
		IdleCooldown:  50 * time.Millisecond,
	})

	const actors = 8
	var handled atomic.Int32
	for i := 0; i < actors; i++ {
		a, err := sys.Spawn("worker-" + string(rune('a'+i)))
		require.NoError(t, err)
		Subscribe(a, func(loadMsg) {
			time.Sleep(20 * time.Millisecond)
			handled.Add(1)
		})
	}

	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
				sys.Publish(loadMsg{}) // fan-out: one invocation per actor
				time.Sleep(5 * time.Millisecond)
			}
		}
	}()

	require.Eventually(t, func() bool {
		return sys.Stats().Workers > 1
	}, 5*time.Second, 10*time.Millisecond, "pool never grew under load")

	close(stop)

	require.Eventually(t, func() bool {
		return sys.Stats().Workers == 1
	}, 5*time.Second, 10*time.Millisecond, "pool never shrank back to minimum")

	assert.Positive(t, handled.Load())
}

func TestPool_neverExceedsMax(t *testing.T) {
	sys := newTestSystem(t, PoolOptions{
		MinWorkers:    1,
		MaxWorkers:    2,
		GrowThreshold: 1,
		GrowInterval:  5 * time.Millisecond,
		GrowAfter:     1,
		IdleCooldown:  time.Second,
	})

	for i := 0; i < 16; i++ {
		a, err := sys.Spawn("a-" + string(rune('a'+i)))
		require.NoError(t, err)
		Subscribe(a, func(loadMsg) { time.Sleep(10 * time.Millisecond) })
	}

	for i := 0; i < 50; i++ {
		sys.Publish(loadMsg{})
	}

	deadline := time.After(500 * time.Millisecond)
	for {
		select {
		case <-deadline:
			return
		default:
			require.LessOrEqual(t, sys.Stats().Workers, 2)
			time.Sleep(5 * time.Millisecond)
		}
	}
}

func TestStats_snapshot(t *testing.T) {
	sys := newTestSystem(t, PoolOptions{MinWorkers: 2, MaxWorkers: 2})

	a, err := sys.Spawn("alpha")
	require.NoError(t, err)
	_, err = sys.Spawn("beta")
	require.NoError(t, err)

	var count atomic.Int32
	Subscribe(a, func(seqMsg) { count.Add(1) })

	a.Publish(seqMsg{N: 1})
	a.Publish(seqMsg{N: 2})
	sys.Publish(pingMsg{}) // no subscribers: dropped

	require.Eventually(t, func() bool { return count.Load() == 2 }, 2*time.Second, time.Millisecond)

	st := sys.Stats()
	assert.Equal(t, "test", st.System)
	assert.Equal(t, 2, st.Workers)
	assert.Equal(t, uint64(1), st.Dropped)
	assert.Equal(t, uint64(2), st.Published[msgTypeFor[seqMsg]()])

	require.Len(t, st.Actors, 2)
	assert.Equal(t, "alpha", st.Actors[0].Name)
	assert.Equal(t, "beta", st.Actors[1].Name)
}

func TestMailbox_admissionProtocol(t *testing.T) {
	m := newMailbox("x")

	inv := invocation{kind: "t", fn: func() {}}

	depth, admit := m.enqueue(inv)
	assert.Equal(t, 1, depth)
	assert.True(t, admit, "idle mailbox must request admission")

	_, admit = m.enqueue(inv)
	assert.False(t, admit, "already-admitted mailbox must not be admitted twice")

	got, ok := m.take()
	require.True(t, ok)
	assert.Equal(t, "t", got.kind)

	_, ok = m.take()
	assert.False(t, ok, "busy mailbox must refuse a second take")

	_, admit = m.enqueue(inv)
	assert.False(t, admit, "busy mailbox must not request admission")

	depth, readmit := m.complete()
	assert.Equal(t, 2, depth)
	assert.True(t, readmit, "non-empty mailbox must be re-admitted on completion")

	_, ok = m.take()
	require.True(t, ok)
	_, ok = m.take()
	assert.False(t, ok)
	m.complete()

	_, ok = m.take()
	require.True(t, ok)
	depth, readmit = m.complete()
	assert.Zero(t, depth)
	assert.False(t, readmit, "drained mailbox must go idle")
}

func TestMailbox_fifo(t *testing.T) {
	m := newMailbox("x")
	for i := 0; i < 5; i++ {
		n := i
		m.enqueue(invocation{kind: "t", fn: func() { _ = n }})
	}
	assert.Equal(t, 5, m.depth())

	for i := 0; i < 5; i++ {
		_, ok := m.take()
		require.True(t, ok)
		m.complete()
	}
	assert.Zero(t, m.depth())
}
