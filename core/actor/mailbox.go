package actor

import "sync"

// invocation is one unit of work: a bound callback plus what triggered it.
// It is queued in exactly one actor's mailbox.
type invocation struct {
	actor *Actor
	kind  string // message type token or "job/<id>"
	fn    func()
}

// mailbox is a per-actor FIFO of pending invocations plus idle/busy state.
// At most one invocation per mailbox is in flight at any instant: a worker
// marks the mailbox busy via take, and only complete clears it.
//
// The admitted flag tracks membership in the dispatcher's ready set so a
// mailbox is never queued there twice. All critical sections are short and
// O(1) amortized; no user code runs under the lock.
type mailbox struct {
	owner string

	mu       sync.Mutex
	queue    []invocation
	head     int
	busy     bool
	admitted bool
}

func newMailbox(owner string) *mailbox {
	return &mailbox{owner: owner}
}

// enqueue appends inv. It always succeeds. The returned admit flag is true
// when the mailbox transitioned from idle to ready and must be handed to
// the dispatcher.
func (m *mailbox) enqueue(inv invocation) (depth int, admit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queue = append(m.queue, inv)
	depth = len(m.queue) - m.head

	if !m.busy && !m.admitted {
		m.admitted = true
		admit = true
	}
	return depth, admit
}

// take pops the next invocation and marks the mailbox busy. It returns
// false if the mailbox is already busy or has nothing pending.
func (m *mailbox) take() (invocation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.admitted = false
	if m.busy || m.head == len(m.queue) {
		return invocation{}, false
	}

	inv := m.queue[m.head]
	m.queue[m.head] = invocation{}
	m.head++
	if m.head == len(m.queue) {
		m.queue = m.queue[:0]
		m.head = 0
	}

	m.busy = true
	return inv, true
}

// complete marks the mailbox idle again. If more work is pending it flags
// itself admitted and reports that the dispatcher must re-admit it; the
// worker must not loop on the same mailbox, to preserve fairness across
// actors.
func (m *mailbox) complete() (depth int, readmit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.busy = false
	depth = len(m.queue) - m.head
	if depth > 0 && !m.admitted {
		m.admitted = true
		readmit = true
	}
	return depth, readmit
}

// depth returns the number of pending invocations.
func (m *mailbox) depth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue) - m.head
}
