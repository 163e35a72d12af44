package actor

import (
	"sync"
	"time"
)

// Timer wraps one callback/duration pair and, internally, at most one
// scheduled job. There are no repeat semantics; re-arming is always
// explicit.
type Timer struct {
	jobs Jobs
	d    time.Duration
	fn   func()

	mu    sync.Mutex
	id    JobID
	armed bool
}

// Start arms the timer, cancelling any job armed earlier: calling Start
// while already running resets the deadline from the call moment. The
// deadline is validated here, at the arming moment.
func (t *Timer) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.armed {
		t.jobs.Remove(t.id)
		t.armed = false
	}

	id, err := t.jobs.Once(t.d, t.fn)
	if err != nil {
		return err
	}
	t.id = id
	t.armed = true
	return nil
}

// Stop cancels the underlying job if present. Stopping an inactive timer is
// a no-op, as is stopping after the job already fired.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.armed {
		t.jobs.Remove(t.id)
		t.armed = false
	}
}
