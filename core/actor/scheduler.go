package actor

import (
	"container/heap"
	"context"
	"strconv"
	"sync"
	"time"
)

// JobID identifies a scheduled job. IDs are unique for the scheduler's
// lifetime and never reused.
type JobID uint64

// Jobs is the scheduling capability bound to one actor. Fired jobs are
// routed through the actor's mailbox, so they share the ordering and
// serialization guarantees of message delivery.
type Jobs interface {
	// Once schedules fn to run once after delay. A negative delay is
	// rejected with ErrInvalidDelay; zero fires as soon as possible.
	Once(delay time.Duration, fn func()) (JobID, error)
	// Repeat schedules fn to run every interval. Occurrences are anchored
	// to the original deadline, not to completion time, so load does not
	// accumulate drift. A non-positive interval is rejected with
	// ErrInvalidInterval.
	Repeat(interval time.Duration, fn func()) (JobID, error)
	// Remove cancels a pending job. Removing an unknown or already-fired
	// id is a no-op. Cancellation is best-effort: a Remove racing with an
	// in-flight fire may allow exactly one more firing.
	Remove(id JobID)
}

type job struct {
	id       JobID
	at       time.Time
	interval time.Duration
	repeat   bool
	fn       func()
	actor    *Actor
	index    int // heap position
}

// jobQueue is a min-heap ordered by absolute fire time, ties by id.
type jobQueue []*job

func (q jobQueue) Len() int { return len(q) }

func (q jobQueue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].id < q[j].id
	}
	return q[i].at.Before(q[j].at)
}

func (q jobQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *jobQueue) Push(x any) {
	j := x.(*job)
	j.index = len(*q)
	*q = append(*q, j)
}

func (q *jobQueue) Pop() any {
	old := *q
	n := len(old)
	j := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return j
}

// scheduler owns the time-ordered job set. A single goroutine sleeps until
// the earliest deadline (or a wakeup after a mutation) and, on fire, hands
// the job's invocation to the dispatcher via the owning actor's mailbox.
// It never runs a callback directly.
type scheduler struct {
	ctx     context.Context
	metrics Metrics
	deliver func(invocation)

	mu     sync.Mutex
	queue  jobQueue
	byID   map[JobID]*job
	lastID JobID

	wake chan struct{}
}

func newScheduler(ctx context.Context, m Metrics, deliver func(invocation)) *scheduler {
	return &scheduler{
		ctx:     ctx,
		metrics: m,
		deliver: deliver,
		byID:    make(map[JobID]*job),
		wake:    make(chan struct{}, 1),
	}
}

func (s *scheduler) once(a *Actor, delay time.Duration, fn func()) (JobID, error) {
	if delay < 0 {
		return 0, ErrInvalidDelay
	}
	return s.add(a, time.Now().Add(delay), 0, false, fn)
}

func (s *scheduler) repeat(a *Actor, interval time.Duration, fn func()) (JobID, error) {
	if interval <= 0 {
		return 0, ErrInvalidInterval
	}
	return s.add(a, time.Now().Add(interval), interval, true, fn)
}

func (s *scheduler) add(a *Actor, at time.Time, interval time.Duration, repeat bool, fn func()) (JobID, error) {
	if err := s.ctx.Err(); err != nil {
		return 0, ErrSystemStopped
	}

	s.mu.Lock()
	s.lastID++
	j := &job{
		id:       s.lastID,
		at:       at,
		interval: interval,
		repeat:   repeat,
		fn:       fn,
		actor:    a,
	}
	s.byID[j.id] = j
	heap.Push(&s.queue, j)
	pending := len(s.queue)
	s.mu.Unlock()

	s.metrics.JobsPending(pending)
	s.nudge()
	return j.id, nil
}

func (s *scheduler) remove(id JobID) {
	s.mu.Lock()
	j, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.byID, id)
	heap.Remove(&s.queue, j.index)
	pending := len(s.queue)
	s.mu.Unlock()

	s.metrics.JobsPending(pending)
	s.nudge()
}

func (s *scheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *scheduler) nudge() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *scheduler) run() {
	for {
		s.mu.Lock()
		var wait time.Duration
		hasJob := len(s.queue) > 0
		if hasJob {
			wait = time.Until(s.queue[0].at)
		}
		s.mu.Unlock()

		if !hasJob {
			select {
			case <-s.ctx.Done():
				return
			case <-s.wake:
				continue
			}
		}

		if wait > 0 {
			t := time.NewTimer(wait)
			select {
			case <-s.ctx.Done():
				t.Stop()
				return
			case <-s.wake:
				t.Stop()
				continue
			case <-t.C:
			}
		}

		s.fireDue(time.Now())
	}
}

// fireDue pops every job whose deadline has passed and enqueues its
// invocation. Repeating jobs reschedule anchored to the original deadline;
// when more than one interval has been missed, the deadline jumps to the
// latest overdue anchor, so at most one catch-up firing is emitted per
// overdue window.
func (s *scheduler) fireDue(now time.Time) {
	var due []invocation

	s.mu.Lock()
	for len(s.queue) > 0 && !s.queue[0].at.After(now) {
		j := heap.Pop(&s.queue).(*job)
		due = append(due, invocation{
			actor: j.actor,
			kind:  "job/" + strconv.FormatUint(uint64(j.id), 10),
			fn:    j.fn,
		})

		if !j.repeat {
			delete(s.byID, j.id)
			continue
		}

		next := j.at.Add(j.interval)
		if now.Sub(next) >= j.interval {
			elapsed := now.Sub(j.at)
			next = j.at.Add(elapsed / j.interval * j.interval)
		}
		j.at = next
		heap.Push(&s.queue, j)
	}
	pending := len(s.queue)
	s.mu.Unlock()

	s.metrics.JobsPending(pending)
	for _, inv := range due {
		s.deliver(inv)
	}
}

// actorJobs binds the scheduler to one actor.
type actorJobs struct {
	a *Actor
	s *scheduler
}

func (j actorJobs) Once(delay time.Duration, fn func()) (JobID, error) {
	return j.s.once(j.a, delay, fn)
}

func (j actorJobs) Repeat(interval time.Duration, fn func()) (JobID, error) {
	return j.s.repeat(j.a, interval, fn)
}

func (j actorJobs) Remove(id JobID) { j.s.remove(id) }

var _ Jobs = actorJobs{}
