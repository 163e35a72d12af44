package actor

import (
	"sort"
	"sync/atomic"
)

// ActorStats is the per-actor slice of a stats snapshot.
type ActorStats struct {
	Name         string `json:"name"`
	MailboxDepth int    `json:"mailbox_depth"`
}

// Stats is a read-only snapshot of the runtime, suitable for a monitoring
// page. Values are sampled independently and may be mutually inconsistent
// under load.
type Stats struct {
	System      string            `json:"system"`
	Workers     int               `json:"workers"`
	Ready       int               `json:"ready"`
	PendingJobs int               `json:"pending_jobs"`
	Dropped     uint64            `json:"dropped"`
	Published   map[string]uint64 `json:"published"`
	Actors      []ActorStats      `json:"actors"`
}

// Stats samples the current state of the system.
func (s *System) Stats() Stats {
	st := Stats{
		System:      s.name,
		Workers:     s.pool.workerCount(),
		Ready:       s.pool.readyDepth(),
		PendingJobs: s.sched.pending(),
		Dropped:     s.dropped.Load(),
		Published:   make(map[string]uint64),
	}

	s.published.Range(func(k, v any) bool {
		st.Published[k.(string)] = v.(*atomic.Uint64).Load()
		return true
	})

	s.mu.Lock()
	for name, a := range s.actors {
		st.Actors = append(st.Actors, ActorStats{
			Name:         name,
			MailboxDepth: a.mailbox.depth(),
		})
	}
	s.mu.Unlock()

	sort.Slice(st.Actors, func(i, j int) bool { return st.Actors[i].Name < st.Actors[j].Name })
	return st
}
