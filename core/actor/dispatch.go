package actor

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// pool is the dispatcher: it matches idle workers to mailboxes with pending
// work and owns the sizing policy. The ready set is a FIFO of mailboxes so
// actors make progress in admission order.
//
// Sizing: the pool starts at MinWorkers. A monitor observes the ready-set
// depth every GrowInterval; when it stays above GrowThreshold for GrowAfter
// consecutive ticks, one worker is added, up to MaxWorkers. A worker beyond
// the minimum that finds no work for IdleCooldown retires. Resizing only
// changes how many distinct actors progress concurrently; it never affects
// the per-actor single-flight guarantee.
type pool struct {
	ctx     context.Context
	log     *slog.Logger
	metrics Metrics
	opts    PoolOptions

	mu       sync.Mutex
	ready    []*mailbox
	workers  int
	workerID int

	wake chan struct{}
	wg   sync.WaitGroup
}

func newPool(ctx context.Context, log *slog.Logger, m Metrics, opts PoolOptions) *pool {
	return &pool{
		ctx:     ctx,
		log:     log,
		metrics: m,
		opts:    opts,
		wake:    make(chan struct{}, 1),
	}
}

func (p *pool) start() {
	p.mu.Lock()
	for i := 0; i < p.opts.MinWorkers; i++ {
		p.spawnLocked()
	}
	p.mu.Unlock()

	p.wg.Add(1)
	go p.monitor()
}

// wait blocks until all workers and the monitor have exited.
func (p *pool) wait() { p.wg.Wait() }

// admit adds a mailbox to the ready set and wakes a worker. The caller must
// have won the mailbox's admitted flag; a mailbox is never queued twice.
func (p *pool) admit(m *mailbox) {
	p.mu.Lock()
	p.ready = append(p.ready, m)
	depth := len(p.ready)
	p.nudgeLocked()
	p.mu.Unlock()

	p.metrics.ReadyDepth(depth)
}

func (p *pool) readyDepth() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.ready)
}

func (p *pool) workerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.workers
}

// nudgeLocked signals one waiting worker without blocking.
func (p *pool) nudgeLocked() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *pool) spawnLocked() {
	p.workers++
	p.workerID++
	p.metrics.WorkerCount(p.workers)
	p.wg.Add(1)
	go p.worker(p.workerID)
}

func (p *pool) worker(id int) {
	defer p.wg.Done()
	for {
		m, ok := p.next()
		if !ok {
			return
		}
		inv, ok := m.take()
		if !ok {
			continue
		}
		p.run(inv)
		depth, readmit := m.complete()
		p.metrics.MailboxDepth(m.owner, depth)
		if readmit {
			p.admit(m)
		}
	}
}

// next blocks until a ready mailbox is available. It returns false when the
// system stops or the worker retires after IdleCooldown without work.
// Cancellation is checked before the ready set, so a stopped pool abandons
// its queued backlog rather than draining it.
func (p *pool) next() (*mailbox, bool) {
	for {
		if p.ctx.Err() != nil {
			p.mu.Lock()
			p.workers--
			p.metrics.WorkerCount(p.workers)
			p.mu.Unlock()
			return nil, false
		}

		p.mu.Lock()
		if len(p.ready) > 0 {
			m := p.ready[0]
			p.ready[0] = nil
			p.ready = p.ready[1:]
			if len(p.ready) > 0 {
				p.nudgeLocked()
			}
			depth := len(p.ready)
			p.mu.Unlock()
			p.metrics.ReadyDepth(depth)
			return m, true
		}
		p.mu.Unlock()

		idle := time.NewTimer(p.opts.IdleCooldown)
		select {
		case <-p.ctx.Done():
			idle.Stop()
			p.mu.Lock()
			p.workers--
			p.metrics.WorkerCount(p.workers)
			p.mu.Unlock()
			return nil, false
		case <-p.wake:
			idle.Stop()
		case <-idle.C:
			if p.tryRetire() {
				return nil, false
			}
		}
	}
}

// tryRetire removes one worker slot if the pool is above its minimum.
func (p *pool) tryRetire() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.workers <= p.opts.MinWorkers {
		return false
	}
	p.workers--
	p.metrics.WorkerCount(p.workers)
	p.log.Info("worker retired",
		slog.Int("workers", p.workers),
		slog.Duration("cooldown", p.opts.IdleCooldown),
	)
	return true
}

// run executes one invocation to completion. Any failure is caught here,
// reported with actor identity and invocation context, and never
// propagated: the worker and the dispatcher keep running.
func (p *pool) run(inv invocation) {
	defer p.metrics.InvocationDuration(inv.kind).ObserveDuration()
	defer func() {
		if r := recover(); r != nil {
			p.metrics.InvocationPanic(inv.kind)
			p.metrics.InvocationProcessed(inv.kind, false)
			p.log.Error("invocation panicked",
				slog.String("actor", inv.actor.name),
				slog.String("invocation", inv.kind),
				slog.Any("recovered", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	inv.fn()
	p.metrics.InvocationProcessed(inv.kind, true)
}

// monitor grows the pool when the ready set stays deep. There is no
// backpressure on publish; a backlog beyond MaxWorkers surfaces only as
// latency.
func (p *pool) monitor() {
	defer p.wg.Done()

	tick := time.NewTicker(p.opts.GrowInterval)
	defer tick.Stop()

	streak := 0
	for {
		select {
		case <-p.ctx.Done():
			return
		case <-tick.C:
		}

		depth := p.readyDepth()
		p.metrics.ReadyDepth(depth)
		if depth <= p.opts.GrowThreshold {
			streak = 0
			continue
		}
		streak++
		if streak < p.opts.GrowAfter {
			continue
		}
		streak = 0

		p.mu.Lock()
		if p.workers < p.opts.MaxWorkers {
			p.spawnLocked()
			p.log.Info("worker pool grew",
				slog.Int("workers", p.workers),
				slog.Int("ready", depth),
			)
		}
		p.mu.Unlock()
	}
}
