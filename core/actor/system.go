package actor

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// PoolOptions configures the dispatcher's worker sizing policy.
type PoolOptions struct {
	// MinWorkers is the pool's floor. Defaults to runtime.NumCPU().
	MinWorkers int
	// MaxWorkers caps growth. Defaults to 4x MinWorkers. Backlog beyond
	// the cap surfaces only as latency, never as a hard failure.
	MaxWorkers int
	// GrowThreshold is the ready-set depth that counts toward growth.
	// Defaults to 4.
	GrowThreshold int
	// GrowInterval is the monitor's sampling period. Defaults to 50ms.
	GrowInterval time.Duration
	// GrowAfter is how many consecutive samples must exceed the
	// threshold before one worker is added. Defaults to 2.
	GrowAfter int
	// IdleCooldown is how long a worker beyond MinWorkers may sit
	// without work before retiring. Defaults to 1s.
	IdleCooldown time.Duration
}

// Options configures a System. The zero value is usable.
type Options struct {
	// Name identifies the system in logs. Generated when empty.
	Name string
	// Context bounds the system's lifetime. Defaults to Background.
	Context context.Context
	// Logger receives dispatch errors and pool-resize events.
	// Defaults to slog.Default().
	Logger *slog.Logger
	// Metrics receives runtime counters. Defaults to NopMetrics().
	Metrics Metrics
	// Pool is the worker sizing policy.
	Pool PoolOptions
}

func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = "actors-" + gonanoid.Must(6)
	}
	if o.Context == nil {
		o.Context = context.Background()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Metrics == nil {
		o.Metrics = NopMetrics()
	}
	if o.Pool.MinWorkers <= 0 {
		o.Pool.MinWorkers = runtime.NumCPU()
	}
	if o.Pool.MaxWorkers <= 0 {
		o.Pool.MaxWorkers = 4 * o.Pool.MinWorkers
	}
	if o.Pool.MaxWorkers < o.Pool.MinWorkers {
		o.Pool.MaxWorkers = o.Pool.MinWorkers
	}
	if o.Pool.GrowThreshold <= 0 {
		o.Pool.GrowThreshold = 4
	}
	if o.Pool.GrowInterval <= 0 {
		o.Pool.GrowInterval = 50 * time.Millisecond
	}
	if o.Pool.GrowAfter <= 0 {
		o.Pool.GrowAfter = 2
	}
	if o.Pool.IdleCooldown <= 0 {
		o.Pool.IdleCooldown = time.Second
	}
	return o
}

// System owns the message registry, the dispatcher/worker pool, and the
// scheduler. All actors spawned from one system share them.
type System struct {
	name    string
	log     *slog.Logger
	metrics Metrics

	ctx    context.Context
	cancel context.CancelFunc

	registry *registry
	pool     *pool
	sched    *scheduler

	mu     sync.Mutex
	actors map[string]*Actor

	published sync.Map // msg type token -> *atomic.Uint64
	dropped   atomic.Uint64

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewSystem creates and starts a system: the worker pool comes up at its
// configured minimum and the scheduler loop begins waiting for jobs.
func NewSystem(opts Options) *System {
	opts = opts.withDefaults()

	ctx, cancel := context.WithCancel(opts.Context)
	s := &System{
		name:    opts.Name,
		log:     opts.Logger.With(slog.String("system", opts.Name)),
		metrics: opts.Metrics,
		ctx:     ctx,
		cancel:  cancel,
		actors:  make(map[string]*Actor),
	}

	s.registry = newRegistry(s.deliver)
	s.pool = newPool(ctx, s.log, opts.Metrics, opts.Pool)
	s.sched = newScheduler(ctx, opts.Metrics, s.deliver)

	s.pool.start()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.sched.run()
	}()

	s.log.Debug("system started",
		slog.Int("min_workers", opts.Pool.MinWorkers),
		slog.Int("max_workers", opts.Pool.MaxWorkers),
	)
	return s
}

// Spawn creates an actor with a unique name; a generated name is used when
// empty. Spawning a taken name fails with ErrActorExists.
func (s *System) Spawn(name string) (*Actor, error) {
	if err := s.ctx.Err(); err != nil {
		return nil, ErrSystemStopped
	}
	if name == "" {
		name = "actor-" + gonanoid.Must(6)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.actors[name]; ok {
		return nil, ErrActorExists
	}

	a := &Actor{
		name:    name,
		log:     s.log.With(slog.String("actor", name)),
		mailbox: newMailbox(name),
		sys:     s,
	}
	s.actors[name] = a
	return a, nil
}

// Publish delivers msg to every subscriber of its runtime type, enqueuing
// one invocation per subscriber mailbox. It never blocks.
func (s *System) Publish(msg any) {
	token := msgTypeOf(msg)
	s.metrics.MessagePublished(token)
	s.countPublish(token)

	if n := s.registry.publish(token, msg); n == 0 {
		s.dropped.Add(1)
	}
}

// deliver enqueues one invocation into its actor's mailbox and, when the
// mailbox turned ready, admits it to the dispatcher.
func (s *System) deliver(inv invocation) {
	depth, admit := inv.actor.mailbox.enqueue(inv)
	s.metrics.MailboxDepth(inv.actor.name, depth)
	if admit {
		s.pool.admit(inv.actor.mailbox)
	}
}

func (s *System) countPublish(token string) {
	c, ok := s.published.Load(token)
	if !ok {
		c, _ = s.published.LoadOrStore(token, new(atomic.Uint64))
	}
	c.(*atomic.Uint64).Add(1)
}

// Stop shuts the system down: no new work is dispatched, in-flight
// invocations run to completion, the queued backlog is abandoned, and Stop
// returns once all workers and the scheduler have exited. Stop is
// idempotent.
func (s *System) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		s.pool.wait()
		s.wg.Wait()
		s.log.Debug("system stopped")
	})
}

// Done is closed when the system's context ends.
func (s *System) Done() <-chan struct{} { return s.ctx.Done() }
