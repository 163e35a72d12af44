package actor

import "sync"

// Subscription is a handle to one (message type, actor, callback) binding.
type Subscription struct {
	reg   *registry
	token string
	id    uint64
	once  sync.Once
}

// Cancel removes the subscription. Further publishes of the message type no
// longer reach the callback; invocations already enqueued still run.
// Cancel is idempotent.
func (s *Subscription) Cancel() {
	s.once.Do(func() { s.reg.unsubscribe(s.token, s.id) })
}

type handlerEntry struct {
	id    uint64
	actor *Actor
	fn    func(any)
}

// registry maps message type tokens to subscriber lists. Subscriptions are
// set up mostly at actor construction, publish is the hot path: subscriber
// slices are copy-on-write so a publish only takes a read lock for the map
// lookup and iterates a stable snapshot.
type registry struct {
	deliver func(invocation)

	mu     sync.RWMutex
	subs   map[string][]handlerEntry
	nextID uint64
}

func newRegistry(deliver func(invocation)) *registry {
	return &registry{
		deliver: deliver,
		subs:    make(map[string][]handlerEntry),
	}
}

func (r *registry) subscribe(token string, a *Actor, fn func(any)) *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID

	old := r.subs[token]
	next := make([]handlerEntry, len(old), len(old)+1)
	copy(next, old)
	r.subs[token] = append(next, handlerEntry{id: id, actor: a, fn: fn})

	return &Subscription{reg: r, token: token, id: id}
}

func (r *registry) unsubscribe(token string, id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.subs[token]
	next := make([]handlerEntry, 0, len(old))
	for _, h := range old {
		if h.id != id {
			next = append(next, h)
		}
	}
	if len(next) == 0 {
		delete(r.subs, token)
		return
	}
	r.subs[token] = next
}

// publish enqueues one invocation per subscriber of the message's type
// token and returns the fan-out count. It never executes a callback inline,
// even when called from inside a running invocation, preserving per-actor
// serialization. Zero subscribers is not an error; the message is dropped.
func (r *registry) publish(token string, msg any) int {
	r.mu.RLock()
	hs := r.subs[token]
	r.mu.RUnlock()

	for _, h := range hs {
		fn := h.fn
		r.deliver(invocation{
			actor: h.actor,
			kind:  token,
			fn:    func() { fn(msg) },
		})
	}
	return len(hs)
}
