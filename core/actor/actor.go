package actor

import (
	"log/slog"
	"time"
)

// Actor is a unit with its own serialized execution stream, identified by a
// unique name. It composes narrow capabilities: a mailbox, the system's
// message bus, the scheduler, and a logger. Actors live for the process
// lifetime; there is no teardown beyond stopping the system.
type Actor struct {
	name    string
	log     *slog.Logger
	mailbox *mailbox
	sys     *System
}

// Name returns the actor's unique name.
func (a *Actor) Name() string { return a.name }

// Log returns the actor's logger, tagged with its name.
func (a *Actor) Log() *slog.Logger { return a.log }

// Publish delivers msg to every subscriber of its runtime type. It never
// blocks and never rejects under backlog; with zero subscribers the message
// is dropped.
func (a *Actor) Publish(msg any) { a.sys.Publish(msg) }

// Jobs returns the actor-bound scheduling capability.
func (a *Actor) Jobs() Jobs { return actorJobs{a: a, s: a.sys.sched} }

// Timer creates a stopped timer whose callback runs through the actor's
// mailbox after d once started.
func (a *Actor) Timer(d time.Duration, fn func()) *Timer {
	return &Timer{jobs: a.Jobs(), d: d, fn: fn}
}

// Subscribe registers fn for messages of type M delivered to a. The type
// token is established here, once; publishing resolves it with a cached
// lookup. The callback runs serialized with all of a's other invocations.
func Subscribe[M any](a *Actor, fn func(M)) *Subscription {
	token := msgTypeFor[M]()
	return a.sys.registry.subscribe(token, a, func(msg any) {
		fn(msg.(M))
	})
}

// Stream subscribes a to messages of type M and exposes them as a channel
// with the given buffer. When the buffer is full, messages are dropped
// rather than blocking the actor's callback. Cancel the returned
// subscription to stop the stream.
func Stream[M any](a *Actor, buf int) (<-chan M, *Subscription) {
	ch := make(chan M, buf)
	sub := Subscribe(a, func(msg M) {
		select {
		case ch <- msg:
		default:
		}
	})
	return ch, sub
}
