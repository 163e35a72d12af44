// Package actor provides a single-process actor runtime: independent actors
// communicate exclusively through typed messages, and a shared dispatcher
// guarantees that each actor's callbacks execute one at a time, in arrival
// order, while different actors progress in parallel.
//
// # Creating a System
//
// A [System] owns the message registry, the worker pool, and the scheduler.
// Actors are spawned from it by unique name:
//
//	sys := actor.NewSystem(actor.Options{})
//	defer sys.Stop()
//
//	door, err := sys.Spawn("door")
//
// # Messages
//
// Subscriptions are established with a type token derived once from the
// message's Go type. Publishing resolves subscribers of the message's
// runtime type and enqueues one invocation per subscriber mailbox; it never
// runs a callback inline and never blocks:
//
//	actor.Subscribe(door, func(msg OpenDoor) {
//	    door.Log().Info("opening", slog.String("by", msg.By))
//	})
//
//	door.Publish(OpenDoor{By: "alice"})
//
// Callbacks for one actor never overlap; callbacks for different actors do.
// A callback may publish further messages or arm timers, recursively feeding
// the same pipeline.
//
// # Jobs and Timers
//
// Scheduled jobs fire through the owning actor's mailbox, so timer firings
// share the ordering and serialization guarantees of message delivery:
//
//	id, err := door.Jobs().Repeat(time.Second, tick)
//	door.Jobs().Remove(id)
//
//	t := door.Timer(500*time.Millisecond, onDeadline)
//	t.Start() // restart re-arms from the call moment
//	t.Stop()
//
// # Failure containment
//
// A panicking callback is caught at the worker boundary, logged with the
// actor identity and invocation context, and never retried. The actor simply
// proceeds to its next queued invocation.
package actor
