package actor

import "errors"

var (
	// ErrActorExists is returned by Spawn when the name is already taken.
	ErrActorExists = errors.New("actor already exists")

	// ErrSystemStopped is returned when spawning or scheduling on a
	// stopped system.
	ErrSystemStopped = errors.New("system stopped")

	// ErrInvalidDelay is returned for a negative one-shot delay.
	ErrInvalidDelay = errors.New("invalid delay")

	// ErrInvalidInterval is returned for a non-positive repeat interval.
	ErrInvalidInterval = errors.New("invalid interval")
)
