package actor

import "github.com/codewandler/actors-go/core/metrics"

// Metrics is the runtime's instrumentation surface. Implementations must be
// safe for concurrent use; storage and display are the backend's concern.
type Metrics interface {
	// Messages
	MessagePublished(msgType string)

	// Invocations (message deliveries and job firings)
	InvocationDuration(kind string) metrics.Timer
	InvocationProcessed(kind string, success bool)
	InvocationPanic(kind string)

	// Mailboxes and pool
	MailboxDepth(actor string, depth int)
	ReadyDepth(depth int)
	WorkerCount(n int)

	// Scheduler
	JobsPending(n int)
}

// nopMetrics is a no-op implementation of Metrics.
type nopMetrics struct{}

func (nopMetrics) MessagePublished(string) {}

func (nopMetrics) InvocationDuration(string) metrics.Timer { return metrics.NopTimer() }
func (nopMetrics) InvocationProcessed(string, bool)        {}
func (nopMetrics) InvocationPanic(string)                  {}

func (nopMetrics) MailboxDepth(string, int) {}
func (nopMetrics) ReadyDepth(int)           {}
func (nopMetrics) WorkerCount(int)          {}

func (nopMetrics) JobsPending(int) {}

// NopMetrics returns a no-op Metrics implementation.
func NopMetrics() Metrics { return nopMetrics{} }
