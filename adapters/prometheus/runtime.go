package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/codewandler/actors-go/core/actor"
	"github.com/codewandler/actors-go/core/metrics"
)

// runtimeMetrics implements actor.Metrics using Prometheus.
type runtimeMetrics struct {
	messagesPublished  *prometheus.CounterVec
	invocationDuration *prometheus.HistogramVec
	invocationsTotal   *prometheus.CounterVec
	panicsTotal        *prometheus.CounterVec
	mailboxDepth       *prometheus.GaugeVec
	readyDepth         prometheus.Gauge
	workerCount        prometheus.Gauge
	jobsPending        prometheus.Gauge
}

// NewRuntimeMetrics creates a Prometheus implementation of actor.Metrics
// registered with reg.
func NewRuntimeMetrics(reg prometheus.Registerer) actor.Metrics {
	m := &runtimeMetrics{
		messagesPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "actors_messages_published_total",
			Help: "Total number of messages published, per message type",
		}, []string{"message_type"}),

		invocationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "actors_invocation_duration_seconds",
			Help:    "Invocation execution time in seconds",
			Buckets: defaultBuckets,
		}, []string{"invocation"}),

		invocationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "actors_invocations_total",
			Help: "Total number of invocations executed",
		}, []string{"invocation", "success"}),

		panicsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "actors_invocation_panics_total",
			Help: "Total number of callback panics caught at the worker boundary",
		}, []string{"invocation"}),

		mailboxDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "actors_mailbox_depth",
			Help: "Current mailbox queue depth",
		}, []string{"actor"}),

		readyDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "actors_ready_mailboxes",
			Help: "Number of mailboxes waiting for a worker",
		}),

		workerCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "actors_worker_count",
			Help: "Current dispatcher worker count",
		}),

		jobsPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "actors_jobs_pending",
			Help: "Number of scheduled jobs waiting to fire",
		}),
	}

	reg.MustRegister(
		m.messagesPublished,
		m.invocationDuration,
		m.invocationsTotal,
		m.panicsTotal,
		m.mailboxDepth,
		m.readyDepth,
		m.workerCount,
		m.jobsPending,
	)

	return m
}

func (m *runtimeMetrics) MessagePublished(msgType string) {
	m.messagesPublished.WithLabelValues(msgType).Inc()
}

func (m *runtimeMetrics) InvocationDuration(kind string) metrics.Timer {
	return newTimer(m.invocationDuration.WithLabelValues(kind))
}

func (m *runtimeMetrics) InvocationProcessed(kind string, success bool) {
	m.invocationsTotal.WithLabelValues(kind, boolToStr(success)).Inc()
}

func (m *runtimeMetrics) InvocationPanic(kind string) {
	m.panicsTotal.WithLabelValues(kind).Inc()
}

func (m *runtimeMetrics) MailboxDepth(actorName string, depth int) {
	m.mailboxDepth.WithLabelValues(actorName).Set(float64(depth))
}

func (m *runtimeMetrics) ReadyDepth(depth int) {
	m.readyDepth.Set(float64(depth))
}

func (m *runtimeMetrics) WorkerCount(n int) {
	m.workerCount.Set(float64(n))
}

func (m *runtimeMetrics) JobsPending(n int) {
	m.jobsPending.Set(float64(n))
}

var _ actor.Metrics = (*runtimeMetrics)(nil)
