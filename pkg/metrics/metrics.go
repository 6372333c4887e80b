package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// EventsReceived counts envelopes accepted off the transport,
	// excluding challenge handshakes.
	EventsReceived = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "keepnote_events_received_total",
		Help: "Inbound event envelopes received.",
	})
	EventsIgnored = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "keepnote_events_ignored_total",
		Help: "Envelopes dropped by identity filtering or classification.",
	})
	Transitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "keepnote_transitions_total",
		Help: "Issue lifecycle transitions applied, by action.",
	}, []string{"action"})
	PreconditionFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "keepnote_precondition_failures_total",
		Help: "Transitions that targeted a missing issue record.",
	})
	PublishFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "keepnote_publish_failures_total",
		Help: "Home-view publishes that failed and were suppressed.",
	})
)

func init() {
	prometheus.MustRegister(
		EventsReceived,
		EventsIgnored,
		Transitions,
		PreconditionFailures,
		PublishFailures,
	)
}
