// Package metrics holds the process-wide prometheus collectors.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RejectedRecords = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "droplink_rejected_records_total",
		Help: "Raw messages dropped because their extras payload failed validation.",
	})

	Fetches = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "droplink_fetches_total",
		Help: "Message page fetches attempted against the server.",
	})
	FetchErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "droplink_fetch_errors_total",
		Help: "Message page fetches that failed (transport or decode).",
	})

	StreamMessages = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "droplink_stream_messages_total",
		Help: "Messages received over the websocket stream.",
	})
)

// Register registers all collectors with the default registry.
func Register() {
	prometheus.MustRegister(
		RejectedRecords,
		Fetches, FetchErrors,
		StreamMessages,
	)
}
