package stream

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	processedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymlog",
		Subsystem: "aggregator",
		Name:      "events_processed_total",
		Help:      "Number of change events successfully handled.",
	}, []string{"handler", "operation"})

	handlerErrorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymlog",
		Subsystem: "aggregator",
		Name:      "handler_errors_total",
		Help:      "Number of handler errors grouped by handler and operation type.",
	}, []string{"handler", "operation"})

	decodeErrorCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gymlog",
		Subsystem: "aggregator",
		Name:      "decode_errors_total",
		Help:      "Number of change events or snapshots that failed to decode.",
	})
)

func init() {
	prometheus.MustRegister(processedCounter, handlerErrorCounter, decodeErrorCounter)
}

func recordProcessed(handler, operation string) {
	processedCounter.WithLabelValues(handler, operation).Inc()
}

func recordHandlerError(handler, operation string) {
	handlerErrorCounter.WithLabelValues(handler, operation).Inc()
}

func recordDecodeError() {
	decodeErrorCounter.Inc()
}
