package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	reasonInvalidLength = "invalid_length"
	reasonMalformed     = "malformed"
)

// Metrics counts ingest-path activity. The telemetry gauges themselves
// live in the metrics store; these only describe the receive loop.
type Metrics struct {
	Received   prometheus.Counter
	Rejected   *prometheus.CounterVec
	ReadErrors prometheus.Counter
}

// NewMetrics registers the ingest counters with the provided registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Received: factory.NewCounter(prometheus.CounterOpts{
			Name: "bridge_datagrams_received_total",
			Help: "Total number of telemetry datagrams received",
		}),
		Rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bridge_datagrams_rejected_total",
			Help: "Total number of telemetry datagrams rejected by the decoder",
		}, []string{"reason"}),
		ReadErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "bridge_udp_read_errors_total",
			Help: "Total number of UDP receive errors",
		}),
	}
}
