package swagger

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	reloads       *prometheus.CounterVec
	watchErrors   prometheus.Counter
	clients       prometheus.Gauge
	documentBytes prometheus.Gauge
	operations    prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rentdocs",
			Name:      "document_reloads_total",
			Help:      "Document reloads by result.",
		}, []string{"result"}),
		watchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rentdocs",
			Name:      "watch_errors_total",
			Help:      "File watch errors, dropped ones included.",
		}),
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rentdocs",
			Name:      "event_clients",
			Help:      "Connected live reload clients.",
		}),
		documentBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rentdocs",
			Name:      "document_bytes",
			Help:      "Size of the served JSON document.",
		}),
		operations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rentdocs",
			Name:      "document_operations",
			Help:      "Operations described by the served document.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.reloads, m.watchErrors, m.clients, m.documentBytes, m.operations)
	}

	return m
}
