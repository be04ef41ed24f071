package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder exposes the counters the delivery pipeline reports into.
type Recorder interface {
	EventIngested(eventType string)
	DeliveryCommand(result string)
}

// PrometheusRecorder registers and serves application counters.
type PrometheusRecorder struct {
	registry        *prometheus.Registry
	eventsIngested  *prometheus.CounterVec
	deliveryResults *prometheus.CounterVec
}

func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &PrometheusRecorder{
		registry: registry,
		eventsIngested: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adbeam_events_ingested_total",
			Help: "Overlay events accepted by the ingest endpoint, by event type.",
		}, []string{"type"}),
		deliveryResults: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adbeam_delivery_commands_total",
			Help: "Delivery trigger outcomes, by result label.",
		}, []string{"result"}),
	}
}

func (r *PrometheusRecorder) EventIngested(eventType string) {
	r.eventsIngested.WithLabelValues(eventType).Inc()
}

func (r *PrometheusRecorder) DeliveryCommand(result string) {
	r.deliveryResults.WithLabelValues(result).Inc()
}

// Handler returns the scrape endpoint for the recorder's registry.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
