// Package metrics collects and exposes Prometheus metrics for the site.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metrics surface used by the content and view packages.
type Recorder interface {
	RecordFetchSuccess(source string)
	RecordFetchFailure(source string)
	RecordFetchLatency(source string, d time.Duration)
	RecordView(kind string, counted bool)
}

// Nop discards every observation.
type Nop struct{}

func (Nop) RecordFetchSuccess(string) {}
func (Nop) RecordFetchFailure(string) {}
func (Nop) RecordFetchLatency(string, time.Duration) {}
func (Nop) RecordView(string, bool) {}

// Collector records metrics into a Prometheus registry.
type Collector struct {
	fetchSuccess *prometheus.CounterVec
	fetchFail    *prometheus.CounterVec
	fetchLatency *prometheus.HistogramVec
	views        *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		fetchSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_content_fetch_success_total",
			Help: "Successful content fetches by source.",
		}, []string{"source"}),
		fetchFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_content_fetch_fail_total",
			Help: "Failed content fetches by source.",
		}, []string{"source"}),
		fetchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "folio_content_fetch_latency_seconds",
			Help:    "Content fetch latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		views: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_post_views_total",
			Help: "Post page views by kind and whether they were counted.",
		}, []string{"kind", "counted"}),
	}

	reg.MustRegister(c.fetchSuccess, c.fetchFail, c.fetchLatency, c.views)
	return c
}

func (c *Collector) RecordFetchSuccess(source string) {
	c.fetchSuccess.WithLabelValues(source).Inc()
}

func (c *Collector) RecordFetchFailure(source string) {
	c.fetchFail.WithLabelValues(source).Inc()
}

func (c *Collector) RecordFetchLatency(source string, d time.Duration) {
	c.fetchLatency.WithLabelValues(source).Observe(d.Seconds())
}

// RecordView records a post view. counted is false for bots and repeats.
func (c *Collector) RecordView(kind string, counted bool) {
	label := "false"
	if counted {
		label = "true"
	}
	c.views.WithLabelValues(kind, label).Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
