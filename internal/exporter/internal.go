package exporter

import (
	"net/http"
	"time"

	"github.com/neox5/esbox/internal/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Internal metric names
const (
	scrapesTotalName   = "esbox_scrapes_total"
	scrapeDurationName = "esbox_scrape_duration_seconds"
	fetchDurationName  = "esbox_fetch_duration_seconds"
	buildInfoName      = "esbox_build_info"
)

// Scrape results
const (
	resultSuccess = "success"
	resultError   = "error"
)

// internalMetrics describes the exporter process itself. It lives in its own
// registry so it never mixes with the per-scrape catalogs. A nil
// *internalMetrics records nothing.
type internalMetrics struct {
	registry       *prometheus.Registry
	scrapesTotal   *prometheus.CounterVec
	scrapeDuration prometheus.Histogram
	fetchDuration  prometheus.Histogram
}

func newInternalMetrics() *internalMetrics {
	m := &internalMetrics{
		registry: prometheus.NewRegistry(),
		scrapesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: scrapesTotalName,
			Help: "Total number of scrape requests by result",
		}, []string{"result"}),
		scrapeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    scrapeDurationName,
			Help:    "Duration of scrape requests in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    fetchDurationName,
			Help:    "Duration of Elasticsearch stats requests in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	info := version.Get()
	buildInfo := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: buildInfoName,
		Help: "Build information of the running esbox",
		ConstLabels: prometheus.Labels{
			"version":   info.Version,
			"revision":  info.Commit,
			"goversion": info.GoVersion,
		},
	})
	buildInfo.Set(1)

	// Both results start at zero
	m.scrapesTotal.WithLabelValues(resultSuccess)
	m.scrapesTotal.WithLabelValues(resultError)

	m.registry.MustRegister(
		m.scrapesTotal,
		m.scrapeDuration,
		m.fetchDuration,
		buildInfo,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *internalMetrics) observeScrape(err error, d time.Duration) {
	if m == nil {
		return
	}
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	m.scrapesTotal.WithLabelValues(result).Inc()
	m.scrapeDuration.Observe(d.Seconds())
}

func (m *internalMetrics) observeFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.fetchDuration.Observe(d.Seconds())
}

// handler serves the internal registry, instrumented with the promhttp
// handler metrics.
func (m *internalMetrics) handler() http.Handler {
	return promhttp.InstrumentMetricHandler(m.registry, promhttp.HandlerFor(
		m.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		},
	))
}

// InternalHandler returns the handler of the self-monitoring metrics, or nil
// when they are disabled.
func (e *Exporter) InternalHandler() http.Handler {
	if e.internal == nil {
		return nil
	}
	return e.internal.handler()
}
