// Package exporter serves Elasticsearch statistics as Prometheus metrics.
// Every scrape fetches a fresh snapshot and renders it through a catalog
// built for that scrape alone.
package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/neox5/esbox/internal/collector"
	"github.com/neox5/esbox/internal/config"
	"github.com/neox5/esbox/internal/elasticsearch"
	"github.com/neox5/esbox/internal/metric"
	"github.com/neox5/esbox/internal/stats"
	"github.com/prometheus/common/expfmt"
)

// Fetcher reads one statistics snapshot.
type Fetcher interface {
	Fetch(ctx context.Context, opts elasticsearch.FetchOptions) (*stats.Snapshot, error)
}

// Exporter is the HTTP handler of the scrape endpoint.
type Exporter struct {
	fetcher  Fetcher
	metrics  config.MetricsConfig
	logger   *slog.Logger
	internal *internalMetrics
}

// New creates an exporter. internalMetrics enables the self-monitoring
// registry served by InternalHandler.
func New(fetcher Fetcher, metrics config.MetricsConfig, internalMetrics bool, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Exporter{
		fetcher: fetcher,
		metrics: metrics,
		logger:  logger,
	}
	if internalMetrics {
		e.internal = newInternalMetrics()
		logger.Info("registered internal metrics",
			"metrics", []string{scrapesTotalName, scrapeDurationName, fetchDurationName})
	}
	return e
}

// ServeHTTP runs one scrape. Failures answer 500 without a partial body.
func (e *Exporter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	body, format, err := e.scrape(r.Context(), r.Header)
	e.internal.observeScrape(err, time.Since(start))

	if err != nil {
		e.logger.Error("scrape failed", "error", err)
		http.Error(w, fmt.Sprintf("failed to collect metrics: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", string(format))
	if _, err := w.Write(body); err != nil {
		e.logger.Debug("failed to write scrape response", "error", err)
	}
}

func (e *Exporter) scrape(ctx context.Context, header http.Header) ([]byte, expfmt.Format, error) {
	fetchStart := time.Now()
	snap, err := e.fetcher.Fetch(ctx, elasticsearch.FetchOptions{
		Indices:         e.metrics.Indices,
		ClusterSettings: e.metrics.ClusterSettings,
	})
	e.internal.observeFetch(time.Since(fetchStart))
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch stats: %w", err)
	}

	catalog := metric.New(elasticsearch.Topology(snap),
		metric.WithPrefix(e.metrics.Prefix),
		metric.WithRuntimeCollector(e.metrics.Runtime),
		metric.WithLogger(e.logger),
	)
	c := collector.New(catalog, collector.Options{
		Indices:         e.metrics.Indices,
		ClusterSettings: e.metrics.ClusterSettings,
		Deprecated:      e.metrics.Deprecated,
		Logger:          e.logger,
	})
	if err := c.Register(); err != nil {
		return nil, "", fmt.Errorf("failed to register metrics: %w", err)
	}
	if err := c.Update(snap); err != nil {
		return nil, "", fmt.Errorf("failed to update metrics: %w", err)
	}

	format := metric.NegotiateFormat(header)
	body, err := catalog.Render(format)
	if err != nil {
		return nil, "", err
	}
	return body, format, nil
}
