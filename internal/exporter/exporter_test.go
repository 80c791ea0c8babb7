package exporter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/neox5/esbox/internal/config"
	"github.com/neox5/esbox/internal/elasticsearch"
	"github.com/neox5/esbox/internal/stats"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher returns its snapshots in order, repeating the last one.
type fakeFetcher struct {
	mu        sync.Mutex
	snapshots []*stats.Snapshot
	err       error
	opts      []elasticsearch.FetchOptions
}

func (f *fakeFetcher) Fetch(_ context.Context, opts elasticsearch.FetchOptions) (*stats.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opts = append(f.opts, opts)
	if f.err != nil {
		return nil, f.err
	}
	snap := f.snapshots[0]
	if len(f.snapshots) > 1 {
		f.snapshots = f.snapshots[1:]
	}
	return snap, nil
}

func snapshot(nodes int64) *stats.Snapshot {
	return &stats.Snapshot{
		Health: &stats.ClusterHealth{
			ClusterName:   "prod",
			Status:        stats.StatusGreen,
			NumberOfNodes: nodes,
		},
		Node: &stats.NodeStats{
			ID:    "n1",
			Name:  "es-1",
			Roles: []string{"master"},
		},
	}
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Settings.InternalMetrics.Enabled = true
	return cfg
}

func newTestServer(t *testing.T, f Fetcher, cfg *config.Config) (*Exporter, http.Handler) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	exp := New(f, cfg.Metrics, cfg.Settings.InternalMetrics.Enabled, logger)
	return exp, NewServer(cfg, exp, logger).Handler()
}

func get(t *testing.T, h http.Handler, path, accept string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	resp := rec.Result()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestScrape(t *testing.T) {
	f := &fakeFetcher{snapshots: []*stats.Snapshot{snapshot(3)}}
	_, h := newTestServer(t, f, testConfig())

	resp, body := get(t, h, config.DefaultServerPath, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain"))
	assert.Contains(t, body, `es_cluster_status{cluster="prod"} 0`)
	assert.Contains(t, body, `es_cluster_nodes_number{cluster="prod"} 3`)
	assert.Contains(t, body, `es_node_role_bool{cluster="prod",node="es-1",nodeid="n1",role="master"} 1`)

	require.Len(t, f.opts, 1)
	assert.Equal(t, elasticsearch.FetchOptions{Indices: true, ClusterSettings: true}, f.opts[0])
}

func TestScrapeOpenMetrics(t *testing.T) {
	f := &fakeFetcher{snapshots: []*stats.Snapshot{snapshot(1)}}
	_, h := newTestServer(t, f, testConfig())

	resp, body := get(t, h, config.DefaultServerPath, "application/openmetrics-text; version=1.0.0")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/openmetrics-text"))
	assert.True(t, strings.HasSuffix(body, "# EOF\n"))
}

func TestScrapesAreIndependent(t *testing.T) {
	f := &fakeFetcher{snapshots: []*stats.Snapshot{snapshot(1), snapshot(5)}}
	_, h := newTestServer(t, f, testConfig())

	_, first := get(t, h, config.DefaultServerPath, "")
	_, second := get(t, h, config.DefaultServerPath, "")

	assert.Contains(t, first, `es_cluster_nodes_number{cluster="prod"} 1`)
	assert.Contains(t, second, `es_cluster_nodes_number{cluster="prod"} 5`)
	assert.NotContains(t, second, `es_cluster_nodes_number{cluster="prod"} 1`)
}

func TestScrapeFailure(t *testing.T) {
	f := &fakeFetcher{err: errors.New("connection refused")}
	exp, h := newTestServer(t, f, testConfig())

	resp, body := get(t, h, config.DefaultServerPath, "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "connection refused")
	assert.NotContains(t, body, "es_cluster")

	assert.Equal(t, 1.0, testutil.ToFloat64(exp.internal.scrapesTotal.WithLabelValues(resultError)))
	assert.Equal(t, 0.0, testutil.ToFloat64(exp.internal.scrapesTotal.WithLabelValues(resultSuccess)))
}

func TestMetricsOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Prefix = "elasticsearch_"
	cfg.Metrics.Indices = false
	cfg.Metrics.ClusterSettings = false

	f := &fakeFetcher{snapshots: []*stats.Snapshot{snapshot(1)}}
	_, h := newTestServer(t, f, cfg)

	_, body := get(t, h, config.DefaultServerPath, "")
	assert.Contains(t, body, `elasticsearch_cluster_status{cluster="prod"} 0`)
	assert.NotContains(t, body, "\nes_")
	assert.Equal(t, elasticsearch.FetchOptions{}, f.opts[0])
}

func TestRoutes(t *testing.T) {
	f := &fakeFetcher{snapshots: []*stats.Snapshot{snapshot(1)}}
	_, h := newTestServer(t, f, testConfig())

	resp, body := get(t, h, defaultPath, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "es_cluster_status")

	resp, _ = get(t, h, "/unknown", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInternalMetrics(t *testing.T) {
	f := &fakeFetcher{snapshots: []*stats.Snapshot{snapshot(1)}}
	exp, h := newTestServer(t, f, testConfig())

	get(t, h, config.DefaultServerPath, "")
	get(t, h, defaultPath, "")

	assert.Equal(t, 2.0, testutil.ToFloat64(exp.internal.scrapesTotal.WithLabelValues(resultSuccess)))
	assert.Equal(t, 0.0, testutil.ToFloat64(exp.internal.scrapesTotal.WithLabelValues(resultError)))

	resp, body := get(t, h, config.DefaultInternalMetricsPath, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `esbox_scrapes_total{result="success"} 2`)
	assert.Contains(t, body, "esbox_fetch_duration_seconds_count 2")
	assert.Contains(t, body, "esbox_build_info")
	assert.Contains(t, body, "promhttp_metric_handler_requests_total")
	assert.NotContains(t, body, "es_cluster_status")
}

func TestInternalMetricsDisabled(t *testing.T) {
	cfg := config.Default()
	f := &fakeFetcher{snapshots: []*stats.Snapshot{snapshot(1)}}
	exp, h := newTestServer(t, f, cfg)

	assert.Nil(t, exp.InternalHandler())

	resp, _ := get(t, h, config.DefaultServerPath, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get(t, h, config.DefaultInternalMetricsPath, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsPathIsDefault(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Path = defaultPath

	f := &fakeFetcher{snapshots: []*stats.Snapshot{snapshot(1)}}
	_, h := newTestServer(t, f, cfg)

	resp, _ := get(t, h, defaultPath, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
