package elasticsearch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	healthBody = `{"cluster_name":"prod","status":"green","number_of_nodes":1,
		"indices":{"logs":{"status":"yellow","number_of_shards":1}}}`
	nodesBody = `{"cluster_name":"prod","nodes":{"Xy12":{"name":"es-1","roles":["master","data"],
		"thread_pool":{"search":{"threads":13,"rejected":2}}}}}`
	infoBody     = `{"name":"es-1","cluster_name":"prod","version":{"number":"8.11.0","build_flavor":"default"}}`
	indicesBody  = `{"_all":{},"indices":{"logs":{"uuid":"u1","total":{"docs":{"count":10}},"primaries":{"docs":{"count":5}}}}}`
	settingsBody = `{"persistent":{},"transient":{"cluster.routing.allocation.disk.watermark.low":"90%"},
		"defaults":{"cluster.routing.allocation.disk.threshold_enabled":"true",
		"cluster.routing.allocation.disk.watermark.low":"85%",
		"cluster.routing.allocation.disk.watermark.high":"500mb",
		"cluster.routing.allocation.disk.watermark.flood_stage":"bogus"}}`
)

// fakeNode serves canned responses and records the requests it saw.
type fakeNode struct {
	mu       sync.Mutex
	requests map[string]*http.Request
	bodies   map[string]string
	statuses map[string]int
}

func newFakeNode() *fakeNode {
	return &fakeNode{
		requests: map[string]*http.Request{},
		bodies: map[string]string{
			pathInfo:      infoBody,
			pathHealth:    healthBody,
			pathNodeStats: nodesBody,
			pathIndices:   indicesBody,
			pathSettings:  settingsBody,
		},
		statuses: map[string]int{},
	}
}

func (f *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests[r.URL.Path] = r.Clone(context.Background())
	body, ok := f.bodies[r.URL.Path]
	status := f.statuses[r.URL.Path]
	f.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	if status != 0 {
		w.WriteHeader(status)
	}
	_, _ = w.Write([]byte(body))
}

func (f *fakeNode) request(path string) (*http.Request, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[path]
	return r, ok
}

func newTestClient(t *testing.T, f *fakeNode, cfg Config) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	cfg.URL = srv.URL
	c, err := NewClient(cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return c
}

func TestFetch(t *testing.T) {
	f := newFakeNode()
	c := newTestClient(t, f, Config{Username: "elastic", Password: "secret"})

	snap, err := c.Fetch(t.Context(), FetchOptions{Indices: true, ClusterSettings: true})
	require.NoError(t, err)

	require.NotNil(t, snap.Health)
	assert.Equal(t, "prod", snap.Health.ClusterName)
	require.NotNil(t, snap.Node)
	assert.Equal(t, "Xy12", snap.Node.ID)
	assert.Equal(t, int64(2), snap.Node.ThreadPool["search"].Rejected)
	require.NotNil(t, snap.Info)
	assert.Equal(t, "8.11.0", snap.Info.Version.Number)
	require.NotNil(t, snap.Indices)
	assert.Equal(t, int64(5), snap.Indices.Indices["logs"].Primaries.Docs.Count)

	require.NotNil(t, snap.Settings)
	assert.True(t, snap.Settings.ThresholdEnabled)
	require.NotNil(t, snap.Settings.Low.Percent)
	assert.Equal(t, 90.0, *snap.Settings.Low.Percent)
	require.NotNil(t, snap.Settings.High.Bytes)
	assert.Equal(t, float64(500<<20), *snap.Settings.High.Bytes)
	assert.Nil(t, snap.Settings.FloodStage.Bytes)
	assert.Nil(t, snap.Settings.FloodStage.Percent)

	health, ok := f.request(pathHealth)
	require.True(t, ok)
	assert.Equal(t, "indices", health.URL.Query().Get("level"))
	user, pass, ok := health.BasicAuth()
	assert.True(t, ok)
	assert.Equal(t, "elastic", user)
	assert.Equal(t, "secret", pass)
	assert.Contains(t, health.UserAgent(), "esbox/")

	settings, ok := f.request(pathSettings)
	require.True(t, ok)
	assert.Equal(t, "true", settings.URL.Query().Get("include_defaults"))
	assert.Equal(t, "true", settings.URL.Query().Get("flat_settings"))
}

func TestFetchSkipsDisabledEndpoints(t *testing.T) {
	f := newFakeNode()
	c := newTestClient(t, f, Config{})

	snap, err := c.Fetch(t.Context(), FetchOptions{})
	require.NoError(t, err)
	assert.Nil(t, snap.Indices)
	assert.Nil(t, snap.Settings)
	_, ok := f.request(pathIndices)
	assert.False(t, ok)
	_, ok = f.request(pathSettings)
	assert.False(t, ok)
	health, ok := f.request(pathHealth)
	require.True(t, ok)
	assert.Empty(t, health.Header.Values("Authorization"))
}

func TestFetchRequiredEndpointFailure(t *testing.T) {
	for _, path := range []string{pathHealth, pathNodeStats} {
		t.Run(path, func(t *testing.T) {
			f := newFakeNode()
			f.statuses[path] = http.StatusServiceUnavailable
			c := newTestClient(t, f, Config{})

			_, err := c.Fetch(t.Context(), FetchOptions{Indices: true})
			require.Error(t, err)
			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
		})
	}
}

func TestFetchOptionalEndpointFailure(t *testing.T) {
	f := newFakeNode()
	f.statuses[pathIndices] = http.StatusForbidden
	f.statuses[pathInfo] = http.StatusInternalServerError
	f.bodies[pathSettings] = `not json`
	c := newTestClient(t, f, Config{})

	snap, err := c.Fetch(t.Context(), FetchOptions{Indices: true, ClusterSettings: true})
	require.NoError(t, err)
	assert.Nil(t, snap.Indices)
	assert.Nil(t, snap.Info)
	assert.Nil(t, snap.Settings)
	assert.NotNil(t, snap.Health)
}

func TestFetchNoLocalNode(t *testing.T) {
	f := newFakeNode()
	f.bodies[pathNodeStats] = `{"cluster_name":"prod","nodes":{}}`
	c := newTestClient(t, f, Config{})

	_, err := c.Fetch(t.Context(), FetchOptions{})
	require.Error(t, err)
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{}, nil)
	require.Error(t, err)
	_, err = NewClient(Config{URL: "ftp://es:9200"}, nil)
	require.Error(t, err)

	c, err := NewClient(Config{URL: "https://es:9200/", InsecureSkipVerify: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, c.http.Timeout)
	assert.Equal(t, "https://es:9200", c.baseURL.String())
}

func TestTopology(t *testing.T) {
	f := newFakeNode()
	c := newTestClient(t, f, Config{})
	snap, err := c.Fetch(t.Context(), FetchOptions{})
	require.NoError(t, err)

	top := Topology(snap)
	assert.Equal(t, "prod", top.Cluster)
	assert.Equal(t, "es-1", top.Node)
	assert.Equal(t, "Xy12", top.NodeID)

	snap.Health.ClusterName = ""
	snap.Info.ClusterName = "fallback"
	assert.Equal(t, "fallback", Topology(snap).Cluster)
}
