package collector

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/neox5/esbox/internal/metric"
	"github.com/neox5/esbox/internal/stats"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTopology = metric.Topology{Cluster: "prod", Node: "es-1", NodeID: "Xy12"}

func ptr[T any](v T) *T { return &v }

func commonStats(docs, warmerMillis int64) *stats.CommonStats {
	return &stats.CommonStats{
		Docs:   &stats.DocsStats{Count: docs, Deleted: 1},
		Warmer: &stats.WarmerStats{Total: 2, TotalTimeInMillis: warmerMillis},
	}
}

func fixture() *stats.Snapshot {
	return &stats.Snapshot{
		Info: &stats.NodeInfo{
			Name:        "es-1",
			ClusterName: "prod",
			Version: stats.BuildVersion{
				Number:      "8.11.0",
				BuildFlavor: "default",
				BuildType:   "docker",
				BuildHash:   "76013fa",
				BuildDate:   "2023-11-04",
			},
		},
		Health: &stats.ClusterHealth{
			ClusterName:                 "prod",
			Status:                      stats.StatusYellow,
			NumberOfNodes:               3,
			NumberOfDataNodes:           2,
			ActivePrimaryShards:         5,
			ActiveShards:                8,
			UnassignedShards:            2,
			TaskMaxWaitingInQueueMillis: 1500,
			ActiveShardsPercent:         80,
			Indices: map[string]*stats.IndexHealth{
				"logs":    {Status: stats.StatusGreen, NumberOfShards: 1, NumberOfReplicas: 1},
				"metrics": {Status: stats.StatusYellow, NumberOfShards: 2, NumberOfReplicas: 1},
			},
		},
		Node: &stats.NodeStats{
			ID:      "Xy12",
			Name:    "es-1",
			Roles:   []string{"data", "master", "ml"},
			Indices: commonStats(300, 2500),
			Process: &stats.ProcessStats{
				OpenFileDescriptors: 420,
				MaxFileDescriptors:  65535,
				CPU:                 &stats.ProcessCPU{Percent: 3, TotalInMillis: 12500},
			},
			ThreadPool: map[string]*stats.ThreadPoolStats{
				"search": {Threads: 13, Queue: 2, Active: 1, Rejected: 7, Largest: 13, Completed: 1000},
				"write":  {Threads: 8, Completed: 50},
			},
			FS: &stats.FSStats{
				Total: &stats.FSTotal{TotalInBytes: 1000, FreeInBytes: 400, AvailableInBytes: 300},
				IOStats: &stats.FSIOStats{
					Total: &stats.IOCounters{ReadKilobytes: 2, IOTimeInMillis: 4000},
					Devices: []*stats.DeviceIO{
						{IOCounters: stats.IOCounters{Operations: 9}, DeviceName: ptr("sda")},
						{IOCounters: stats.IOCounters{Operations: 3}},
					},
				},
			},
			OS: &stats.OSStats{
				CPU: &stats.OSCPU{Percent: 12, LoadAverage: map[string]float64{"1m": 0.5}},
				Cgroup: &stats.OSCgroup{
					Memory: &stats.CgroupMemory{ControlGroup: "/", LimitInBytes: "max", UsageInBytes: "2048"},
				},
			},
			Transport: &stats.TransportStats{ServerOpen: 4, RxCount: 10, RxSizeInBytes: 4096},
			HTTP:      &stats.HTTPStats{CurrentOpen: 2, TotalOpened: 40},
		},
		Indices: &stats.IndicesStats{
			Indices: map[string]*stats.IndexStats{
				"logs":    {Total: commonStats(100, 1500), Primaries: commonStats(50, 500)},
				"metrics": {Total: commonStats(20, 0), Primaries: commonStats(10, 0)},
				"orders":  {Total: commonStats(7, 0), Primaries: commonStats(7, 0)},
			},
		},
		Settings: &stats.AllocationSettings{
			ThresholdEnabled: true,
			Low:              stats.Watermark{Percent: ptr(85.0)},
			High:             stats.Watermark{Bytes: ptr(1024.0)},
		},
	}
}

func defaultOptions() Options {
	return Options{Indices: true, ClusterSettings: true, Deprecated: true}
}

func collect(t *testing.T, snap *stats.Snapshot, opts Options) *metric.Catalog {
	t.Helper()
	cat := metric.New(testTopology)
	c := New(cat, opts)
	require.NoError(t, c.Register())
	require.NoError(t, c.Update(snap))
	return cat
}

// sampleValue returns the value of the sample of family name carrying all of
// the given label pairs.
func sampleValue(t *testing.T, cat *metric.Catalog, name string, labels map[string]string) (float64, bool) {
	t.Helper()
	mfs, err := cat.Gatherer().Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if !hasLabels(m, labels) {
				continue
			}
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				return m.GetCounter().GetValue(), true
			default:
				return m.GetGauge().GetValue(), true
			}
		}
	}
	return 0, false
}

func hasLabels(m *dto.Metric, want map[string]string) bool {
	found := 0
	for _, lp := range m.GetLabel() {
		if v, ok := want[lp.GetName()]; ok && v == lp.GetValue() {
			found++
		}
	}
	return found == len(want)
}

func TestClusterHealth(t *testing.T) {
	cat := collect(t, fixture(), defaultOptions())

	const want = `
# HELP es_cluster_health_status Health status of the cluster, based on the state of its primary and replica shards as enumeration
# TYPE es_cluster_health_status gauge
es_cluster_health_status{cluster="prod",es_cluster_health_status="GREEN"} 0
es_cluster_health_status{cluster="prod",es_cluster_health_status="RED"} 0
es_cluster_health_status{cluster="prod",es_cluster_health_status="YELLOW"} 1
# HELP es_cluster_shards_active_ratio The ratio of active shards in the cluster
# TYPE es_cluster_shards_active_ratio gauge
es_cluster_shards_active_ratio{cluster="prod"} 0.8
# HELP es_cluster_status Health status of the cluster, based on the state of its primary and replica shards
# TYPE es_cluster_status gauge
es_cluster_status{cluster="prod"} 1
# HELP es_cluster_task_max_waiting_time_seconds The time expressed in seconds since the earliest initiated task is waiting for being performed
# TYPE es_cluster_task_max_waiting_time_seconds gauge
es_cluster_task_max_waiting_time_seconds{cluster="prod"} 1.5
`
	require.NoError(t, testutil.GatherAndCompare(cat.Gatherer(), strings.NewReader(want),
		"es_cluster_health_status", "es_cluster_shards_active_ratio", "es_cluster_status",
		"es_cluster_task_max_waiting_time_seconds"))

	v, ok := sampleValue(t, cat, "es_cluster_shards_number", map[string]string{"type": "unassigned"})
	require.True(t, ok)
	assert.Equal(t, 2.0, v)
}

func TestUnknownHealthStatus(t *testing.T) {
	snap := fixture()
	snap.Health.Status = "PURPLE"
	cat := collect(t, snap, defaultOptions())

	v, ok := sampleValue(t, cat, "es_cluster_status", nil)
	require.True(t, ok)
	assert.Equal(t, -1.0, v)
	_, ok = sampleValue(t, cat, "es_cluster_health_status", nil)
	assert.False(t, ok)
}

func TestNodeRolesAndVersion(t *testing.T) {
	cat := collect(t, fixture(), defaultOptions())

	const want = `
# HELP es_node_role_bool Node role
# TYPE es_node_role_bool gauge
es_node_role_bool{cluster="prod",node="es-1",nodeid="Xy12",role="data"} 1
es_node_role_bool{cluster="prod",node="es-1",nodeid="Xy12",role="ingest"} 0
es_node_role_bool{cluster="prod",node="es-1",nodeid="Xy12",role="master"} 1
es_node_role_bool{cluster="prod",node="es-1",nodeid="Xy12",role="ml"} 1
# HELP es_node_version_info Node version
# TYPE es_node_version_info gauge
es_node_version_info{cluster="prod",node="es-1",nodeid="Xy12",version="8.11.0",build_flavor="default",build_type="docker",build_hash="76013fa",build_date="2023-11-04"} 1
`
	require.NoError(t, testutil.GatherAndCompare(cat.Gatherer(), strings.NewReader(want),
		"es_node_role_bool", "es_node_version_info"))
}

func TestThreadPoolCounters(t *testing.T) {
	cat := collect(t, fixture(), defaultOptions())

	const want = `
# HELP es_threadpool_completed_total Total Number of tasks completed by the thread pool executor
# TYPE es_threadpool_completed_total counter
es_threadpool_completed_total{cluster="prod",node="es-1",nodeid="Xy12",name="search"} 1000
es_threadpool_completed_total{cluster="prod",node="es-1",nodeid="Xy12",name="write"} 50
# HELP es_threadpool_rejected_total Total number of tasks rejected by the thread pool executor
# TYPE es_threadpool_rejected_total counter
es_threadpool_rejected_total{cluster="prod",node="es-1",nodeid="Xy12",name="search"} 7
es_threadpool_rejected_total{cluster="prod",node="es-1",nodeid="Xy12",name="write"} 0
`
	require.NoError(t, testutil.GatherAndCompare(cat.Gatherer(), strings.NewReader(want),
		"es_threadpool_completed_total", "es_threadpool_rejected_total"))

	v, ok := sampleValue(t, cat, "es_threadpool_threads_count", map[string]string{"name": "search", "type": "rejected"})
	require.True(t, ok)
	assert.Equal(t, 7.0, v)
}

func TestIndexContexts(t *testing.T) {
	cat := collect(t, fixture(), defaultOptions())

	tests := []struct {
		index, ctx    string
		docs          float64
		warmerSeconds float64
	}{
		{"logs", contextTotal, 100, 1.5},
		{"logs", contextPrimaries, 50, 0.5},
		{"metrics", contextTotal, 20, 0},
		{"metrics", contextPrimaries, 10, 0},
		{"orders", contextTotal, 7, 0},
		{"orders", contextPrimaries, 7, 0},
	}
	for _, tt := range tests {
		labels := map[string]string{"index": tt.index, "context": tt.ctx}
		v, ok := sampleValue(t, cat, "es_index_doc_number", labels)
		require.True(t, ok, "%s/%s", tt.index, tt.ctx)
		assert.Equal(t, tt.docs, v, "%s/%s", tt.index, tt.ctx)

		v, ok = sampleValue(t, cat, "es_index_warmer_time_seconds", labels)
		require.True(t, ok)
		assert.Equal(t, tt.warmerSeconds, v, "%s/%s", tt.index, tt.ctx)
	}

	// orders is absent from the health response.
	_, ok := sampleValue(t, cat, "es_index_status", map[string]string{"index": "orders"})
	assert.False(t, ok)
	v, ok := sampleValue(t, cat, "es_index_status", map[string]string{"index": "metrics"})
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestRenderedLabelOrder(t *testing.T) {
	cat := collect(t, fixture(), defaultOptions())

	out, err := cat.Render(expfmt.NewFormat(expfmt.TypeTextPlain))
	require.NoError(t, err)
	text := string(out)

	for _, line := range []string{
		`es_index_doc_number{cluster="prod",index="logs",context="primaries"} 50` + "\n" +
			`es_index_doc_number{cluster="prod",index="logs",context="total"} 100` + "\n",
		`es_index_shards_number{cluster="prod",type="shards",index="logs"} 1`,
		`es_threadpool_threads_count{cluster="prod",node="es-1",nodeid="Xy12",name="search",type="rejected"} 7`,
		`es_threadpool_threads_number{cluster="prod",node="es-1",nodeid="Xy12",name="search",type="threads"} 13`,
		`es_fs_io_device_operations_total{cluster="prod",node="es-1",nodeid="Xy12",device="sda"} 9`,
	} {
		assert.Contains(t, text, line)
	}
}

func TestConversions(t *testing.T) {
	cat := collect(t, fixture(), defaultOptions())

	tests := []struct {
		name   string
		labels map[string]string
		want   float64
	}{
		{"es_indices_warmer_time_seconds_total", nil, 2.5},
		{"es_fs_io_total_read_bytes", nil, 2048},
		{"es_fs_io_total_io_time_seconds_total", nil, 4},
		{"es_os_cgroup_memory_usage_bytes", nil, 2048},
		{"es_transport_rx_bytes_total", nil, 4096},
		{"es_transport_rx_bytes_count", nil, 4096},
		{"es_http_opened_total", nil, 40},
		{"es_http_open_total_count", nil, 40},
		{"process_cpu_seconds_total", nil, 12.5},
		{"es_process_cpu_time_seconds", nil, 12.5},
		{"es_cluster_routing_allocation_disk_watermark_low_pct", nil, 85},
		{"es_cluster_routing_allocation_disk_watermark_high_bytes", nil, 1024},
		{"es_cluster_routing_allocation_disk_threshold_enabled", nil, 1},
		{"es_os_load_average_one_minute", nil, 0.5},
	}
	for _, tt := range tests {
		v, ok := sampleValue(t, cat, tt.name, tt.labels)
		require.True(t, ok, tt.name)
		assert.Equal(t, tt.want, v, tt.name)
	}
}

func TestUnavailableValuesAreOmitted(t *testing.T) {
	snap := fixture()
	snap.Node.Process.CPU.TotalInMillis = -1
	cat := collect(t, snap, defaultOptions())

	for _, name := range []string{
		"process_cpu_seconds_total",
		"es_os_cgroup_memory_limit_bytes",
		"es_os_load_average_five_minutes",
		"es_transport_outbound_connections_total",
		"es_cluster_routing_allocation_disk_watermark_low_bytes",
		"es_cluster_routing_allocation_disk_watermark_high_pct",
	} {
		_, ok := sampleValue(t, cat, name, nil)
		assert.False(t, ok, name)
	}

	v, ok := sampleValue(t, cat, "es_process_cpu_time_seconds", nil)
	require.True(t, ok)
	assert.Equal(t, -1.0, v)

	// Only the named device is reported.
	v, ok = sampleValue(t, cat, "es_fs_io_device_operations_total", map[string]string{"device": "sda"})
	require.True(t, ok)
	assert.Equal(t, 9.0, v)
	mfs, err := cat.Gatherer().Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == "es_fs_io_device_operations_total" {
			assert.Len(t, mf.GetMetric(), 1)
		}
	}
}

func TestMissingSections(t *testing.T) {
	snap := fixture()
	snap.Node.FS = nil
	snap.Node.JVM = nil
	snap.Settings = nil
	snap.Info = nil
	cat := collect(t, snap, defaultOptions())

	_, ok := cat.Lookup("fs_total_total")
	assert.True(t, ok, "families are registered without data")
	_, ok = sampleValue(t, cat, "es_fs_total_total_bytes", nil)
	assert.False(t, ok)
	_, ok = sampleValue(t, cat, "es_node_version_info", nil)
	assert.False(t, ok)

	v, ok := sampleValue(t, cat, "es_cluster_nodes_number", nil)
	require.True(t, ok)
	assert.Equal(t, 3.0, v)
}

func TestEmptySnapshot(t *testing.T) {
	cat := collect(t, &stats.Snapshot{}, defaultOptions())

	out, err := cat.Render(expfmt.NewFormat(expfmt.TypeTextPlain))
	require.NoError(t, err)
	assert.Contains(t, string(out), "es_metrics_generate_time_seconds_count")
	assert.NotContains(t, string(out), "es_cluster_status{")
}

func TestOptionsGating(t *testing.T) {
	cat := collect(t, fixture(), Options{})

	_, ok := cat.Lookup("index_doc_number")
	assert.True(t, ok)
	_, ok = sampleValue(t, cat, "es_index_doc_number", nil)
	assert.False(t, ok)

	_, ok = cat.Lookup("cluster_routing_allocation_disk_threshold_enabled")
	assert.True(t, ok)
	_, ok = sampleValue(t, cat, "es_cluster_routing_allocation_disk_threshold_enabled", nil)
	assert.False(t, ok)

	for _, name := range []string{"transport_rx_packets_count", "http_open_total_count", "threadpool_threads_number"} {
		_, ok = cat.Lookup(name)
		assert.False(t, ok, name)
	}
	_, ok = sampleValue(t, cat, "es_transport_rx_packets_total", nil)
	assert.True(t, ok)
}

func TestLifecycle(t *testing.T) {
	cat := metric.New(testTopology)
	c := New(cat, defaultOptions())

	err := c.Update(fixture())
	require.Error(t, err)
	assert.True(t, errors.HasAssertionFailure(err))

	require.NoError(t, c.Register())
	err = c.Register()
	require.Error(t, err)
	assert.True(t, errors.HasAssertionFailure(err))

	require.Error(t, c.Update(nil))
	require.NoError(t, c.Update(fixture()))
	err = c.Update(fixture())
	require.Error(t, err)
	assert.True(t, errors.HasAssertionFailure(err))
}

func TestRenderIsRepeatable(t *testing.T) {
	cat := collect(t, fixture(), defaultOptions())
	format := expfmt.NewFormat(expfmt.TypeTextPlain)

	first, err := cat.Render(format)
	require.NoError(t, err)
	second, err := cat.Render(format)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAliasOfUnknownFamily(t *testing.T) {
	err := func() (err error) {
		defer metric.Recover(&err)
		withAliases(httpFamilies(), []alias{{"x", "missing", "h"}}, true)
		return nil
	}()
	require.Error(t, err)
	assert.True(t, errors.HasAssertionFailure(err))
}
