package collector

import (
	"slices"

	"github.com/neox5/esbox/internal/metric"
	"github.com/neox5/esbox/internal/stats"
)

type clusterMetrics struct {
	healthStatus *metric.Enum
	families     []boundFamily[stats.ClusterHealth]
}

func clusterFamilies() []family[stats.ClusterHealth] {
	return []family[stats.ClusterHealth]{
		gauge("cluster_status", "", "Health status of the cluster, based on the state of its primary and replica shards",
			func(h *stats.ClusterHealth) float64 { return h.Status.Value() }),
		gauge("cluster_nodes_number", "", "The number of nodes within the cluster",
			func(h *stats.ClusterHealth) float64 { return float64(h.NumberOfNodes) }),
		gauge("cluster_datanodes_number", "", "The number of nodes that are dedicated data nodes",
			func(h *stats.ClusterHealth) float64 { return float64(h.NumberOfDataNodes) }),
		gauge("cluster_shards_active_percent", "", "The ratio of active shards in the cluster expressed as a percentage",
			func(h *stats.ClusterHealth) float64 { return h.ActiveShardsPercent }),
		gauge("cluster_shards_active", "ratio", "The ratio of active shards in the cluster",
			func(h *stats.ClusterHealth) float64 { return ratio(h.ActiveShardsPercent) }),
		gaugeVec("cluster_shards_number", "", "The number of shards by type", "type",
			at("active", func(h *stats.ClusterHealth) float64 { return float64(h.ActiveShards) }),
			at("active_primary", func(h *stats.ClusterHealth) float64 { return float64(h.ActivePrimaryShards) }),
			at("delayed_unassigned", func(h *stats.ClusterHealth) float64 { return float64(h.DelayedUnassignedShards) }),
			at("initializing", func(h *stats.ClusterHealth) float64 { return float64(h.InitializingShards) }),
			at("relocating", func(h *stats.ClusterHealth) float64 { return float64(h.RelocatingShards) }),
			at("unassigned", func(h *stats.ClusterHealth) float64 { return float64(h.UnassignedShards) }),
		),
		gauge("cluster_pending_tasks_number", "", "Number of pending tasks",
			func(h *stats.ClusterHealth) float64 { return float64(h.NumberOfPendingTasks) }),
		gauge("cluster_task_max_waiting_time", "seconds", "The time expressed in seconds since the earliest initiated task is waiting for being performed",
			func(h *stats.ClusterHealth) float64 { return seconds(h.TaskMaxWaitingInQueueMillis) }),
		gauge("cluster_is_timedout_bool", "", "If false the response returned within the period of time that is specified by the timeout parameter (30s by default)",
			func(h *stats.ClusterHealth) float64 { return boolValue(h.TimedOut) }),
		gauge("cluster_inflight_fetch_number", "", "The number of unfinished fetches",
			func(h *stats.ClusterHealth) float64 { return float64(h.NumberOfInFlightFetch) }),
	}
}

func (c *Collector) registerCluster() {
	c.cluster.healthStatus = c.catalog.RegisterClusterEnum("cluster_health_status",
		"Health status of the cluster, based on the state of its primary and replica shards as enumeration",
		stats.HealthStates)
	c.cluster.families = bind(c.catalog, metric.ScopeCluster, clusterFamilies())
}

func (c *Collector) updateCluster(snap *stats.Snapshot) []string {
	h := snap.Health
	if h == nil {
		return nil
	}
	skipped := emit(c.cluster.families, h)
	if slices.Contains(stats.HealthStates, string(h.Status)) {
		c.cluster.healthStatus.State(string(h.Status))
	} else {
		skipped = append(skipped, "cluster_health_status")
	}
	return skipped
}
