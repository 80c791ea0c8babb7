package collector

import (
	"maps"
	"slices"

	"github.com/neox5/esbox/internal/metric"
	"github.com/neox5/esbox/internal/stats"
)

// Roles always reported, with 0 when the node lacks them.
var defaultRoles = []string{"master", "data", "ingest"}

type nodeMetrics struct {
	role    *metric.Gauge
	version *metric.Info
}

func (c *Collector) registerNode() {
	c.node.role = c.catalog.RegisterNodeGauge("node_role_bool", "", "Node role", "role")
	c.node.version = c.catalog.RegisterNodeInfo("node_version", "Node version",
		"version", "build_flavor", "build_type", "build_hash", "build_date")
}

func (c *Collector) updateNode(snap *stats.Snapshot) []string {
	n := snap.Node
	if n == nil {
		return nil
	}

	roles := make(map[string]bool, len(defaultRoles)+len(n.Roles))
	for _, r := range defaultRoles {
		roles[r] = false
	}
	for _, r := range n.Roles {
		roles[r] = true
	}
	for _, r := range slices.Sorted(maps.Keys(roles)) {
		c.node.role.SetBool(roles[r], r)
	}

	if snap.Info == nil {
		return []string{"node_version"}
	}
	v := snap.Info.Version
	c.node.version.Set(v.Number, v.BuildFlavor, v.BuildType, v.BuildHash, v.BuildDate)
	return nil
}
