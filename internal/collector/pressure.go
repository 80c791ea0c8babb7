package collector

import (
	"slices"

	"github.com/neox5/esbox/internal/metric"
	"github.com/neox5/esbox/internal/stats"
)

func pressureMemoryOf(p *stats.IndexingPressureStats) *stats.IndexingPressureMemory { return p.Memory }

func pressureCurrentOf(m *stats.IndexingPressureMemory) *stats.IndexingPressureCurrent {
	return m.Current
}

func pressureTotalOf(m *stats.IndexingPressureMemory) *stats.IndexingPressureTotal {
	return m.Total
}

// allBytes recomputes the "all" figure, which older versions do not report.
func allBytes(c *stats.IndexingPressureCurrent) float64 {
	return float64(c.ReplicaInBytes + c.CombinedCoordinatingAndPrimaryInBytes)
}

func pressureFamilies() []family[stats.IndexingPressureStats] {
	return project(pressureMemoryOf, slices.Concat(
		project(pressureCurrentOf,
			gauge("indexing_pressure_memory_current_combined_coordinating_and_primary", "bytes", "Memory consumed, in bytes, by indexing requests in the coordinating or primary stage. This value is not the sum of coordinating and primary as a node can reuse the coordinating memory if the primary stage is executed locally",
				func(c *stats.IndexingPressureCurrent) float64 { return float64(c.CombinedCoordinatingAndPrimaryInBytes) }),
			gauge("indexing_pressure_memory_current_coordinating", "bytes", "Memory consumed, in bytes, by indexing requests in the coordinating stage",
				func(c *stats.IndexingPressureCurrent) float64 { return float64(c.CoordinatingInBytes) }),
			gauge("indexing_pressure_memory_current_primary", "bytes", "Memory consumed, in bytes, by indexing requests in the primary stage",
				func(c *stats.IndexingPressureCurrent) float64 { return float64(c.PrimaryInBytes) }),
			gauge("indexing_pressure_memory_current_replica", "bytes", "Memory consumed, in bytes, by indexing requests in the replica stage",
				func(c *stats.IndexingPressureCurrent) float64 { return float64(c.ReplicaInBytes) }),
			gauge("indexing_pressure_memory_current_all", "bytes", "Memory consumed, in bytes, by indexing requests in the coordinating, primary, or replica stage",
				allBytes),
		),
		project(pressureTotalOf,
			counter("indexing_pressure_memory_combined_coordinating_and_primary", "bytes", "Total memory consumed, in bytes, by indexing requests in the coordinating or primary stage. This value is not the sum of coordinating and primary as a node can reuse the coordinating memory if the primary stage is executed locally",
				func(t *stats.IndexingPressureTotal) float64 { return float64(t.CombinedCoordinatingAndPrimaryInBytes) }),
			counter("indexing_pressure_memory_coordinating", "bytes", "Total cumulative memory consumed, in bytes, by indexing requests in the coordinating stage ",
				func(t *stats.IndexingPressureTotal) float64 { return float64(t.CoordinatingInBytes) }),
			counter("indexing_pressure_memory_primary", "bytes", "Total cumulative Memory consumed, in bytes, by indexing requests in the primary stage",
				func(t *stats.IndexingPressureTotal) float64 { return float64(t.PrimaryInBytes) }),
			counter("indexing_pressure_memory_replica", "bytes", "Total cumulative Memory consumed, in bytes, by indexing requests in the replica stage",
				func(t *stats.IndexingPressureTotal) float64 { return float64(t.ReplicaInBytes) }),
			counter("indexing_pressure_memory_all", "bytes", "Total cumulative Memory consumed, in bytes, by indexing requests in the coordinating, primary, or replica stage",
				func(t *stats.IndexingPressureTotal) float64 { return allBytes(&t.IndexingPressureCurrent) }),
			counter("indexing_pressure_memory_coordinating_rejections", "", "Total number of indexing requests rejected in the coordinating stage",
				func(t *stats.IndexingPressureTotal) float64 { return float64(t.CoordinatingRejections) }),
			counter("indexing_pressure_memory_primary_rejections", "", "Total number of indexing requests rejected in the primary stage",
				func(t *stats.IndexingPressureTotal) float64 { return float64(t.PrimaryRejections) }),
			counter("indexing_pressure_memory_replica_rejections", "", "Total number of indexing requests rejected in the replica stage",
				func(t *stats.IndexingPressureTotal) float64 { return float64(t.ReplicaRejections) }),
		),
		[]family[stats.IndexingPressureMemory]{
			optGauge("indexing_pressure_memory", "bytes", "Configured memory limit, in bytes, for the indexing requests. Replica requests have an automatic limit that is 1.5x this value",
				func(m *stats.IndexingPressureMemory) (float64, bool) {
					if m.LimitInBytes == nil {
						return 0, false
					}
					return float64(*m.LimitInBytes), true
				}),
		},
	)...)
}

func (c *Collector) registerPressure() {
	c.pressure = bind(c.catalog, metric.ScopeNode, pressureFamilies())
}

func (c *Collector) updatePressure(snap *stats.Snapshot) []string {
	if snap.Node == nil {
		return nil
	}
	return emit(c.pressure, snap.Node.IndexingPressure)
}
