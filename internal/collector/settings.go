package collector

import (
	"github.com/neox5/esbox/internal/metric"
	"github.com/neox5/esbox/internal/stats"
)

// watermark reads one side of a watermark. A watermark set in bytes has no
// percent value and the other way round.
func watermark(get func(*stats.AllocationSettings) stats.Watermark, percent bool) func(*stats.AllocationSettings) (float64, bool) {
	return func(s *stats.AllocationSettings) (float64, bool) {
		w := get(s)
		v := w.Bytes
		if percent {
			v = w.Percent
		}
		if v == nil {
			return 0, false
		}
		return *v, true
	}
}

func lowOf(s *stats.AllocationSettings) stats.Watermark   { return s.Low }
func highOf(s *stats.AllocationSettings) stats.Watermark  { return s.High }
func floodOf(s *stats.AllocationSettings) stats.Watermark { return s.FloodStage }

func settingsFamilies() []family[stats.AllocationSettings] {
	return []family[stats.AllocationSettings]{
		gauge("cluster_routing_allocation_disk_threshold_enabled", "", "Disk allocation decider is enabled",
			func(s *stats.AllocationSettings) float64 { return boolValue(s.ThresholdEnabled) }),
		optGauge("cluster_routing_allocation_disk_watermark_low_bytes", "", "Low watermark for disk usage in bytes", watermark(lowOf, false)),
		optGauge("cluster_routing_allocation_disk_watermark_high_bytes", "", "High watermark for disk usage in bytes", watermark(highOf, false)),
		optGauge("cluster_routing_allocation_disk_watermark_flood_stage_bytes", "", "Flood stage for disk usage in bytes", watermark(floodOf, false)),
		optGauge("cluster_routing_allocation_disk_watermark_low_pct", "", "Low watermark for disk usage in pct", watermark(lowOf, true)),
		optGauge("cluster_routing_allocation_disk_watermark_high_pct", "", "High watermark for disk usage in pct", watermark(highOf, true)),
		optGauge("cluster_routing_allocation_disk_watermark_flood_stage_pct", "", "Flood stage watermark for disk usage in pct", watermark(floodOf, true)),
	}
}

func (c *Collector) registerSettings() {
	c.settings = bind(c.catalog, metric.ScopeCluster, settingsFamilies())
}

// updateSettings does not report unset watermark sides as skipped: a
// watermark is configured either in bytes or in percent.
func (c *Collector) updateSettings(snap *stats.Snapshot) []string {
	emit(c.settings, snap.Settings)
	return nil
}
