package collector

import (
	"slices"

	"github.com/neox5/esbox/internal/metric"
	"github.com/neox5/esbox/internal/stats"
)

type osMetrics struct {
	system       []boundFamily[stats.OSStats]
	cgroup       []boundFamily[stats.OSCgroup]
	controlGroup *metric.Info
}

func osCPUOf(o *stats.OSStats) *stats.OSCPU   { return o.CPU }
func osMemOf(o *stats.OSStats) *stats.OSMem   { return o.Mem }
func osSwapOf(o *stats.OSStats) *stats.OSSwap { return o.Swap }

func cpuAcctOf(g *stats.OSCgroup) *stats.CgroupCPUAcct     { return g.CPUAcct }
func cgroupCPUOf(g *stats.OSCgroup) *stats.CgroupCPU       { return g.CPU }
func cgroupMemoryOf(g *stats.OSCgroup) *stats.CgroupMemory { return g.Memory }
func cpuStatOf(c *stats.CgroupCPU) *stats.CgroupCPUStat    { return c.Stat }

func loadAverage(window string) func(*stats.OSCPU) (float64, bool) {
	return func(c *stats.OSCPU) (float64, bool) {
		v, ok := c.LoadAverage[window]
		return v, ok
	}
}

func osFamilies() []family[stats.OSStats] {
	return slices.Concat(
		project(osCPUOf,
			gauge("os_cpu_percent", "", "Recent CPU usage for the whole system",
				func(c *stats.OSCPU) float64 { return float64(c.Percent) }),
			optGauge("os_load_average_one_minute", "", "One-minute load average on the system", loadAverage("1m")),
			optGauge("os_load_average_five_minutes", "", "Five-minute load average on the system", loadAverage("5m")),
			optGauge("os_load_average_fifteen_minutes", "", "Fifteen-minute load average on the system", loadAverage("15m")),
		),
		project(osMemOf,
			gauge("os_mem_free", "bytes", "Amount of free physical memory in bytes",
				func(m *stats.OSMem) float64 { return float64(m.FreeInBytes) }),
			gauge("os_mem_free_percent", "", "Percentage of free memory",
				func(m *stats.OSMem) float64 { return float64(m.FreePercent) }),
			gauge("os_mem_used", "bytes", "Amount of used physical memory in bytes",
				func(m *stats.OSMem) float64 { return float64(m.UsedInBytes) }),
			gauge("os_mem_used_percent", "", "Percentage of used memory",
				func(m *stats.OSMem) float64 { return float64(m.UsedPercent) }),
			gauge("os_mem_total", "bytes", "Total amount of physical memory in bytes",
				func(m *stats.OSMem) float64 { return float64(m.TotalInBytes) }),
		),
		project(osSwapOf,
			gauge("os_swap_free", "bytes", "Amount of free swap space in bytes",
				func(s *stats.OSSwap) float64 { return float64(s.FreeInBytes) }),
			gauge("os_swap_used", "bytes", "Amount of used swap space in bytes",
				func(s *stats.OSSwap) float64 { return float64(s.UsedInBytes) }),
			gauge("os_swap_total", "bytes", "Total amount of swap space in bytes",
				func(s *stats.OSSwap) float64 { return float64(s.TotalInBytes) }),
		),
	)
}

func cgroupFamilies() []family[stats.OSCgroup] {
	return slices.Concat(
		project(cpuAcctOf,
			gauge("os_cgroup_cpuacct_usage", "seconds", "The total CPU time (in seconds) consumed by all tasks in the same cgroup as the Elasticsearch process",
				func(a *stats.CgroupCPUAcct) float64 { return nanosToSeconds(a.UsageNanos) }),
		),
		project(cgroupCPUOf,
			gauge("os_cgroup_cpu_cfs_period", "seconds", "The period of time (in seconds) for how regularly all tasks in the same cgroup as the Elasticsearch process should have their access to CPU resources reallocated",
				func(c *stats.CgroupCPU) float64 { return microsToSeconds(c.CFSPeriodMicros) }),
			gauge("os_cgroup_cpu_cfs_quota", "seconds", "The total amount of time (in seconds) for which all tasks in the same cgroup as the Elasticsearch process can run during one period cfs_period_micros",
				func(c *stats.CgroupCPU) float64 { return microsToSeconds(c.CFSQuotaMicros) }),
		),
		project(cgroupCPUOf, project(cpuStatOf,
			gauge("os_cgroup_cpu_cfs_stat_number_of_elapsed_periods", "", "The number of reporting periods (as specified by cfs_period_micros) that have elapsed",
				func(s *stats.CgroupCPUStat) float64 { return float64(s.NumberOfElapsedPeriods) }),
			gauge("os_cgroup_cpu_cfs_stat_number_of_times_throttled", "", "The number of times all tasks in the same cgroup as the Elasticsearch process have been throttled",
				func(s *stats.CgroupCPUStat) float64 { return float64(s.NumberOfTimesThrottled) }),
			gauge("os_cgroup_cpu_cfs_stat_time_throttled", "seconds", "The total amount of time (in seconds) for which all tasks in the same cgroup as the Elasticsearch process have been throttled",
				func(s *stats.CgroupCPUStat) float64 { return nanosToSeconds(s.TimeThrottledNanos) }),
		)...),
		// cgroup v2 reports "max" for an unlimited memory controller.
		project(cgroupMemoryOf,
			optGauge("os_cgroup_memory_limit", "bytes", "The maximum amount of user memory (including file cache) allowed for all tasks in the same cgroup as the Elasticsearch process",
				(*stats.CgroupMemory).Limit),
			optGauge("os_cgroup_memory_usage", "bytes", " The total current memory usage by processes in the cgroup (in bytes) by all tasks in the same cgroup as the Elasticsearch process",
				(*stats.CgroupMemory).Usage),
		),
	)
}

func (c *Collector) registerOS() {
	c.os.system = bind(c.catalog, metric.ScopeNode, osFamilies())
	c.os.cgroup = bind(c.catalog, metric.ScopeNode, cgroupFamilies())
	c.os.controlGroup = c.catalog.RegisterNodeInfo("os_cgroup_control_group",
		"The cpuacct control group to which the Elasticsearch process belongs", "group", "path")
}

func (c *Collector) updateOS(snap *stats.Snapshot) []string {
	if snap.Node == nil || snap.Node.OS == nil {
		return nil
	}
	os := snap.Node.OS

	skipped := emit(c.os.system, os)
	if os.Cgroup == nil {
		return skipped
	}
	if g := os.Cgroup.CPUAcct; g != nil {
		c.os.controlGroup.Set("cpuacct", g.ControlGroup)
	}
	if g := os.Cgroup.CPU; g != nil {
		c.os.controlGroup.Set("cpu", g.ControlGroup)
	}
	if g := os.Cgroup.Memory; g != nil {
		c.os.controlGroup.Set("memory", g.ControlGroup)
	}
	return append(skipped, emit(c.os.cgroup, os.Cgroup)...)
}
