package collector

import (
	"slices"

	"github.com/neox5/esbox/internal/metric"
	"github.com/neox5/esbox/internal/stats"
)

// processMetrics keeps the unprefixed process families, which follow the
// client library naming, apart from the node scoped ones.
type processMetrics struct {
	standard []boundFamily[stats.ProcessStats]
	node     []boundFamily[stats.ProcessStats]
}

func processCPUOf(p *stats.ProcessStats) *stats.ProcessCPU { return p.CPU }
func processMemOf(p *stats.ProcessStats) *stats.ProcessMem { return p.Mem }

func standardProcessFamilies() []family[stats.ProcessStats] {
	return slices.Concat(
		project(processCPUOf,
			counter("process_cpu_seconds", "", "Total user and system CPU time spent in seconds.",
				func(c *stats.ProcessCPU) float64 { return seconds(c.TotalInMillis) }),
		),
		[]family[stats.ProcessStats]{
			gauge("process_open_fds", "", "Number of open file descriptors.",
				func(p *stats.ProcessStats) float64 { return float64(p.OpenFileDescriptors) }),
			gauge("process_max_fds", "", "Maximum number of open file descriptors.",
				func(p *stats.ProcessStats) float64 { return float64(p.MaxFileDescriptors) }),
		},
	)
}

func nodeProcessFamilies() []family[stats.ProcessStats] {
	return slices.Concat(
		project(processCPUOf,
			gauge("process_cpu_percent", "", "CPU usage in percent, or -1 if not known at the time the stats are computed.",
				func(c *stats.ProcessCPU) float64 { return float64(c.Percent) }),
			gauge("process_cpu_time", "seconds", "CPU time (in seconds) used by the process on which the Java virtual machine is running, or -1 if not supported.",
				func(c *stats.ProcessCPU) float64 {
					if c.TotalInMillis < 0 {
						return -1
					}
					return seconds(c.TotalInMillis)
				}),
		),
		project(processMemOf,
			gauge("process_mem_total_virtual", "bytes", "Size in bytes of virtual memory that is guaranteed to be available to the running process",
				func(m *stats.ProcessMem) float64 { return float64(m.TotalVirtualInBytes) }),
		),
		[]family[stats.ProcessStats]{
			gauge("process_file_descriptors_open_number", "", "Number of opened file descriptors associated with the current or -1 if not supported",
				func(p *stats.ProcessStats) float64 { return float64(p.OpenFileDescriptors) }),
			gauge("process_file_descriptors_max_number", "", "Maximum number of file descriptors allowed on the system, or -1 if not supported",
				func(p *stats.ProcessStats) float64 { return float64(p.MaxFileDescriptors) }),
		},
	)
}

func (c *Collector) registerProcess() {
	c.process.standard = bind(c.catalog, metric.ScopeNone, standardProcessFamilies())
	c.process.node = bind(c.catalog, metric.ScopeNode, nodeProcessFamilies())
}

func (c *Collector) updateProcess(snap *stats.Snapshot) []string {
	if snap.Node == nil {
		return nil
	}
	skipped := emit(c.process.standard, snap.Node.Process)
	return append(skipped, emit(c.process.node, snap.Node.Process)...)
}
