package collector

import (
	"slices"

	"github.com/neox5/esbox/internal/metric"
	"github.com/neox5/esbox/internal/stats"
)

type jvmMetrics struct {
	runtime     []boundFamily[stats.JVMStats]
	pools       []boundFamily[stats.JVMMemPool]
	collectors  []boundFamily[stats.JVMCollector]
	bufferPools []boundFamily[stats.JVMBufferPool]
}

func jvmMemOf(j *stats.JVMStats) *stats.JVMMem         { return j.Mem }
func jvmThreadsOf(j *stats.JVMStats) *stats.JVMThreads { return j.Threads }
func jvmClassesOf(j *stats.JVMStats) *stats.JVMClasses { return j.Classes }

func jvmFamilies() []family[stats.JVMStats] {
	return slices.Concat(
		[]family[stats.JVMStats]{
			gauge("jvm_uptime_seconds", "", "JVM uptime",
				func(j *stats.JVMStats) float64 { return seconds(j.UptimeInMillis) }),
		},
		project(jvmMemOf,
			gauge("jvm_mem_heap_max_bytes", "", "Maximum used memory in heap",
				func(m *stats.JVMMem) float64 { return float64(m.HeapMaxInBytes) }),
			gauge("jvm_mem_heap_used_bytes", "", "Memory used in heap",
				func(m *stats.JVMMem) float64 { return float64(m.HeapUsedInBytes) }),
			gauge("jvm_mem_heap_used_percent", "", "Percentage of memory used in heap",
				func(m *stats.JVMMem) float64 { return float64(m.HeapUsedPercent) }),
			gauge("jvm_mem_nonheap_used_bytes", "", "Memory used apart from heap",
				func(m *stats.JVMMem) float64 { return float64(m.NonHeapUsedInBytes) }),
			gauge("jvm_mem_heap_committed_bytes", "", "Committed bytes in heap",
				func(m *stats.JVMMem) float64 { return float64(m.HeapCommittedInBytes) }),
			gauge("jvm_mem_nonheap_committed_bytes", "", "Committed bytes apart from heap",
				func(m *stats.JVMMem) float64 { return float64(m.NonHeapCommittedInBytes) }),
		),
		project(jvmThreadsOf,
			gauge("jvm_threads_number", "", "Number of threads",
				func(t *stats.JVMThreads) float64 { return float64(t.Count) }),
			gauge("jvm_threads_peak_number", "", "Peak number of threads",
				func(t *stats.JVMThreads) float64 { return float64(t.PeakCount) }),
		),
		project(jvmClassesOf,
			gauge("jvm_classes_loaded_number", "", "Count of loaded classes",
				func(c *stats.JVMClasses) float64 { return float64(c.CurrentLoadedCount) }),
			gauge("jvm_classes_total_loaded_number", "", "Total count of loaded classes",
				func(c *stats.JVMClasses) float64 { return float64(c.TotalLoadedCount) }),
			gauge("jvm_classes_unloaded_number", "", "Count of unloaded classes",
				func(c *stats.JVMClasses) float64 { return float64(c.TotalUnloadedCount) }),
		),
	)
}

func jvmPoolFamilies() []family[stats.JVMMemPool] {
	return []family[stats.JVMMemPool]{
		gauge("jvm_mem_pool_max_bytes", "", "Maximum usage of memory pool",
			func(p *stats.JVMMemPool) float64 { return float64(p.MaxInBytes) }),
		gauge("jvm_mem_pool_peak_max_bytes", "", "Maximum usage peak of memory pool",
			func(p *stats.JVMMemPool) float64 { return float64(p.PeakMaxInBytes) }),
		gauge("jvm_mem_pool_used_bytes", "", "Used memory in memory pool",
			func(p *stats.JVMMemPool) float64 { return float64(p.UsedInBytes) }),
		gauge("jvm_mem_pool_peak_used_bytes", "", "Used memory peak in memory pool",
			func(p *stats.JVMMemPool) float64 { return float64(p.PeakUsedInBytes) }),
	}
}

func jvmCollectorFamilies() []family[stats.JVMCollector] {
	return []family[stats.JVMCollector]{
		gauge("jvm_gc_collection_count", "", "Count of GC collections",
			func(g *stats.JVMCollector) float64 { return float64(g.CollectionCount) }),
		gauge("jvm_gc_collection_time_seconds", "", "Time spent for GC collections",
			func(g *stats.JVMCollector) float64 { return seconds(g.CollectionTimeInMillis) }),
	}
}

func jvmBufferPoolFamilies() []family[stats.JVMBufferPool] {
	return []family[stats.JVMBufferPool]{
		gauge("jvm_bufferpool_number", "", "Number of buffer pools",
			func(b *stats.JVMBufferPool) float64 { return float64(b.Count) }),
		gauge("jvm_bufferpool_total_capacity_bytes", "", "Total capacity provided by buffer pools",
			func(b *stats.JVMBufferPool) float64 { return float64(b.TotalCapacityInBytes) }),
		gauge("jvm_bufferpool_used_bytes", "", "Used memory in buffer pools",
			func(b *stats.JVMBufferPool) float64 { return float64(b.UsedInBytes) }),
	}
}

func (c *Collector) registerJVM() {
	c.jvm.runtime = bind(c.catalog, metric.ScopeNode, jvmFamilies())
	c.jvm.pools = bind(c.catalog, metric.ScopeNode, jvmPoolFamilies(), "pool")
	c.jvm.collectors = bind(c.catalog, metric.ScopeNode, jvmCollectorFamilies(), "gc")
	c.jvm.bufferPools = bind(c.catalog, metric.ScopeNode, jvmBufferPoolFamilies(), "bufferpool")
}

func (c *Collector) updateJVM(snap *stats.Snapshot) []string {
	if snap.Node == nil || snap.Node.JVM == nil {
		return nil
	}
	jvm := snap.Node.JVM

	skipped := emit(c.jvm.runtime, jvm)
	if jvm.Mem != nil {
		skipped = append(skipped, emitEach(c.jvm.pools, jvm.Mem.Pools)...)
	}
	if jvm.GC != nil {
		skipped = append(skipped, emitEach(c.jvm.collectors, jvm.GC.Collectors)...)
	}
	return append(skipped, emitEach(c.jvm.bufferPools, jvm.BufferPools)...)
}
