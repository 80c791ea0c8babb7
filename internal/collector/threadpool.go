package collector

import (
	"github.com/neox5/esbox/internal/metric"
	"github.com/neox5/esbox/internal/stats"
)

type threadPoolMetrics struct {
	current []boundFamily[stats.ThreadPoolStats]
	legacy  []boundFamily[stats.ThreadPoolStats]
}

func threadPoolFamilies() []family[stats.ThreadPoolStats] {
	return []family[stats.ThreadPoolStats]{
		gauge("threadpool_threads", "", "Number of threads in the thread pool",
			func(p *stats.ThreadPoolStats) float64 { return float64(p.Threads) }),
		gauge("threadpool_queue", "", "Number of tasks in queue for the thread pool",
			func(p *stats.ThreadPoolStats) float64 { return float64(p.Queue) }),
		gauge("threadpool_active", "", "Number of active threads in the thread pool",
			func(p *stats.ThreadPoolStats) float64 { return float64(p.Active) }),
		gauge("threadpool_largest", "", "Highest number of active threads in the thread pool",
			func(p *stats.ThreadPoolStats) float64 { return float64(p.Largest) }),
		counter("threadpool_rejected", "", "Total number of tasks rejected by the thread pool executor",
			func(p *stats.ThreadPoolStats) float64 { return float64(p.Rejected) }),
		counter("threadpool_completed", "", "Total Number of tasks completed by the thread pool executor",
			func(p *stats.ThreadPoolStats) float64 { return float64(p.Completed) }),
	}
}

// legacyThreadPoolFamilies are labelled by pool name first, then by type.
func legacyThreadPoolFamilies() []family[stats.ThreadPoolStats] {
	fams := []family[stats.ThreadPoolStats]{
		gaugeVec("threadpool_threads_number", "", "DEPRECATED: Number of threads in the thread pool", "type",
			at("threads", func(p *stats.ThreadPoolStats) float64 { return float64(p.Threads) }),
			at("active", func(p *stats.ThreadPoolStats) float64 { return float64(p.Active) }),
			at("largest", func(p *stats.ThreadPoolStats) float64 { return float64(p.Largest) }),
		),
		gaugeVec("threadpool_threads_count", "", "DEPRECATED: Count of threads in thread pool", "type",
			at("completed", func(p *stats.ThreadPoolStats) float64 { return float64(p.Completed) }),
			at("rejected", func(p *stats.ThreadPoolStats) float64 { return float64(p.Rejected) }),
		),
		gaugeVec("threadpool_tasks_number", "", "DEPRECATED: Number of tasks in thread pool", "type",
			at("queue", func(p *stats.ThreadPoolStats) float64 { return float64(p.Queue) }),
		),
	}
	for i := range fams {
		fams[i].fanoutFirst = true
	}
	return fams
}

func (c *Collector) registerThreadPool() {
	c.threadPool.current = bind(c.catalog, metric.ScopeNode, threadPoolFamilies(), "name")
	if c.opts.Deprecated {
		c.threadPool.legacy = bind(c.catalog, metric.ScopeNode, legacyThreadPoolFamilies(), "name")
	}
}

func (c *Collector) updateThreadPool(snap *stats.Snapshot) []string {
	if snap.Node == nil {
		return nil
	}
	skipped := emitEach(c.threadPool.current, snap.Node.ThreadPool)
	return append(skipped, emitEach(c.threadPool.legacy, snap.Node.ThreadPool)...)
}
