package collector

import (
	"github.com/neox5/esbox/internal/metric"
	"github.com/neox5/esbox/internal/stats"
)

func breakerFamilies() []family[stats.BreakerStats] {
	return []family[stats.BreakerStats]{
		gauge("circuitbreaker_estimated", "bytes", "Estimated memory used, in bytes, for the operation",
			func(b *stats.BreakerStats) float64 { return float64(b.EstimatedSizeInBytes) }),
		gauge("circuitbreaker_limit", "bytes", "Memory limit, in bytes, for the circuit breaker",
			func(b *stats.BreakerStats) float64 { return float64(b.LimitSizeInBytes) }),
		gauge("circuitbreaker_overhead_ratio", "", "A constant that all estimates for the circuit breaker are multiplied with to calculate a final estimate",
			func(b *stats.BreakerStats) float64 { return b.Overhead }),
		gauge("circuitbreaker_tripped_count", "", "Total number of times the circuit breaker has been triggered and prevented an out of memory error",
			func(b *stats.BreakerStats) float64 { return float64(b.Tripped) }),
	}
}

func scriptFamilies() []family[stats.ScriptStats] {
	return []family[stats.ScriptStats]{
		gauge("script_cache_evictions_count", "", "Total number of times the script cache has evicted old data",
			func(s *stats.ScriptStats) float64 { return float64(s.CacheEvictions) }),
		gauge("script_compilations_count", "", "Total number of inline script compilations performed by the node",
			func(s *stats.ScriptStats) float64 { return float64(s.Compilations) }),
		counter("script_compilations_limit_triggered", "", "Total number of times the script compilation circuit breaker has limited inline script compilations.",
			func(s *stats.ScriptStats) float64 { return float64(s.CompilationLimitTriggered) }),
	}
}

func (c *Collector) registerBreakers() {
	c.breakers = bind(c.catalog, metric.ScopeNode, breakerFamilies(), "name")
}

func (c *Collector) updateBreakers(snap *stats.Snapshot) []string {
	if snap.Node == nil {
		return nil
	}
	return emitEach(c.breakers, snap.Node.Breakers)
}

func (c *Collector) registerScript() {
	c.script = bind(c.catalog, metric.ScopeNode, scriptFamilies())
}

func (c *Collector) updateScript(snap *stats.Snapshot) []string {
	if snap.Node == nil {
		return nil
	}
	return emit(c.script, snap.Node.Script)
}
