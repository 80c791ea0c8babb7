package collector

import (
	"maps"
	"slices"

	"github.com/neox5/esbox/internal/metric"
	"github.com/neox5/esbox/internal/stats"
)

type ingestMetrics struct {
	total      []boundFamily[stats.IngestStats]
	pipelines  []boundFamily[stats.PipelineStats]
	processors []boundFamily[stats.ProcessorStats]
}

func countersOf(p *stats.ProcessorStats) *stats.IngestCounters { return p.Stats }
func ingestTotalOf(s *stats.IngestStats) *stats.IngestCounters { return s.Total }

func ingestTotalFamilies() []family[stats.IngestStats] {
	return project(ingestTotalOf,
		gauge("ingest_total_count", "", "Total number of documents ingested during the lifetime of this node",
			func(i *stats.IngestCounters) float64 { return float64(i.Count) }),
		gauge("ingest_total_time", "seconds", "Total time, in seconds, spent preprocessing ingest documents during the lifetime of this node",
			func(i *stats.IngestCounters) float64 { return seconds(i.TimeInMillis) }),
		gauge("ingest_total_current", "", "Total number of documents currently being ingested",
			func(i *stats.IngestCounters) float64 { return float64(i.Current) }),
		gauge("ingest_total_failed_count", "", "Total number of failed ingest operations during the lifetime of this node",
			func(i *stats.IngestCounters) float64 { return float64(i.Failed) }),
	)
}

func pipelineFamilies() []family[stats.PipelineStats] {
	return []family[stats.PipelineStats]{
		gauge("ingest_pipeline_total_count", "", "Total Number of documents preprocessed by the ingest pipeline",
			func(p *stats.PipelineStats) float64 { return float64(p.Count) }),
		gauge("ingest_pipeline_total_time", "seconds", "Total time, in seconds, spent preprocessing documents in the ingest pipeline",
			func(p *stats.PipelineStats) float64 { return seconds(p.TimeInMillis) }),
		gauge("ingest_pipeline_total_current", "", "Number of documents currently being ingested by the ingest pipeline",
			func(p *stats.PipelineStats) float64 { return float64(p.Current) }),
		gauge("ingest_pipeline_total_failed_count", "", "Total number of failed operations for the ingest pipeline",
			func(p *stats.PipelineStats) float64 { return float64(p.Failed) }),
	}
}

func processorFamilies() []family[stats.ProcessorStats] {
	return project(countersOf,
		gauge("ingest_pipeline_processor_total_count", "", "Total Number of documents transformed by the processor",
			func(i *stats.IngestCounters) float64 { return float64(i.Count) }),
		gauge("ingest_pipeline_processor_total_time", "seconds", "Total time, in seconds, spent by the processor transforming documents",
			func(i *stats.IngestCounters) float64 { return seconds(i.TimeInMillis) }),
		gauge("ingest_pipeline_processor_total_current", "", "Number of documents currently being transformed by the processor",
			func(i *stats.IngestCounters) float64 { return float64(i.Current) }),
		gauge("ingest_pipeline_processor_total_failed_count", "", "Total number of failed operations for the processor",
			func(i *stats.IngestCounters) float64 { return float64(i.Failed) }),
	)
}

func (c *Collector) registerIngest() {
	c.ingest.total = bind(c.catalog, metric.ScopeNode, ingestTotalFamilies())
	c.ingest.pipelines = bind(c.catalog, metric.ScopeNode, pipelineFamilies(), "pipeline")
	c.ingest.processors = bind(c.catalog, metric.ScopeNode, processorFamilies(), "pipeline", "processor")
}

func (c *Collector) updateIngest(snap *stats.Snapshot) []string {
	if snap.Node == nil || snap.Node.Ingest == nil {
		return nil
	}
	ingest := snap.Node.Ingest

	skipped := emit(c.ingest.total, ingest)
	for _, name := range slices.Sorted(maps.Keys(ingest.Pipelines)) {
		p := ingest.Pipelines[name]
		if p == nil {
			continue
		}
		skipped = append(skipped, emit(c.ingest.pipelines, p, name)...)
		// Each entry holds a single processor keyed by its name or tag.
		for _, entry := range p.Processors {
			skipped = append(skipped, emitEach(c.ingest.processors, entry, name)...)
		}
	}
	return skipped
}
