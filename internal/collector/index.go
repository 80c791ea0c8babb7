package collector

import (
	"maps"
	"slices"

	"github.com/neox5/esbox/internal/metric"
	"github.com/neox5/esbox/internal/stats"
)

// Per-index contexts of the indices stats API.
const (
	contextTotal     = "total"
	contextPrimaries = "primaries"
)

func indexHealthFamilies() []family[stats.IndexHealth] {
	return []family[stats.IndexHealth]{
		gauge("index_status", "", "Index status",
			func(h *stats.IndexHealth) float64 { return h.Status.Value() }),
		gauge("index_replicas_number", "", "Number of replicas",
			func(h *stats.IndexHealth) float64 { return float64(h.NumberOfReplicas) }),
		gaugeVec("index_shards_number", "", "Number of shards", "type",
			at("active", func(h *stats.IndexHealth) float64 { return float64(h.ActiveShards) }),
			at("shards", func(h *stats.IndexHealth) float64 { return float64(h.NumberOfShards) }),
			at("active_primary", func(h *stats.IndexHealth) float64 { return float64(h.ActivePrimaryShards) }),
			at("initializing", func(h *stats.IndexHealth) float64 { return float64(h.InitializingShards) }),
			at("relocating", func(h *stats.IndexHealth) float64 { return float64(h.RelocatingShards) }),
			at("unassigned", func(h *stats.IndexHealth) float64 { return float64(h.UnassignedShards) }),
		),
	}
}

// indexContextFamilies are emitted once per index and context.
func indexContextFamilies() []family[stats.CommonStats] {
	return slices.Concat(
		project(docsOf,
			gauge("index_doc_number", "", "Total number of documents",
				func(d *stats.DocsStats) float64 { return float64(d.Count) }),
			gauge("index_doc_deleted_number", "", "Number of deleted documents",
				func(d *stats.DocsStats) float64 { return float64(d.Deleted) }),
		),
		project(storeOf,
			gauge("index_store_size_bytes", "", "Store size of the indices in bytes",
				func(s *stats.StoreStats) float64 { return float64(s.SizeInBytes) }),
		),
		project(indexingOf,
			gauge("index_indexing_delete_count", "", "Count of documents deleted",
				func(i *stats.IndexingStats) float64 { return float64(i.DeleteTotal) }),
			gauge("index_indexing_delete_current_number", "", "Current rate of documents deleted",
				func(i *stats.IndexingStats) float64 { return float64(i.DeleteCurrent) }),
			gauge("index_indexing_delete_time_seconds", "", "Time spent while deleting documents",
				func(i *stats.IndexingStats) float64 { return seconds(i.DeleteTimeInMillis) }),
			gauge("index_indexing_index_count", "", "Count of documents indexed",
				func(i *stats.IndexingStats) float64 { return float64(i.IndexTotal) }),
			gauge("index_indexing_index_current_number", "", "Current rate of documents indexed",
				func(i *stats.IndexingStats) float64 { return float64(i.IndexCurrent) }),
			gauge("index_indexing_index_failed_count", "", "Count of failed to index documents",
				func(i *stats.IndexingStats) float64 { return float64(i.IndexFailed) }),
			gauge("index_indexing_index_time_seconds", "", "Time spent while indexing documents",
				func(i *stats.IndexingStats) float64 { return seconds(i.IndexTimeInMillis) }),
			gauge("index_indexing_noop_update_count", "", "Count of noop document updates",
				func(i *stats.IndexingStats) float64 { return float64(i.NoopUpdateTotal) }),
			gauge("index_indexing_is_throttled_bool", "", "Is indexing throttling ?",
				func(i *stats.IndexingStats) float64 { return boolValue(i.IsThrottled) }),
			gauge("index_indexing_throttle_time_seconds", "", "Time spent while throttling",
				func(i *stats.IndexingStats) float64 { return seconds(i.ThrottleTimeInMillis) }),
		),
		project(getOf,
			gauge("index_get_count", "", "Count of get commands",
				func(g *stats.GetStats) float64 { return float64(g.Total) }),
			gauge("index_get_time_seconds", "", "Time spent while get commands",
				func(g *stats.GetStats) float64 { return seconds(g.TimeInMillis) }),
			gauge("index_get_exists_count", "", "Count of existing documents when get command",
				func(g *stats.GetStats) float64 { return float64(g.ExistsTotal) }),
			gauge("index_get_exists_time_seconds", "", "Time spent while existing documents get command",
				func(g *stats.GetStats) float64 { return seconds(g.ExistsTimeInMillis) }),
			gauge("index_get_missing_count", "", "Count of missing documents when get command",
				func(g *stats.GetStats) float64 { return float64(g.MissingTotal) }),
			gauge("index_get_missing_time_seconds", "", "Time spent while missing documents get command",
				func(g *stats.GetStats) float64 { return seconds(g.MissingTimeInMillis) }),
			gauge("index_get_current_number", "", "Current rate of get commands",
				func(g *stats.GetStats) float64 { return float64(g.Current) }),
		),
		project(searchOf,
			gauge("index_search_open_contexts_number", "", "Number of search open contexts",
				func(s *stats.SearchStats) float64 { return float64(s.OpenContexts) }),
			gauge("index_search_fetch_count", "", "Count of search fetches",
				func(s *stats.SearchStats) float64 { return float64(s.FetchTotal) }),
			gauge("index_search_fetch_current_number", "", "Current rate of search fetches",
				func(s *stats.SearchStats) float64 { return float64(s.FetchCurrent) }),
			gauge("index_search_fetch_time_seconds", "", "Time spent while search fetches",
				func(s *stats.SearchStats) float64 { return seconds(s.FetchTimeInMillis) }),
			gauge("index_search_query_count", "", "Count of search queries",
				func(s *stats.SearchStats) float64 { return float64(s.QueryTotal) }),
			gauge("index_search_query_current_number", "", "Current rate of search queries",
				func(s *stats.SearchStats) float64 { return float64(s.QueryCurrent) }),
			gauge("index_search_query_time_seconds", "", "Time spent while search queries",
				func(s *stats.SearchStats) float64 { return seconds(s.QueryTimeInMillis) }),
			gauge("index_search_scroll_count", "", "Count of search scrolls",
				func(s *stats.SearchStats) float64 { return float64(s.ScrollTotal) }),
			gauge("index_search_scroll_current_number", "", "Current rate of search scrolls",
				func(s *stats.SearchStats) float64 { return float64(s.ScrollCurrent) }),
			gauge("index_search_scroll_time_seconds", "", "Time spent while search scrolls",
				func(s *stats.SearchStats) float64 { return seconds(s.ScrollTimeInMillis) }),
			gauge("index_suggest_current_number", "", "Current rate of suggests",
				func(s *stats.SearchStats) float64 { return float64(s.SuggestCurrent) }),
			gauge("index_suggest_count", "", "Count of suggests",
				func(s *stats.SearchStats) float64 { return float64(s.SuggestTotal) }),
			gauge("index_suggest_time_seconds", "", "Time spent while making suggests",
				func(s *stats.SearchStats) float64 { return seconds(s.SuggestTimeInMillis) }),
		),
		project(mergesOf,
			gauge("index_merges_current_number", "", "Current rate of merges",
				func(m *stats.MergeStats) float64 { return float64(m.Current) }),
			gauge("index_merges_current_docs_number", "", "Current rate of documents merged",
				func(m *stats.MergeStats) float64 { return float64(m.CurrentDocs) }),
			gauge("index_merges_current_size_bytes", "", "Current rate of bytes merged",
				func(m *stats.MergeStats) float64 { return float64(m.CurrentSizeInBytes) }),
			gauge("index_merges_total_number", "", "Count of merges",
				func(m *stats.MergeStats) float64 { return float64(m.Total) }),
			gauge("index_merges_total_time_seconds", "", "Time spent while merging",
				func(m *stats.MergeStats) float64 { return seconds(m.TotalTimeInMillis) }),
			gauge("index_merges_total_docs_count", "", "Count of documents merged",
				func(m *stats.MergeStats) float64 { return float64(m.TotalDocs) }),
			gauge("index_merges_total_size_bytes", "", "Count of bytes of merged documents",
				func(m *stats.MergeStats) float64 { return float64(m.TotalSizeInBytes) }),
			gauge("index_merges_total_stopped_time_seconds", "", "Time spent while merge process stopped",
				func(m *stats.MergeStats) float64 { return seconds(m.TotalStoppedTimeInMillis) }),
			gauge("index_merges_total_throttled_time_seconds", "", "Time spent while merging when throttling",
				func(m *stats.MergeStats) float64 { return seconds(m.TotalThrottledTimeInMillis) }),
			gauge("index_merges_total_auto_throttle_bytes", "", "Bytes merged while throttling",
				func(m *stats.MergeStats) float64 { return float64(m.TotalAutoThrottleInBytes) }),
		),
		project(refreshOf,
			gauge("index_refresh_total_count", "", "Count of refreshes",
				func(r *stats.RefreshStats) float64 { return float64(r.Total) }),
			gauge("index_refresh_total_time_seconds", "", "Time spent while refreshes",
				func(r *stats.RefreshStats) float64 { return seconds(r.TotalTimeInMillis) }),
			gauge("index_refresh_listeners_number", "", "Number of refresh listeners",
				func(r *stats.RefreshStats) float64 { return float64(r.Listeners) }),
		),
		project(flushOf,
			gauge("index_flush_total_count", "", "Count of flushes",
				func(f *stats.FlushStats) float64 { return float64(f.Total) }),
			gauge("index_flush_total_time_seconds", "", "Total time spent while flushes",
				func(f *stats.FlushStats) float64 { return seconds(f.TotalTimeInMillis) }),
		),
		project(queryCacheOf,
			gauge("index_querycache_cache_count", "", "Count of queries in cache",
				func(q *stats.QueryCacheStats) float64 { return float64(q.CacheCount) }),
			gauge("index_querycache_cache_size_bytes", "", "Query cache size",
				func(q *stats.QueryCacheStats) float64 { return float64(q.CacheSize) }),
			gauge("index_querycache_evictions_count", "", "Count of evictions in query cache",
				func(q *stats.QueryCacheStats) float64 { return float64(q.Evictions) }),
			gauge("index_querycache_hit_count", "", "Count of hits in query cache",
				func(q *stats.QueryCacheStats) float64 { return float64(q.HitCount) }),
			gauge("index_querycache_memory_size_bytes", "", "Memory usage of query cache",
				func(q *stats.QueryCacheStats) float64 { return float64(q.MemorySizeInBytes) }),
			gauge("index_querycache_miss_number", "", "Count of misses in query cache",
				func(q *stats.QueryCacheStats) float64 { return float64(q.MissCount) }),
			gauge("index_querycache_total_number", "", "Count of usages of query cache",
				func(q *stats.QueryCacheStats) float64 { return float64(q.TotalCount) }),
		),
		project(fielddataOf,
			gauge("index_fielddata_memory_size_bytes", "", "Memory usage of field date cache",
				func(f *stats.FielddataStats) float64 { return float64(f.MemorySizeInBytes) }),
			gauge("index_fielddata_evictions_count", "", "Count of evictions in field data cache",
				func(f *stats.FielddataStats) float64 { return float64(f.Evictions) }),
		),
		project(completionOf,
			gauge("index_completion_size_bytes", "", "Size of completion suggest statistics",
				func(c *stats.CompletionStats) float64 { return float64(c.SizeInBytes) }),
		),
		project(segmentsOf,
			gauge("index_segments_number", "", "Current number of segments",
				func(s *stats.SegmentsStats) float64 { return float64(s.Count) }),
			gaugeVec("index_segments_memory_bytes", "", "Memory used by segments", "type",
				segmentMemory()...),
		),
		project(requestCacheOf,
			gauge("index_requestcache_memory_size_bytes", "", "Memory used for request cache",
				func(r *stats.RequestCacheStats) float64 { return float64(r.MemorySizeInBytes) }),
			gauge("index_requestcache_hit_count", "", "Number of hits in request cache",
				func(r *stats.RequestCacheStats) float64 { return float64(r.HitCount) }),
			gauge("index_requestcache_miss_count", "", "Number of misses in request cache",
				func(r *stats.RequestCacheStats) float64 { return float64(r.MissCount) }),
			gauge("index_requestcache_evictions_count", "", "Number of evictions in request cache",
				func(r *stats.RequestCacheStats) float64 { return float64(r.Evictions) }),
		),
		project(recoveryOf,
			gaugeVec("index_recovery_current_number", "", "Current number of recoveries", "type",
				recoveryCurrent()...),
			gauge("index_recovery_throttle_time_seconds", "", "Time spent while throttling recoveries",
				func(r *stats.RecoveryStats) float64 { return seconds(r.ThrottleTimeInMillis) }),
		),
		project(translogOf,
			gauge("index_translog_operations_number", "", "Current number of translog operations",
				func(t *stats.TranslogStats) float64 { return float64(t.Operations) }),
			gauge("index_translog_size_bytes", "", "Translog size",
				func(t *stats.TranslogStats) float64 { return float64(t.SizeInBytes) }),
			gauge("index_translog_uncommitted_operations_number", "", "Current number of uncommitted translog operations",
				func(t *stats.TranslogStats) float64 { return float64(t.UncommittedOperations) }),
			gauge("index_translog_uncommitted_size_bytes", "", "Translog uncommitted size",
				func(t *stats.TranslogStats) float64 { return float64(t.UncommittedSizeInBytes) }),
		),
		project(warmerOf,
			gauge("index_warmer_current_number", "", "Current number of warmer",
				func(w *stats.WarmerStats) float64 { return float64(w.Current) }),
			gauge("index_warmer_time_seconds", "", "Time spent during warmers",
				func(w *stats.WarmerStats) float64 { return seconds(w.TotalTimeInMillis) }),
			gauge("index_warmer_count", "", "Counter of warmers",
				func(w *stats.WarmerStats) float64 { return float64(w.Total) }),
		),
	)
}

type indexMetrics struct {
	health   []boundFamily[stats.IndexHealth]
	contexts []boundFamily[stats.CommonStats]
}

func (c *Collector) registerIndex() {
	c.index.health = bind(c.catalog, metric.ScopeCluster, indexHealthFamilies(), "index")
	c.index.contexts = bind(c.catalog, metric.ScopeCluster, indexContextFamilies(), "index", "context")
}

// updateIndex needs both the cluster health and the indices stats. Indices
// missing from the health response only lose their health families.
func (c *Collector) updateIndex(snap *stats.Snapshot) []string {
	if snap.Health == nil || snap.Indices == nil {
		return nil
	}

	var skipped []string
	for _, name := range slices.Sorted(maps.Keys(snap.Indices.Indices)) {
		is := snap.Indices.Indices[name]
		if is == nil {
			continue
		}
		if h, ok := snap.Health.Indices[name]; ok {
			skipped = append(skipped, emit(c.index.health, h, name)...)
		} else {
			c.logger.Debug("index missing from cluster health", "index", name)
		}
		skipped = append(skipped, emit(c.index.contexts, is.Total, name, contextTotal)...)
		skipped = append(skipped, emit(c.index.contexts, is.Primaries, name, contextPrimaries)...)
	}
	return skipped
}
