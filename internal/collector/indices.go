package collector

import (
	"slices"

	"github.com/neox5/esbox/internal/metric"
	"github.com/neox5/esbox/internal/stats"
)

func docsOf(s *stats.CommonStats) *stats.DocsStats                 { return s.Docs }
func shardsOf(s *stats.CommonStats) *stats.ShardStats              { return s.ShardStats }
func storeOf(s *stats.CommonStats) *stats.StoreStats               { return s.Store }
func indexingOf(s *stats.CommonStats) *stats.IndexingStats         { return s.Indexing }
func getOf(s *stats.CommonStats) *stats.GetStats                   { return s.Get }
func searchOf(s *stats.CommonStats) *stats.SearchStats             { return s.Search }
func mergesOf(s *stats.CommonStats) *stats.MergeStats              { return s.Merges }
func refreshOf(s *stats.CommonStats) *stats.RefreshStats           { return s.Refresh }
func flushOf(s *stats.CommonStats) *stats.FlushStats               { return s.Flush }
func warmerOf(s *stats.CommonStats) *stats.WarmerStats             { return s.Warmer }
func queryCacheOf(s *stats.CommonStats) *stats.QueryCacheStats     { return s.QueryCache }
func fielddataOf(s *stats.CommonStats) *stats.FielddataStats       { return s.Fielddata }
func completionOf(s *stats.CommonStats) *stats.CompletionStats     { return s.Completion }
func segmentsOf(s *stats.CommonStats) *stats.SegmentsStats         { return s.Segments }
func translogOf(s *stats.CommonStats) *stats.TranslogStats         { return s.Translog }
func requestCacheOf(s *stats.CommonStats) *stats.RequestCacheStats { return s.RequestCache }
func recoveryOf(s *stats.CommonStats) *stats.RecoveryStats         { return s.Recovery }

// segmentMemory lists the segment memory breakdown shared by the node and
// per-index families, keyed by the type label.
func segmentMemory() []sample[stats.SegmentsStats] {
	return []sample[stats.SegmentsStats]{
		at("all", func(s *stats.SegmentsStats) float64 { return float64(s.MemoryInBytes) }),
		at("bitset", func(s *stats.SegmentsStats) float64 { return float64(s.FixedBitSetMemoryInBytes) }),
		at("docvalues", func(s *stats.SegmentsStats) float64 { return float64(s.DocValuesMemoryInBytes) }),
		at("indexwriter", func(s *stats.SegmentsStats) float64 { return float64(s.IndexWriterMemoryInBytes) }),
		at("norms", func(s *stats.SegmentsStats) float64 { return float64(s.NormsMemoryInBytes) }),
		at("storefields", func(s *stats.SegmentsStats) float64 { return float64(s.StoredFieldsMemoryInBytes) }),
		at("terms", func(s *stats.SegmentsStats) float64 { return float64(s.TermsMemoryInBytes) }),
		at("termvectors", func(s *stats.SegmentsStats) float64 { return float64(s.TermVectorsMemoryInBytes) }),
		at("versionmap", func(s *stats.SegmentsStats) float64 { return float64(s.VersionMapMemoryInBytes) }),
		at("points", func(s *stats.SegmentsStats) float64 { return float64(s.PointsMemoryInBytes) }),
	}
}

func recoveryCurrent() []sample[stats.RecoveryStats] {
	return []sample[stats.RecoveryStats]{
		at("source", func(r *stats.RecoveryStats) float64 { return float64(r.CurrentAsSource) }),
		at("target", func(r *stats.RecoveryStats) float64 { return float64(r.CurrentAsTarget) }),
	}
}

// nodeIndicesFamilies are the node-level aggregates of all shards on the node.
func nodeIndicesFamilies() []family[stats.CommonStats] {
	return slices.Concat(
		project(docsOf,
			gauge("indices_doc_number", "", "The number of documents across all local node primary shards. This excludes deleted documents and counts any nested documents separately from their parents. It also excludes documents which were indexed recently and do not yet belong to a segment",
				func(d *stats.DocsStats) float64 { return float64(d.Count) }),
			gauge("indices_doc_deleted_number", "", "The number of deleted documents across all local primary shards, which may be higher or lower than the number of delete operations you have performed. This number excludes deletes that were performed recently and do not yet belong to a segment",
				func(d *stats.DocsStats) float64 { return float64(d.Deleted) }),
		),
		project(shardsOf,
			optGauge("indices_shards_stats_total_count", "", "The total(current) number of shards assigned to the node",
				func(s *stats.ShardStats) (float64, bool) {
					if s.TotalCount == nil {
						return 0, false
					}
					return float64(*s.TotalCount), true
				}),
		),
		project(storeOf,
			gauge("indices_store_size", "bytes", "Total size, in bytes, of all shards assigned to the node",
				func(s *stats.StoreStats) float64 { return float64(s.SizeInBytes) }),
			gauge("indices_store_data_set_size", "bytes", "Total data set size, in bytes, of all shards assigned to the node. This includes the size of shards not stored fully on the node, such as the cache for partially mounted indices",
				func(s *stats.StoreStats) float64 { return float64(s.TotalDataSetSizeInBytes) }),
			gauge("indices_store_reserved_size", "bytes", "A prediction, in bytes, of how much larger the shard stores on this node will eventually grow due to ongoing peer recoveries, restoring snapshots, and similar activities. A value of -1 indicates that this is not available",
				func(s *stats.StoreStats) float64 { return float64(s.ReservedInBytes) }),
		),
		project(indexingOf,
			gauge("indices_indexing_delete_count", "", "Total number of deletion operations",
				func(i *stats.IndexingStats) float64 { return float64(i.DeleteTotal) }),
			gauge("indices_indexing_delete_current_number", "", "Number of deletion operations currently running",
				func(i *stats.IndexingStats) float64 { return float64(i.DeleteCurrent) }),
			gauge("indices_indexing_delete_time", "seconds", "Time in seconds spent performing deletion operations.",
				func(i *stats.IndexingStats) float64 { return seconds(i.DeleteTimeInMillis) }),
			gauge("indices_indexing_index_count", "", "Total number of indexing operations",
				func(i *stats.IndexingStats) float64 { return float64(i.IndexTotal) }),
			gauge("indices_indexing_index_current_number", "", "Number of indexing operations currently running",
				func(i *stats.IndexingStats) float64 { return float64(i.IndexCurrent) }),
			gauge("indices_indexing_index_failed_count", "", "Total number of failed indexing operations",
				func(i *stats.IndexingStats) float64 { return float64(i.IndexFailed) }),
			gauge("indices_indexing_index_time", "seconds", "Total time in seconds spent performing indexing operations",
				func(i *stats.IndexingStats) float64 { return seconds(i.IndexTimeInMillis) }),
			gauge("indices_indexing_noop_update_count", "", "Total number of noop operations",
				func(i *stats.IndexingStats) float64 { return float64(i.NoopUpdateTotal) }),
			gauge("indices_indexing_is_throttled_bool", "", "Is indexing throttling ?",
				func(i *stats.IndexingStats) float64 { return boolValue(i.IsThrottled) }),
			gauge("indices_indexing_throttle_time", "seconds", "Total time in seconds spent throttling operations",
				func(i *stats.IndexingStats) float64 { return seconds(i.ThrottleTimeInMillis) }),
		),
		project(getOf,
			gauge("indices_get_count", "", "Total number of 'get' operations",
				func(g *stats.GetStats) float64 { return float64(g.Total) }),
			gauge("indices_get_time", "seconds", "Time in seconds spent performing 'get' operations",
				func(g *stats.GetStats) float64 { return seconds(g.TimeInMillis) }),
			gauge("indices_get_exists_count", "", "Total number of successful 'get' operations",
				func(g *stats.GetStats) float64 { return float64(g.ExistsTotal) }),
			gauge("indices_get_exists_time", "seconds", "Time in seconds spent performing successful 'get' operations",
				func(g *stats.GetStats) float64 { return seconds(g.ExistsTimeInMillis) }),
			gauge("indices_get_missing_count", "", "Total number of failed 'get' operations",
				func(g *stats.GetStats) float64 { return float64(g.MissingTotal) }),
			gauge("indices_get_missing_time", "seconds", "Time in seconds spent performing failed 'get' operations",
				func(g *stats.GetStats) float64 { return seconds(g.MissingTimeInMillis) }),
			gauge("indices_get_current_number", "", "Number of 'get' operations currently running",
				func(g *stats.GetStats) float64 { return float64(g.Current) }),
		),
		project(searchOf,
			gauge("indices_search_open_contexts_number", "", "Number of search open contexts",
				func(s *stats.SearchStats) float64 { return float64(s.OpenContexts) }),
			gauge("indices_search_query_count", "", "Total number of query operations",
				func(s *stats.SearchStats) float64 { return float64(s.QueryTotal) }),
			gauge("indices_search_query_current_number", "", "Number of query operations currently running",
				func(s *stats.SearchStats) float64 { return float64(s.QueryCurrent) }),
			gauge("indices_search_query_time", "seconds", "Time in seconds spent performing query operations",
				func(s *stats.SearchStats) float64 { return seconds(s.QueryTimeInMillis) }),
			gauge("indices_search_fetch_count", "", "Total number of fetch operations",
				func(s *stats.SearchStats) float64 { return float64(s.FetchTotal) }),
			gauge("indices_search_fetch_current_number", "", "Number of fetch operations currently running",
				func(s *stats.SearchStats) float64 { return float64(s.FetchCurrent) }),
			gauge("indices_search_fetch_time", "seconds", "Time in seconds spent performing fetch operations",
				func(s *stats.SearchStats) float64 { return seconds(s.FetchTimeInMillis) }),
			gauge("indices_search_scroll_count", "", "Total number of scroll operations",
				func(s *stats.SearchStats) float64 { return float64(s.ScrollTotal) }),
			gauge("indices_search_scroll_current_number", "", "Number of scroll operations currently running",
				func(s *stats.SearchStats) float64 { return float64(s.ScrollCurrent) }),
			gauge("indices_search_scroll_time", "seconds", "Time in seconds spent performing scroll operations",
				func(s *stats.SearchStats) float64 { return seconds(s.ScrollTimeInMillis) }),
			gauge("indices_search_suggest_count", "", "Total number of suggest operations",
				func(s *stats.SearchStats) float64 { return float64(s.SuggestTotal) }),
			gauge("indices_search_suggest_current_number", "", "Number of suggest operations currently running",
				func(s *stats.SearchStats) float64 { return float64(s.SuggestCurrent) }),
			gauge("indices_search_suggest_time", "seconds", "Time in seconds spent performing suggest operations",
				func(s *stats.SearchStats) float64 { return seconds(s.SuggestTimeInMillis) }),
		),
		project(mergesOf,
			gauge("indices_merges_current_number", "", "Number of merge operations currently running",
				func(m *stats.MergeStats) float64 { return float64(m.Current) }),
			gauge("indices_merges_current_docs_number", "", "Number of document merges currently running",
				func(m *stats.MergeStats) float64 { return float64(m.CurrentDocs) }),
			gauge("indices_merges_current_size", "bytes", "Memory, in bytes, used performing current document merges.",
				func(m *stats.MergeStats) float64 { return float64(m.CurrentSizeInBytes) }),
			gauge("indices_merges_total_number", "", "Total number of merge operations",
				func(m *stats.MergeStats) float64 { return float64(m.Total) }),
			gauge("indices_merges_total_time", "seconds", "Total time in seconds spent performing merge operations",
				func(m *stats.MergeStats) float64 { return seconds(m.TotalTimeInMillis) }),
			gauge("indices_merges_total_docs_count", "", "Total number of merged documents",
				func(m *stats.MergeStats) float64 { return float64(m.TotalDocs) }),
			gauge("indices_merges_total_size", "bytes", "Total size of document merges in bytes",
				func(m *stats.MergeStats) float64 { return float64(m.TotalSizeInBytes) }),
			gauge("indices_merges_total_stopped_time", "seconds", "Total time in seconds spent stopping merge operations",
				func(m *stats.MergeStats) float64 { return seconds(m.TotalStoppedTimeInMillis) }),
			gauge("indices_merges_total_throttled_time", "seconds", "Total time in seconds spent throttling merge operations.",
				func(m *stats.MergeStats) float64 { return seconds(m.TotalThrottledTimeInMillis) }),
			gauge("indices_merges_total_auto_throttle", "bytes", "Size, in bytes, of automatically throttled merge operations",
				func(m *stats.MergeStats) float64 { return float64(m.TotalAutoThrottleInBytes) }),
		),
		project(refreshOf,
			gauge("indices_refresh_total_count", "", "Total number of refresh operations",
				func(r *stats.RefreshStats) float64 { return float64(r.Total) }),
			gauge("indices_refresh_total_time", "seconds", "Total time in seconds spent performing refresh operations",
				func(r *stats.RefreshStats) float64 { return seconds(r.TotalTimeInMillis) }),
			gauge("indices_refresh_external_total_count", "", "Total number of external refresh operations",
				func(r *stats.RefreshStats) float64 { return float64(r.ExternalTotal) }),
			gauge("indices_refresh_external_total_time", "seconds", "Total time in seconds spent performing external refresh operations",
				func(r *stats.RefreshStats) float64 { return seconds(r.ExternalTotalTimeInMillis) }),
			gauge("indices_refresh_listeners_number", "", "Number of refresh listeners",
				func(r *stats.RefreshStats) float64 { return float64(r.Listeners) }),
		),
		project(flushOf,
			gauge("indices_flush_total_count", "", "Total number of flush operations",
				func(f *stats.FlushStats) float64 { return float64(f.Total) }),
			counter("indices_flush_periodic", "", "Total number of periodic flush operations",
				func(f *stats.FlushStats) float64 { return float64(f.Periodic) }),
			gauge("indices_flush_total_time", "seconds", "Total time in seconds spent performing flush operations.",
				func(f *stats.FlushStats) float64 { return seconds(f.TotalTimeInMillis) }),
		),
		project(warmerOf,
			gauge("indices_warmer_current_number", "", "Number of active index warmers operations",
				func(w *stats.WarmerStats) float64 { return float64(w.Current) }),
			counter("indices_warmer", "", "Total number of index warmers operations",
				func(w *stats.WarmerStats) float64 { return float64(w.Total) }),
			counter("indices_warmer_time", "seconds", "Total time in seconds spent performing index warming operations",
				func(w *stats.WarmerStats) float64 { return seconds(w.TotalTimeInMillis) }),
		),
		project(queryCacheOf,
			gauge("indices_querycache_memory_size", "bytes", "Total amount of memory, in bytes, used for the query cache across all shards assigned to the node",
				func(q *stats.QueryCacheStats) float64 { return float64(q.MemorySizeInBytes) }),
			gauge("indices_querycache_total_number", "", "Total count of hits, misses, and cached queries in the query cache",
				func(q *stats.QueryCacheStats) float64 { return float64(q.TotalCount) }),
			gauge("indices_querycache_hit_count", "", "Number of query cache hits",
				func(q *stats.QueryCacheStats) float64 { return float64(q.HitCount) }),
			gauge("indices_querycache_miss_number", "", "Number of query cache misses",
				func(q *stats.QueryCacheStats) float64 { return float64(q.MissCount) }),
			gauge("indices_querycache_cache_size", "bytes", "Size, in bytes, of the query cache",
				func(q *stats.QueryCacheStats) float64 { return float64(q.CacheSize) }),
			gauge("indices_querycache_cache_count", "", "Count of queries in the query cache",
				func(q *stats.QueryCacheStats) float64 { return float64(q.CacheCount) }),
			gauge("indices_querycache_evictions_count", "", "Number of query cache evictions",
				func(q *stats.QueryCacheStats) float64 { return float64(q.Evictions) }),
		),
		project(fielddataOf,
			gauge("indices_fielddata_memory_size", "bytes", "Total amount of memory, in bytes, used for the field data cache across all shards assigned to the node",
				func(f *stats.FielddataStats) float64 { return float64(f.MemorySizeInBytes) }),
			gauge("indices_fielddata_evictions_count", "", "Total number of fielddata evictions",
				func(f *stats.FielddataStats) float64 { return float64(f.Evictions) }),
		),
		project(completionOf,
			gauge("indices_completion_size", "bytes", "Total amount of memory, in bytes, used for completion across all shards assigned to the node",
				func(c *stats.CompletionStats) float64 { return float64(c.SizeInBytes) }),
		),
		project(segmentsOf,
			gauge("indices_segments_number", "", "Current number of segments",
				func(s *stats.SegmentsStats) float64 { return float64(s.Count) }),
			gaugeVec("indices_segments_memory", "bytes", "Total amount of memory, in bytes, used for segments across all shards assigned to the node", "type",
				segmentMemory()...),
			gauge("indices_segments_max_unsafe_auto_id_timestamp", "", "Time of the most recently retried indexing request. Recorded in seconds since the Unix Epoch.",
				func(s *stats.SegmentsStats) float64 { return seconds(s.MaxUnsafeAutoIDTimestamp) }),
		),
		project(translogOf,
			gauge("indices_translog_operations_number", "", "Number of transaction log operations",
				func(t *stats.TranslogStats) float64 { return float64(t.Operations) }),
			gauge("indices_translog_size", "bytes", "Size, in bytes, of the transaction log",
				func(t *stats.TranslogStats) float64 { return float64(t.SizeInBytes) }),
			gauge("indices_translog_uncommitted_operations_number", "", "Number of uncommitted transaction log operations",
				func(t *stats.TranslogStats) float64 { return float64(t.UncommittedOperations) }),
			gauge("indices_translog_uncommitted_size", "bytes", "Size, in bytes, of uncommitted transaction log operations",
				func(t *stats.TranslogStats) float64 { return float64(t.UncommittedSizeInBytes) }),
			gauge("indices_translog_earliest_last_modified_age", "", "Earliest last modified age in seconds for the transaction log",
				func(t *stats.TranslogStats) float64 { return seconds(t.EarliestLastModifiedAge) }),
		),
		project(requestCacheOf,
			gauge("indices_requestcache_memory_size_bytes", "", "Memory, in bytes, used by the request cache.",
				func(r *stats.RequestCacheStats) float64 { return float64(r.MemorySizeInBytes) }),
			gauge("indices_requestcache_hit_count", "", "Number of request cache hits.",
				func(r *stats.RequestCacheStats) float64 { return float64(r.HitCount) }),
			gauge("indices_requestcache_miss_count", "", "Number of request cache misses",
				func(r *stats.RequestCacheStats) float64 { return float64(r.MissCount) }),
			gauge("indices_requestcache_evictions_count", "", "Number of evictions in request cache",
				func(r *stats.RequestCacheStats) float64 { return float64(r.Evictions) }),
		),
		project(recoveryOf,
			gaugeVec("indices_recovery_current_number", "", "Current number of recoveries", "type",
				recoveryCurrent()...),
			gauge("indices_recovery_throttle_time", "seconds", "Time spent while throttling recoveries",
				func(r *stats.RecoveryStats) float64 { return seconds(r.ThrottleTimeInMillis) }),
		),
	)
}

func (c *Collector) registerIndices() {
	c.indices = bind(c.catalog, metric.ScopeNode, nodeIndicesFamilies())
}

func (c *Collector) updateIndices(snap *stats.Snapshot) []string {
	n := snap.Node
	if n == nil {
		return nil
	}
	return emit(c.indices, n.Indices)
}
