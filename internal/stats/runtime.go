package stats

type JVMStats struct {
	UptimeInMillis int64                     `json:"uptime_in_millis"`
	Mem            *JVMMem                   `json:"mem"`
	Threads        *JVMThreads               `json:"threads"`
	GC             *JVMGC                    `json:"gc"`
	BufferPools    map[string]*JVMBufferPool `json:"buffer_pools"`
	Classes        *JVMClasses               `json:"classes"`
}

type JVMMem struct {
	HeapUsedInBytes         int64                  `json:"heap_used_in_bytes"`
	HeapUsedPercent         int64                  `json:"heap_used_percent"`
	HeapCommittedInBytes    int64                  `json:"heap_committed_in_bytes"`
	HeapMaxInBytes          int64                  `json:"heap_max_in_bytes"`
	NonHeapUsedInBytes      int64                  `json:"non_heap_used_in_bytes"`
	NonHeapCommittedInBytes int64                  `json:"non_heap_committed_in_bytes"`
	Pools                   map[string]*JVMMemPool `json:"pools"`
}

type JVMMemPool struct {
	UsedInBytes     int64 `json:"used_in_bytes"`
	MaxInBytes      int64 `json:"max_in_bytes"`
	PeakUsedInBytes int64 `json:"peak_used_in_bytes"`
	PeakMaxInBytes  int64 `json:"peak_max_in_bytes"`
}

type JVMThreads struct {
	Count     int64 `json:"count"`
	PeakCount int64 `json:"peak_count"`
}

type JVMGC struct {
	Collectors map[string]*JVMCollector `json:"collectors"`
}

type JVMCollector struct {
	CollectionCount        int64 `json:"collection_count"`
	CollectionTimeInMillis int64 `json:"collection_time_in_millis"`
}

type JVMBufferPool struct {
	Count                int64 `json:"count"`
	UsedInBytes          int64 `json:"used_in_bytes"`
	TotalCapacityInBytes int64 `json:"total_capacity_in_bytes"`
}

type JVMClasses struct {
	CurrentLoadedCount int64 `json:"current_loaded_count"`
	TotalLoadedCount   int64 `json:"total_loaded_count"`
	TotalUnloadedCount int64 `json:"total_unloaded_count"`
}
