package stats

// NodesStatsResponse is the response of GET /_nodes/_local/stats.
type NodesStatsResponse struct {
	ClusterName string                `json:"cluster_name"`
	Nodes       map[string]*NodeStats `json:"nodes"`
}

// Local returns the single node of a _local response with its ID filled in.
func (r *NodesStatsResponse) Local() (*NodeStats, bool) {
	for id, n := range r.Nodes {
		if n == nil {
			continue
		}
		n.ID = id
		return n, true
	}
	return nil, false
}

// NodeStats holds the statistics of the node esbox is attached to.
type NodeStats struct {
	ID               string                      `json:"-"`
	Name             string                      `json:"name"`
	Host             string                      `json:"host"`
	Roles            []string                    `json:"roles"`
	Indices          *CommonStats                `json:"indices"`
	OS               *OSStats                    `json:"os"`
	Process          *ProcessStats               `json:"process"`
	JVM              *JVMStats                   `json:"jvm"`
	ThreadPool       map[string]*ThreadPoolStats `json:"thread_pool"`
	FS               *FSStats                    `json:"fs"`
	Transport        *TransportStats             `json:"transport"`
	HTTP             *HTTPStats                  `json:"http"`
	Breakers         map[string]*BreakerStats    `json:"breakers"`
	Script           *ScriptStats                `json:"script"`
	Ingest           *IngestStats                `json:"ingest"`
	IndexingPressure *IndexingPressureStats      `json:"indexing_pressure"`
}

// HasRole reports whether the node carries the given role.
func (n *NodeStats) HasRole(role string) bool {
	for _, r := range n.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type TransportStats struct {
	ServerOpen               int64  `json:"server_open"`
	TotalOutboundConnections *int64 `json:"total_outbound_connections"`
	RxCount                  int64  `json:"rx_count"`
	RxSizeInBytes            int64  `json:"rx_size_in_bytes"`
	TxCount                  int64  `json:"tx_count"`
	TxSizeInBytes            int64  `json:"tx_size_in_bytes"`
}

type HTTPStats struct {
	CurrentOpen int64 `json:"current_open"`
	TotalOpened int64 `json:"total_opened"`
}

type ThreadPoolStats struct {
	Threads   int64 `json:"threads"`
	Queue     int64 `json:"queue"`
	Active    int64 `json:"active"`
	Rejected  int64 `json:"rejected"`
	Largest   int64 `json:"largest"`
	Completed int64 `json:"completed"`
}

type BreakerStats struct {
	LimitSizeInBytes     int64   `json:"limit_size_in_bytes"`
	EstimatedSizeInBytes int64   `json:"estimated_size_in_bytes"`
	Overhead             float64 `json:"overhead"`
	Tripped              int64   `json:"tripped"`
}

type ScriptStats struct {
	Compilations              int64 `json:"compilations"`
	CacheEvictions            int64 `json:"cache_evictions"`
	CompilationLimitTriggered int64 `json:"compilation_limit_triggered"`
}

// IngestStats carries cluster-wide totals and per-pipeline breakdowns.
type IngestStats struct {
	Total     *IngestCounters           `json:"total"`
	Pipelines map[string]*PipelineStats `json:"pipelines"`
}

type IngestCounters struct {
	Count        int64 `json:"count"`
	TimeInMillis int64 `json:"time_in_millis"`
	Current      int64 `json:"current"`
	Failed       int64 `json:"failed"`
}

type PipelineStats struct {
	IngestCounters
	// Each element maps a single processor name (optionally ":tag") to its stats.
	Processors []map[string]*ProcessorStats `json:"processors"`
}

type ProcessorStats struct {
	Type  string          `json:"type"`
	Stats *IngestCounters `json:"stats"`
}

type ProcessStats struct {
	OpenFileDescriptors int64       `json:"open_file_descriptors"`
	MaxFileDescriptors  int64       `json:"max_file_descriptors"`
	CPU                 *ProcessCPU `json:"cpu"`
	Mem                 *ProcessMem `json:"mem"`
}

type ProcessCPU struct {
	Percent       int64 `json:"percent"`
	TotalInMillis int64 `json:"total_in_millis"`
}

type ProcessMem struct {
	TotalVirtualInBytes int64 `json:"total_virtual_in_bytes"`
}

type IndexingPressureStats struct {
	Memory *IndexingPressureMemory `json:"memory"`
}

// IndexingPressureMemory keeps the limit optional; nodes before 7.10 omit it.
type IndexingPressureMemory struct {
	Current      *IndexingPressureCurrent `json:"current"`
	Total        *IndexingPressureTotal   `json:"total"`
	LimitInBytes *int64                   `json:"limit_in_bytes"`
}

type IndexingPressureCurrent struct {
	CombinedCoordinatingAndPrimaryInBytes int64 `json:"combined_coordinating_and_primary_in_bytes"`
	CoordinatingInBytes                   int64 `json:"coordinating_in_bytes"`
	PrimaryInBytes                        int64 `json:"primary_in_bytes"`
	ReplicaInBytes                        int64 `json:"replica_in_bytes"`
	AllInBytes                            int64 `json:"all_in_bytes"`
}

type IndexingPressureTotal struct {
	IndexingPressureCurrent
	CoordinatingRejections int64 `json:"coordinating_rejections"`
	PrimaryRejections      int64 `json:"primary_rejections"`
	ReplicaRejections      int64 `json:"replica_rejections"`
}
