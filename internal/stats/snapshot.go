// Package stats holds the Elasticsearch statistics read on every scrape.
//
// The types mirror the REST JSON of the endpoints esbox queries. Units stay as
// Elasticsearch reports them; conversion to base units happens in the
// collector. Sub-structures are pointers and nil means the section was absent.
package stats

// Snapshot is the read-only input of one scrape. Any section may be nil.
type Snapshot struct {
	Info     *NodeInfo
	Health   *ClusterHealth
	Node     *NodeStats
	Indices  *IndicesStats
	Settings *AllocationSettings
}

// NodeInfo is the response of GET /.
type NodeInfo struct {
	Name        string       `json:"name"`
	ClusterName string       `json:"cluster_name"`
	ClusterUUID string       `json:"cluster_uuid"`
	Version     BuildVersion `json:"version"`
}

// BuildVersion describes the Elasticsearch build of a node.
type BuildVersion struct {
	Number      string `json:"number"`
	BuildFlavor string `json:"build_flavor"`
	BuildType   string `json:"build_type"`
	BuildHash   string `json:"build_hash"`
	BuildDate   string `json:"build_date"`
}
