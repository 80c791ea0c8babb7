package stats

import "strings"

// HealthStatus is the traffic-light status of a cluster or index.
type HealthStatus string

const (
	StatusGreen  HealthStatus = "GREEN"
	StatusYellow HealthStatus = "YELLOW"
	StatusRed    HealthStatus = "RED"
)

// HealthStates lists the closed set of health states in severity order.
var HealthStates = []string{string(StatusGreen), string(StatusYellow), string(StatusRed)}

// UnmarshalText accepts the lower case form Elasticsearch returns.
func (s *HealthStatus) UnmarshalText(text []byte) error {
	*s = HealthStatus(strings.ToUpper(string(text)))
	return nil
}

// Value returns the numeric severity: green 0, yellow 1, red 2, unknown -1.
func (s HealthStatus) Value() float64 {
	switch s {
	case StatusGreen:
		return 0
	case StatusYellow:
		return 1
	case StatusRed:
		return 2
	default:
		return -1
	}
}

// ClusterHealth is the response of GET /_cluster/health?level=indices.
type ClusterHealth struct {
	ClusterName                 string                  `json:"cluster_name"`
	Status                      HealthStatus            `json:"status"`
	TimedOut                    bool                    `json:"timed_out"`
	NumberOfNodes               int64                   `json:"number_of_nodes"`
	NumberOfDataNodes           int64                   `json:"number_of_data_nodes"`
	ActivePrimaryShards         int64                   `json:"active_primary_shards"`
	ActiveShards                int64                   `json:"active_shards"`
	RelocatingShards            int64                   `json:"relocating_shards"`
	InitializingShards          int64                   `json:"initializing_shards"`
	UnassignedShards            int64                   `json:"unassigned_shards"`
	DelayedUnassignedShards     int64                   `json:"delayed_unassigned_shards"`
	NumberOfPendingTasks        int64                   `json:"number_of_pending_tasks"`
	NumberOfInFlightFetch       int64                   `json:"number_of_in_flight_fetch"`
	TaskMaxWaitingInQueueMillis int64                   `json:"task_max_waiting_in_queue_millis"`
	ActiveShardsPercent         float64                 `json:"active_shards_percent_as_number"`
	Indices                     map[string]*IndexHealth `json:"indices"`
}

// IndexHealth is the per-index part of ClusterHealth.
type IndexHealth struct {
	Status              HealthStatus `json:"status"`
	NumberOfShards      int64        `json:"number_of_shards"`
	NumberOfReplicas    int64        `json:"number_of_replicas"`
	ActivePrimaryShards int64        `json:"active_primary_shards"`
	ActiveShards        int64        `json:"active_shards"`
	RelocatingShards    int64        `json:"relocating_shards"`
	InitializingShards  int64        `json:"initializing_shards"`
	UnassignedShards    int64        `json:"unassigned_shards"`
}
