package stats

type FSStats struct {
	Total   *FSTotal   `json:"total"`
	Data    []*FSPath  `json:"data"`
	IOStats *FSIOStats `json:"io_stats"`
}

type FSTotal struct {
	TotalInBytes     int64 `json:"total_in_bytes"`
	FreeInBytes      int64 `json:"free_in_bytes"`
	AvailableInBytes int64 `json:"available_in_bytes"`
}

type FSPath struct {
	FSTotal
	Path  string `json:"path"`
	Mount string `json:"mount"`
	Type  string `json:"type"`
}

// FSIOStats is only reported on Linux.
type FSIOStats struct {
	Devices []*DeviceIO `json:"devices"`
	Total   *IOCounters `json:"total"`
}

type IOCounters struct {
	Operations      int64 `json:"operations"`
	ReadOperations  int64 `json:"read_operations"`
	WriteOperations int64 `json:"write_operations"`
	ReadKilobytes   int64 `json:"read_kilobytes"`
	WriteKilobytes  int64 `json:"write_kilobytes"`
	IOTimeInMillis  int64 `json:"io_time_in_millis"`
}

// DeviceIO leaves DeviceName nil when the node does not report it.
type DeviceIO struct {
	IOCounters
	DeviceName *string `json:"device_name"`
}
