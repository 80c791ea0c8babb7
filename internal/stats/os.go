package stats

import "strconv"

type OSStats struct {
	CPU    *OSCPU    `json:"cpu"`
	Mem    *OSMem    `json:"mem"`
	Swap   *OSSwap   `json:"swap"`
	Cgroup *OSCgroup `json:"cgroup"`
}

// OSCPU keys the load averages by "1m", "5m" and "15m". Platforms without
// load averages omit the map.
type OSCPU struct {
	Percent     int64              `json:"percent"`
	LoadAverage map[string]float64 `json:"load_average"`
}

type OSMem struct {
	TotalInBytes int64 `json:"total_in_bytes"`
	FreeInBytes  int64 `json:"free_in_bytes"`
	UsedInBytes  int64 `json:"used_in_bytes"`
	FreePercent  int64 `json:"free_percent"`
	UsedPercent  int64 `json:"used_percent"`
}

type OSSwap struct {
	TotalInBytes int64 `json:"total_in_bytes"`
	FreeInBytes  int64 `json:"free_in_bytes"`
	UsedInBytes  int64 `json:"used_in_bytes"`
}

type OSCgroup struct {
	CPUAcct *CgroupCPUAcct `json:"cpuacct"`
	CPU     *CgroupCPU     `json:"cpu"`
	Memory  *CgroupMemory  `json:"memory"`
}

type CgroupCPUAcct struct {
	ControlGroup string `json:"control_group"`
	UsageNanos   int64  `json:"usage_nanos"`
}

type CgroupCPU struct {
	ControlGroup    string         `json:"control_group"`
	CFSPeriodMicros int64          `json:"cfs_period_micros"`
	CFSQuotaMicros  int64          `json:"cfs_quota_micros"`
	Stat            *CgroupCPUStat `json:"stat"`
}

type CgroupCPUStat struct {
	NumberOfElapsedPeriods int64 `json:"number_of_elapsed_periods"`
	NumberOfTimesThrottled int64 `json:"number_of_times_throttled"`
	TimeThrottledNanos     int64 `json:"time_throttled_nanos"`
}

// CgroupMemory reports limit and usage as strings; cgroup v2 uses "max" for
// an unlimited group.
type CgroupMemory struct {
	ControlGroup string `json:"control_group"`
	LimitInBytes string `json:"limit_in_bytes"`
	UsageInBytes string `json:"usage_in_bytes"`
}

// Limit returns the numeric memory limit, false when unlimited or unparsable.
func (m *CgroupMemory) Limit() (float64, bool) {
	return parseCgroupBytes(m.LimitInBytes)
}

// Usage returns the numeric memory usage, false when unparsable.
func (m *CgroupMemory) Usage() (float64, bool) {
	return parseCgroupBytes(m.UsageInBytes)
}

func parseCgroupBytes(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
