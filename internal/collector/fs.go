package collector

import (
	"slices"

	"github.com/neox5/esbox/internal/metric"
	"github.com/neox5/esbox/internal/stats"
)

type fsMetrics struct {
	total   []boundFamily[stats.FSStats]
	paths   []boundFamily[stats.FSPath]
	devices []boundFamily[stats.DeviceIO]
}

func fsTotalOf(f *stats.FSStats) *stats.FSTotal { return f.Total }

func ioTotalOf(f *stats.FSStats) *stats.IOCounters {
	if f.IOStats == nil {
		return nil
	}
	return f.IOStats.Total
}

func fsFamilies() []family[stats.FSStats] {
	return slices.Concat(
		project(fsTotalOf,
			gauge("fs_total_total", "bytes", "Total size of all file stores (mount points)",
				func(t *stats.FSTotal) float64 { return float64(t.TotalInBytes) }),
			gauge("fs_total_available", "bytes", "Total number of bytes available to this Java virtual machine on all file stores. Depending on OS or process level restrictions, this might appear less than free_in_bytes. This is the actual amount of free disk space the Elasticsearch node can utilise (mount points)",
				func(t *stats.FSTotal) float64 { return float64(t.AvailableInBytes) }),
			gauge("fs_total_free", "bytes", "Total number of unallocated bytes in all file stores.",
				func(t *stats.FSTotal) float64 { return float64(t.FreeInBytes) }),
		),
		project(ioTotalOf,
			gauge("fs_io_total_operations", "", "The total number of read and write operations across all devices used by Elasticsearch completed since starting Elasticsearch",
				func(io *stats.IOCounters) float64 { return float64(io.Operations) }),
			gauge("fs_io_total_read_operations", "", "The total number of read operations for across all devices used by Elasticsearch completed since starting Elasticsearch",
				func(io *stats.IOCounters) float64 { return float64(io.ReadOperations) }),
			gauge("fs_io_total_write_operations", "", "The total number of write operations across all devices used by Elasticsearch completed since starting Elasticsearch",
				func(io *stats.IOCounters) float64 { return float64(io.WriteOperations) }),
			gauge("fs_io_total_read", "bytes", "The total number of bytes read across all devices used by Elasticsearch since starting Elasticsearch.",
				func(io *stats.IOCounters) float64 { return kilobytesToBytes(io.ReadKilobytes) }),
			gauge("fs_io_total_write", "bytes", "The total number of bytes written across all devices used by Elasticsearch since starting Elasticsearch",
				func(io *stats.IOCounters) float64 { return kilobytesToBytes(io.WriteKilobytes) }),
			counter("fs_io_total_io_time", "seconds", "The total time in seconds spent performing I/O operations across all devices used by Elasticsearch since starting Elasticsearch",
				func(io *stats.IOCounters) float64 { return seconds(io.IOTimeInMillis) }),
		),
	)
}

func fsPathFamilies() []family[stats.FSPath] {
	return []family[stats.FSPath]{
		gauge("fs_path_total", "bytes", "Total size (in bytes) of the file store",
			func(p *stats.FSPath) float64 { return float64(p.TotalInBytes) }),
		gauge("fs_path_available", "bytes", "Total number of bytes available to this Java virtual machine on this file store",
			func(p *stats.FSPath) float64 { return float64(p.AvailableInBytes) }),
		gauge("fs_path_free", "bytes", "Total number of unallocated bytes in the file store",
			func(p *stats.FSPath) float64 { return float64(p.FreeInBytes) }),
	}
}

func fsDeviceFamilies() []family[stats.DeviceIO] {
	return []family[stats.DeviceIO]{
		counter("fs_io_device_operations", "", "The total number of read and write operations for the device completed since starting Elasticsearch",
			func(d *stats.DeviceIO) float64 { return float64(d.Operations) }),
		counter("fs_io_device_read_operations", "", "The total number of read operations for the device completed since starting Elasticsearch",
			func(d *stats.DeviceIO) float64 { return float64(d.ReadOperations) }),
		counter("fs_io_device_write_operations", "", "The total number of write operations for the device completed since starting Elasticsearch",
			func(d *stats.DeviceIO) float64 { return float64(d.WriteOperations) }),
		counter("fs_io_device_read", "bytes", "The total number of bytes read for the device since starting Elasticsearch",
			func(d *stats.DeviceIO) float64 { return kilobytesToBytes(d.ReadKilobytes) }),
		counter("fs_io_device_write", "bytes", "The total number of bytes written for the device since starting Elasticsearch",
			func(d *stats.DeviceIO) float64 { return kilobytesToBytes(d.WriteKilobytes) }),
		counter("fs_io_device_io_time", "seconds", "The total time in seconds spent performing I/O operations across all devices",
			func(d *stats.DeviceIO) float64 { return seconds(d.IOTimeInMillis) }),
	}
}

func (c *Collector) registerFS() {
	c.fs.total = bind(c.catalog, metric.ScopeNode, fsFamilies())
	c.fs.paths = bind(c.catalog, metric.ScopeNode, fsPathFamilies(), "path", "mount", "type")
	c.fs.devices = bind(c.catalog, metric.ScopeNode, fsDeviceFamilies(), "device")
}

func (c *Collector) updateFS(snap *stats.Snapshot) []string {
	if snap.Node == nil || snap.Node.FS == nil {
		return nil
	}
	fs := snap.Node.FS

	skipped := emit(c.fs.total, fs)
	for _, p := range fs.Data {
		if p == nil {
			continue
		}
		skipped = append(skipped, emit(c.fs.paths, p, p.Path, p.Mount, p.Type)...)
	}
	if fs.IOStats == nil {
		return skipped
	}
	for _, d := range fs.IOStats.Devices {
		if d == nil || d.DeviceName == nil {
			c.logger.Debug("skipping io stats of unnamed device")
			continue
		}
		skipped = append(skipped, emit(c.fs.devices, d, *d.DeviceName)...)
	}
	return skipped
}
