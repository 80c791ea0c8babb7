// Package monitor periodically logs the resource usage of the esbox process.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/process"
)

// Saturation levels derived from CPU utilization.
const (
	saturationNormal    = "normal"
	saturationHigh      = "high"
	saturationSaturated = "saturated"
)

// Monitor tracks the resource usage of the exporter process.
type Monitor struct {
	interval time.Duration
	logger   *slog.Logger
	wg       sync.WaitGroup
	proc     *process.Process
}

// Sample is one reading of the process resources.
type Sample struct {
	CPUPercent  float64
	Utilization float64
	Cores       int
	Goroutines  int
	RSS         uint64
	OpenFDs     int32
	HeapAlloc   uint64
	HeapSys     uint64
	StackInuse  uint64
	NumGC       uint32
	GCCPU       float64
}

// Saturation classifies the CPU utilization of the sample.
func (s Sample) Saturation() string {
	switch {
	case s.Utilization > 0.95:
		return saturationSaturated
	case s.Utilization > 0.80:
		return saturationHigh
	default:
		return saturationNormal
	}
}

// New creates a new monitor with specified collection interval.
func New(interval time.Duration, logger *slog.Logger) (*Monitor, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("monitor interval must be positive: %s", interval)
	}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to get process handle: %w", err)
	}

	return &Monitor{
		interval: interval,
		logger:   logger,
		proc:     proc,
	}, nil
}

// Run starts the monitoring loop in a background goroutine. The loop stops
// when ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	m.wg.Go(func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		// Immediate first collection
		m.collect(ctx)

		for {
			select {
			case <-ctx.Done():
				m.logger.Info("monitor shutdown complete")
				return
			case <-ticker.C:
				m.collect(ctx)
			}
		}
	})
}

// Wait blocks until the monitor goroutine exits.
func (m *Monitor) Wait() {
	m.wg.Wait()
}

// Sample reads the current process resources. Values the platform cannot
// provide stay zero and are logged at debug level.
func (m *Monitor) Sample(ctx context.Context) Sample {
	var s Sample

	cpu, err := m.proc.CPUPercentWithContext(ctx)
	if err != nil {
		m.logger.Warn("failed to get CPU percent", "error", err)
	}
	s.CPUPercent = cpu
	s.Cores = runtime.GOMAXPROCS(-1)
	if maxCPU := float64(s.Cores * 100); maxCPU > 0 {
		s.Utilization = s.CPUPercent / maxCPU
	}

	if mem, err := m.proc.MemoryInfoWithContext(ctx); err == nil {
		s.RSS = mem.RSS
	} else {
		m.logger.Debug("failed to get memory info", "error", err)
	}
	if fds, err := m.proc.NumFDsWithContext(ctx); err == nil {
		s.OpenFDs = fds
	} else {
		m.logger.Debug("failed to get open file descriptors", "error", err)
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s.Goroutines = runtime.NumGoroutine()
	s.HeapAlloc = ms.HeapAlloc
	s.HeapSys = ms.HeapSys
	s.StackInuse = ms.StackInuse
	s.NumGC = ms.NumGC
	s.GCCPU = ms.GCCPUFraction
	return s
}

// collect reads current metrics and logs resource usage.
func (m *Monitor) collect(ctx context.Context) {
	s := m.Sample(ctx)
	saturation := s.Saturation()

	m.logger.LogAttrs(
		ctx,
		slog.LevelInfo,
		"resource",
		slog.String("cpu", fmt.Sprintf("%.4f%%", s.CPUPercent)),
		slog.String("util", fmt.Sprintf("%.4f%%", s.Utilization*100)),
		slog.Int("cores", s.Cores),
		slog.Int("gor", s.Goroutines),
		slog.String("rss", humanize.IBytes(s.RSS)),
		slog.Int("fds", int(s.OpenFDs)),
		slog.String(
			"mem",
			fmt.Sprintf(
				"alloc:%s sys:%s stack:%s",
				humanize.IBytes(s.HeapAlloc),
				humanize.IBytes(s.HeapSys),
				humanize.IBytes(s.StackInuse),
			),
		),
		slog.Uint64("gc", uint64(s.NumGC)),
		slog.String("gc_cpu", fmt.Sprintf("%.3f", s.GCCPU)),
		slog.String("sat", saturation),
	)

	if saturation == saturationSaturated {
		m.logger.Warn(
			"cpu saturation detected",
			"cpu", s.CPUPercent,
			"util_pct", s.Utilization*100,
			"action", "reduce scrape frequency or increase GOMAXPROCS",
		)
	}
}
