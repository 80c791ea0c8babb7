package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultInternalMetricsPath = "/internal/metrics"
	DefaultMonitorInterval     = 30 * time.Second
)

// SettingsConfig holds general application settings.
type SettingsConfig struct {
	InternalMetrics InternalMetricsConfig
	Monitor         MonitorConfig
}

// InternalMetricsConfig controls esbox's self-monitoring metrics.
type InternalMetricsConfig struct {
	Enabled bool
	Path    string
}

// MonitorConfig controls the periodic resource log of the exporter process.
type MonitorConfig struct {
	Enabled  bool
	Interval time.Duration
}

// Validate applies defaults and validates settings configuration.
// scrapePath is the main metrics path, which the internal path must not
// shadow.
func (s *SettingsConfig) Validate(scrapePath string) error {
	// Apply defaults
	if s.InternalMetrics.Path == "" {
		s.InternalMetrics.Path = DefaultInternalMetricsPath
	}
	if s.Monitor.Interval == 0 {
		s.Monitor.Interval = DefaultMonitorInterval
	}

	if s.InternalMetrics.Enabled {
		if !strings.HasPrefix(s.InternalMetrics.Path, "/") {
			return fmt.Errorf("internal metrics path must start with /: %q", s.InternalMetrics.Path)
		}
		if s.InternalMetrics.Path == scrapePath {
			return fmt.Errorf("internal metrics path %q collides with the scrape path", s.InternalMetrics.Path)
		}
	}
	if s.Monitor.Interval < 0 {
		return fmt.Errorf("monitor interval must be positive")
	}
	return nil
}
