package config

import (
	"fmt"
	"strings"
)

// Resolve applies defaults to the raw configuration and builds the final
// config.
func Resolve(raw *RawConfig) (*Config, error) {
	cfg := &Config{
		Elasticsearch: resolveElasticsearch(&raw.Elasticsearch),
		Server:        resolveServer(&raw.Server),
		Metrics:       resolveMetrics(&raw.Metrics),
		Settings: SettingsConfig{
			InternalMetrics: InternalMetricsConfig{
				Enabled: raw.Settings.InternalMetrics.Enabled,
				Path:    raw.Settings.InternalMetrics.Path,
			},
			Monitor: MonitorConfig{
				Enabled:  raw.Settings.Monitor.Enabled,
				Interval: raw.Settings.Monitor.Interval,
			},
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func resolveElasticsearch(raw *RawElasticsearchConfig) ElasticsearchConfig {
	es := ElasticsearchConfig{
		URL:                strings.TrimSuffix(raw.URL, "/"),
		Username:           raw.Username,
		Password:           raw.Password,
		Timeout:            raw.Timeout,
		InsecureSkipVerify: raw.InsecureSkipVerify,
	}
	if es.URL == "" {
		es.URL = DefaultElasticsearchURL
	}
	if es.Timeout == 0 {
		es.Timeout = DefaultElasticsearchTimeout
	}
	return es
}

func resolveServer(raw *RawServerConfig) ServerConfig {
	s := ServerConfig{Port: raw.Port, Path: raw.Path}
	if s.Port == 0 {
		s.Port = DefaultServerPort
	}
	if s.Path == "" {
		s.Path = DefaultServerPath
	}
	return s
}

func resolveMetrics(raw *RawMetricsConfig) MetricsConfig {
	return MetricsConfig{
		Prefix:          valueOr(raw.Prefix, DefaultMetricPrefix),
		Indices:         valueOr(raw.Indices, true),
		ClusterSettings: valueOr(raw.ClusterSettings, true),
		Deprecated:      valueOr(raw.Deprecated, true),
		Runtime:         raw.Runtime,
	}
}

// valueOr dereferences p, falling back to def when unset
func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
