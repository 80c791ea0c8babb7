package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	// Elasticsearch defaults
	DefaultElasticsearchURL     = "http://localhost:9200"
	DefaultElasticsearchTimeout = 10 * time.Second

	// Server defaults
	DefaultServerPort = 9114
	DefaultServerPath = "/_prometheus/metrics"

	// Metric defaults
	DefaultMetricPrefix = "es_"
)

// metricPrefix must keep exposed names valid Prometheus metric names.
var metricPrefix = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:]*$`)

// Config holds the complete application configuration.
type Config struct {
	Elasticsearch ElasticsearchConfig
	Server        ServerConfig
	Metrics       MetricsConfig
	Settings      SettingsConfig
}

// ElasticsearchConfig defines how the node is reached.
type ElasticsearchConfig struct {
	URL                string
	Username           string
	Password           string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// ServerConfig defines the scrape endpoint.
type ServerConfig struct {
	Port int
	Path string
}

// MetricsConfig selects the exposed metric families.
type MetricsConfig struct {
	Prefix string
	// Indices enables per-index families.
	Indices bool
	// ClusterSettings enables the disk allocation settings families.
	ClusterSettings bool
	// Deprecated keeps the legacy family names.
	Deprecated bool
	// Runtime adds the Go runtime collector to every scrape.
	Runtime bool
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg, err := Resolve(&RawConfig{})
	if err != nil {
		panic(fmt.Sprintf("default configuration is invalid: %v", err))
	}
	return cfg
}

// Validate checks the resolved configuration. It runs after defaults and
// command line overrides have been applied.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Elasticsearch.URL)
	if err != nil {
		return fmt.Errorf("invalid elasticsearch url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid elasticsearch url %q: scheme must be http or https", c.Elasticsearch.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid elasticsearch url %q: missing host", c.Elasticsearch.URL)
	}
	if c.Elasticsearch.Timeout <= 0 {
		return fmt.Errorf("elasticsearch timeout must be positive")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if !strings.HasPrefix(c.Server.Path, "/") {
		return fmt.Errorf("server path must start with /: %q", c.Server.Path)
	}

	if c.Metrics.Prefix != "" && !metricPrefix.MatchString(c.Metrics.Prefix) {
		return fmt.Errorf("invalid metric prefix %q", c.Metrics.Prefix)
	}

	return c.Settings.Validate(c.Server.Path)
}
