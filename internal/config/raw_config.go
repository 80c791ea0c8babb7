package config

import "time"

// RawConfig represents unparsed YAML structure
type RawConfig struct {
	Elasticsearch RawElasticsearchConfig `yaml:"elasticsearch"`
	Server        RawServerConfig        `yaml:"server"`
	Metrics       RawMetricsConfig       `yaml:"metrics"`
	Settings      RawSettingsConfig      `yaml:"settings"`
}

// RawElasticsearchConfig defines the connection to the node
type RawElasticsearchConfig struct {
	URL                string        `yaml:"url"`
	Username           string        `yaml:"username"`
	Password           string        `yaml:"password"` //nolint:gosec
	Timeout            time.Duration `yaml:"timeout"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
}

// RawServerConfig defines the scrape endpoint
type RawServerConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

// RawMetricsConfig selects metric families. Unset switches take their
// default.
type RawMetricsConfig struct {
	Prefix          *string `yaml:"prefix,omitempty"`
	Indices         *bool   `yaml:"indices,omitempty"`
	ClusterSettings *bool   `yaml:"cluster_settings,omitempty"`
	Deprecated      *bool   `yaml:"deprecated,omitempty"`
	Runtime         bool    `yaml:"runtime"`
}
