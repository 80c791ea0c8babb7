// Package metric is the per-scrape metric catalog. It owns a private
// Prometheus registry, derives exposed names from family name, prefix and
// unit, and hands out typed handles that add the topology labels.
package metric

import (
	"strings"
)

// MetricType defines the semantic type of a metric family.
type MetricType string

const (
	MetricTypeCounter MetricType = "counter"
	MetricTypeGauge   MetricType = "gauge"
	MetricTypeEnum    MetricType = "enum"
	MetricTypeInfo    MetricType = "info"
	MetricTypeSummary MetricType = "summary"
)

// Descriptor holds the metadata of a registered family.
type Descriptor struct {
	// Name is the family key the collector registered, without prefix or unit.
	Name string
	// FullName is the exposed base name (prefix, name and unit). Type suffixes
	// such as _total or _info are added on exposition.
	FullName string
	Type     MetricType
	Help     string
	Unit     string
	Scope    Scope
	// Labels are the caller labels, without topology labels.
	Labels []string
	// States is the closed state set of an enum family.
	States []string
}

// ExposedName returns the name the family carries in the exposition.
func (d Descriptor) ExposedName() string {
	switch d.Type {
	case MetricTypeCounter:
		return withSuffix(d.FullName, "total")
	case MetricTypeInfo:
		return withSuffix(d.FullName, "info")
	default:
		return d.FullName
	}
}

// LabelNames returns the exposed label names in order: topology labels,
// caller labels, then the state label of an enum.
func (d Descriptor) LabelNames() []string {
	names := ComposeNames(d.Scope, d.Labels)
	if d.Type == MetricTypeEnum {
		names = append(names, d.FullName)
	}
	return names
}

func withSuffix(name, suffix string) string {
	if suffix == "" || strings.HasSuffix(name, "_"+suffix) {
		return name
	}
	return name + "_" + suffix
}
