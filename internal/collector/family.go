package collector

import (
	"maps"
	"slices"

	"github.com/neox5/esbox/internal/metric"
)

type kind int

const (
	gaugeKind kind = iota
	counterKind
)

// extractor reads one value from a statistics section. ok is false when the
// value is unavailable on this node.
type extractor[T any] func(*T) (v float64, ok bool)

// sample is one labelled series of a family. values fill the family's fixed
// labels, which precede any fan-out labels.
type sample[T any] struct {
	values []string
	value  extractor[T]
}

// family describes a metric family fed from a section of type T.
type family[T any] struct {
	kind    kind
	name    string
	unit    string
	help    string
	labels  []string
	samples []sample[T]

	// fanoutFirst places the fan-out labels before the fixed labels.
	fanoutFirst bool
}

func (f family[T]) order(fixed, fanout []string) []string {
	if f.fanoutFirst {
		return slices.Concat(fanout, fixed)
	}
	return slices.Concat(fixed, fanout)
}

// boundFamily is a family registered in a catalog.
type boundFamily[T any] struct {
	family[T]
	gauge   *metric.Gauge
	counter *metric.Counter
}

func gauge[T any](name, unit, help string, value func(*T) float64) family[T] {
	return family[T]{kind: gaugeKind, name: name, unit: unit, help: help,
		samples: []sample[T]{{value: always(value)}}}
}

func optGauge[T any](name, unit, help string, value func(*T) (float64, bool)) family[T] {
	return family[T]{kind: gaugeKind, name: name, unit: unit, help: help,
		samples: []sample[T]{{value: value}}}
}

func counter[T any](name, unit, help string, value func(*T) float64) family[T] {
	return family[T]{kind: counterKind, name: name, unit: unit, help: help,
		samples: []sample[T]{{value: always(value)}}}
}

func optCounter[T any](name, unit, help string, value func(*T) (float64, bool)) family[T] {
	return family[T]{kind: counterKind, name: name, unit: unit, help: help,
		samples: []sample[T]{{value: value}}}
}

// gaugeVec builds a gauge family with a single fixed label.
func gaugeVec[T any](name, unit, help, label string, samples ...sample[T]) family[T] {
	return family[T]{kind: gaugeKind, name: name, unit: unit, help: help,
		labels: []string{label}, samples: samples}
}

func at[T any](labelValue string, value func(*T) float64) sample[T] {
	return sample[T]{values: []string{labelValue}, value: always(value)}
}

func always[T any](f func(*T) float64) extractor[T] {
	return func(s *T) (float64, bool) { return f(s), true }
}

// project lifts families over a sub-section into families over its parent.
// Samples of a nil sub-section are reported unavailable.
func project[P, T any](get func(*P) *T, fams ...family[T]) []family[P] {
	out := make([]family[P], 0, len(fams))
	for _, f := range fams {
		pf := family[P]{kind: f.kind, name: f.name, unit: f.unit, help: f.help,
			labels: f.labels, fanoutFirst: f.fanoutFirst}
		for _, s := range f.samples {
			value := s.value
			pf.samples = append(pf.samples, sample[P]{
				values: s.values,
				value: func(p *P) (float64, bool) {
					sub := get(p)
					if sub == nil {
						return 0, false
					}
					return value(sub)
				},
			})
		}
		out = append(out, pf)
	}
	return out
}

// bind registers fams in cat for scope. fanout names the per-resource labels
// appended after each family's fixed labels.
func bind[T any](cat *metric.Catalog, scope metric.Scope, fams []family[T], fanout ...string) []boundFamily[T] {
	out := make([]boundFamily[T], 0, len(fams))
	for _, f := range fams {
		labels := f.order(f.labels, fanout)
		b := boundFamily[T]{family: f}
		switch {
		case f.kind == counterKind && scope == metric.ScopeNone:
			b.counter = cat.RegisterCounter(f.name, f.help, labels...)
		case f.kind == counterKind && scope == metric.ScopeCluster:
			b.counter = cat.RegisterClusterCounter(f.name, f.unit, f.help, labels...)
		case f.kind == counterKind:
			b.counter = cat.RegisterNodeCounter(f.name, f.unit, f.help, labels...)
		case scope == metric.ScopeNone:
			b.gauge = cat.RegisterGauge(f.name, f.help, labels...)
		case scope == metric.ScopeCluster:
			b.gauge = cat.RegisterClusterGauge(f.name, f.unit, f.help, labels...)
		default:
			b.gauge = cat.RegisterNodeGauge(f.name, f.unit, f.help, labels...)
		}
		out = append(out, b)
	}
	return out
}

// emit writes every available sample of the bound families from src. It
// returns the names of families that had at least one unavailable sample.
// Negative counter readings are the "not supported" sentinel and count as
// unavailable.
func emit[T any](fams []boundFamily[T], src *T, fanout ...string) (skipped []string) {
	if src == nil {
		return nil
	}
	for _, f := range fams {
		for _, s := range f.samples {
			v, ok := s.value(src)
			if !ok || (f.counter != nil && v < 0) {
				skipped = append(skipped, f.name)
				continue
			}
			labels := f.order(s.values, fanout)
			if f.counter != nil {
				f.counter.Add(v, labels...)
			} else {
				f.gauge.Set(v, labels...)
			}
		}
	}
	return skipped
}

// emitEach emits fams for every entry of m in key order, passing the key as
// the last fan-out label value.
func emitEach[T any](fams []boundFamily[T], m map[string]*T, fanout ...string) (skipped []string) {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		skipped = append(skipped, emit(fams, m[k], append(slices.Clone(fanout), k)...)...)
	}
	return skipped
}

// Unit conversions from the units Elasticsearch reports.
func seconds(millis int64) float64      { return float64(millis) / 1e3 }
func nanosToSeconds(n int64) float64    { return float64(n) / 1e9 }
func microsToSeconds(us int64) float64  { return float64(us) / 1e6 }
func kilobytesToBytes(kb int64) float64 { return float64(kb) * 1024 }
func ratio(percent float64) float64     { return percent / 100 }

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
