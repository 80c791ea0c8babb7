package metric

import (
	"log/slog"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// DefaultPrefix is prepended to every scoped family name.
const DefaultPrefix = "es_"

// Catalog holds the families registered for one scrape.
type Catalog struct {
	topology Topology
	prefix   string
	runtime  bool
	logger   *slog.Logger
	registry *prometheus.Registry
	families map[string]Descriptor
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(c *Catalog) { c.prefix = prefix }
}

// WithRuntimeCollector adds the Go runtime collector of this process.
func WithRuntimeCollector(enabled bool) Option {
	return func(c *Catalog) { c.runtime = enabled }
}

// WithLogger sets the logger used for registration debug lines.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) { c.logger = logger }
}

// New creates an empty catalog for the given topology.
func New(topology Topology, opts ...Option) *Catalog {
	c := &Catalog{
		topology: topology,
		prefix:   DefaultPrefix,
		logger:   slog.Default(),
		registry: prometheus.NewRegistry(),
		families: make(map[string]Descriptor),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.runtime {
		c.registry.MustRegister(collectors.NewGoCollector())
	}
	return c
}

// Topology returns the topology the catalog labels samples with.
func (c *Catalog) Topology() Topology {
	return c.topology
}

// RegisterCounter registers an unscoped, unprefixed counter.
func (c *Catalog) RegisterCounter(name, help string, labels ...string) *Counter {
	return c.counter(ScopeNone, name, "", help, labels)
}

// RegisterGauge registers an unscoped, unprefixed gauge.
func (c *Catalog) RegisterGauge(name, help string, labels ...string) *Gauge {
	return c.gauge(ScopeNone, name, "", help, labels)
}

// RegisterClusterCounter registers a counter labelled with the cluster name.
func (c *Catalog) RegisterClusterCounter(name, unit, help string, labels ...string) *Counter {
	return c.counter(ScopeCluster, name, unit, help, labels)
}

// RegisterClusterGauge registers a gauge labelled with the cluster name.
func (c *Catalog) RegisterClusterGauge(name, unit, help string, labels ...string) *Gauge {
	return c.gauge(ScopeCluster, name, unit, help, labels)
}

// RegisterNodeCounter registers a counter labelled with cluster, node and node id.
func (c *Catalog) RegisterNodeCounter(name, unit, help string, labels ...string) *Counter {
	return c.counter(ScopeNode, name, unit, help, labels)
}

// RegisterNodeGauge registers a gauge labelled with cluster, node and node id.
func (c *Catalog) RegisterNodeGauge(name, unit, help string, labels ...string) *Gauge {
	return c.gauge(ScopeNode, name, unit, help, labels)
}

// RegisterClusterEnum registers a cluster-scoped state set. Each update
// emits one sample per state, labelled with the family name.
func (c *Catalog) RegisterClusterEnum(name, help string, states []string, labels ...string) *Enum {
	if len(states) == 0 {
		panic(errors.AssertionFailedf("enum %q has no states", name))
	}
	d := c.describe(MetricTypeEnum, ScopeCluster, name, "", help, labels)
	d.States = append([]string(nil), states...)
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: d.ExposedName(),
		Help: help,
	}, d.LabelNames())
	c.register(d, vec)
	return &Enum{handle: c.handle(d), vec: vec}
}

// RegisterNodeInfo registers a node-scoped info family with constant value 1.
func (c *Catalog) RegisterNodeInfo(name, help string, labels ...string) *Info {
	d := c.describe(MetricTypeInfo, ScopeNode, name, "", help, labels)
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: d.ExposedName(),
		Help: help,
	}, d.LabelNames())
	c.register(d, vec)
	return &Info{handle: c.handle(d), vec: vec}
}

// RegisterSummaryTimer registers a node-scoped summary without quantiles.
func (c *Catalog) RegisterSummaryTimer(name, help string, labels ...string) *Summary {
	d := c.describe(MetricTypeSummary, ScopeNode, name, "", help, labels)
	vec := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name: d.ExposedName(),
		Help: help,
	}, d.LabelNames())
	c.register(d, vec)
	return &Summary{handle: c.handle(d), vec: vec}
}

func (c *Catalog) counter(scope Scope, name, unit, help string, labels []string) *Counter {
	d := c.describe(MetricTypeCounter, scope, name, unit, help, labels)
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: d.ExposedName(),
		Help: help,
	}, d.LabelNames())
	c.register(d, vec)
	return &Counter{handle: c.handle(d), vec: vec}
}

func (c *Catalog) gauge(scope Scope, name, unit, help string, labels []string) *Gauge {
	d := c.describe(MetricTypeGauge, scope, name, unit, help, labels)
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: d.ExposedName(),
		Help: help,
	}, d.LabelNames())
	c.register(d, vec)
	return &Gauge{handle: c.handle(d), vec: vec}
}

func (c *Catalog) describe(typ MetricType, scope Scope, name, unit, help string, labels []string) Descriptor {
	full := name
	if scope != ScopeNone {
		full = c.prefix + name
	}
	return Descriptor{
		Name:     name,
		FullName: withSuffix(full, unit),
		Type:     typ,
		Help:     help,
		Unit:     unit,
		Scope:    scope,
		Labels:   append([]string(nil), labels...),
	}
}

// register panics with an assertion failure on duplicate family names or on
// names the Prometheus registry refuses.
func (c *Catalog) register(d Descriptor, coll prometheus.Collector) {
	if _, ok := c.families[d.Name]; ok {
		panic(errors.AssertionFailedf("metric %q already registered", d.Name))
	}
	if err := c.registry.Register(coll); err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "failed to register metric %q", d.Name))
	}
	c.families[d.Name] = d

	c.logger.Debug("registered metric",
		"name", d.ExposedName(),
		"type", d.Type,
		"scope", d.Scope,
		"labels", d.Labels)
}

// Lookup returns the descriptor of a registered family.
func (c *Catalog) Lookup(name string) (Descriptor, bool) {
	d, ok := c.families[name]
	return d, ok
}

// Families returns all registered descriptors sorted by family name.
func (c *Catalog) Families() []Descriptor {
	out := make([]Descriptor, 0, len(c.families))
	for _, d := range c.families {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
