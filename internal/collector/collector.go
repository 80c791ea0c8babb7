// Package collector maps an Elasticsearch statistics snapshot onto metric
// families. A Collector registers every family once and fills it once; both
// passes are split into per-domain groups that tolerate missing sections.
package collector

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/neox5/esbox/internal/metric"
	"github.com/neox5/esbox/internal/stats"
)

// Options selects the optional metric groups.
type Options struct {
	// Indices enables the per-index families.
	Indices bool
	// ClusterSettings enables the disk allocation settings families.
	ClusterSettings bool
	// Deprecated also emits the legacy family names kept for old dashboards.
	Deprecated bool
	Logger     *slog.Logger
}

type state int

const (
	unregistered state = iota
	registered
	updated
)

// group is one independent sub-pass over a part of the snapshot.
type group struct {
	name     string
	enabled  bool
	register func()
	update   func(*stats.Snapshot) []string
}

// Collector fills one catalog from one snapshot.
type Collector struct {
	catalog *metric.Catalog
	opts    Options
	logger  *slog.Logger
	state   state

	generateTime *metric.Summary

	cluster    clusterMetrics
	node       nodeMetrics
	indices    []boundFamily[stats.CommonStats]
	index      indexMetrics
	transport  []boundFamily[stats.TransportStats]
	http       []boundFamily[stats.HTTPStats]
	threadPool threadPoolMetrics
	ingest     ingestMetrics
	breakers   []boundFamily[stats.BreakerStats]
	script     []boundFamily[stats.ScriptStats]
	process    processMetrics
	jvm        jvmMetrics
	os         osMetrics
	fs         fsMetrics
	pressure   []boundFamily[stats.IndexingPressureStats]
	settings   []boundFamily[stats.AllocationSettings]
}

// New creates a collector writing into catalog.
func New(catalog *metric.Catalog, opts Options) *Collector {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		catalog: catalog,
		opts:    opts,
		logger:  logger,
	}
}

func (c *Collector) groups() []group {
	return []group{
		{name: "cluster", enabled: true, register: c.registerCluster, update: c.updateCluster},
		{name: "node", enabled: true, register: c.registerNode, update: c.updateNode},
		{name: "indices", enabled: true, register: c.registerIndices, update: c.updateIndices},
		{name: "index", enabled: c.opts.Indices, register: c.registerIndex, update: c.updateIndex},
		{name: "transport", enabled: true, register: c.registerTransport, update: c.updateTransport},
		{name: "http", enabled: true, register: c.registerHTTP, update: c.updateHTTP},
		{name: "threadpool", enabled: true, register: c.registerThreadPool, update: c.updateThreadPool},
		{name: "ingest", enabled: true, register: c.registerIngest, update: c.updateIngest},
		{name: "breaker", enabled: true, register: c.registerBreakers, update: c.updateBreakers},
		{name: "script", enabled: true, register: c.registerScript, update: c.updateScript},
		{name: "process", enabled: true, register: c.registerProcess, update: c.updateProcess},
		{name: "jvm", enabled: true, register: c.registerJVM, update: c.updateJVM},
		{name: "os", enabled: true, register: c.registerOS, update: c.updateOS},
		{name: "fs", enabled: true, register: c.registerFS, update: c.updateFS},
		{name: "settings", enabled: c.opts.ClusterSettings, register: c.registerSettings, update: c.updateSettings},
		{name: "pressure", enabled: true, register: c.registerPressure, update: c.updatePressure},
	}
}

// Register declares every family. Families of disabled groups are declared
// too and stay empty. It may be called once.
func (c *Collector) Register() (err error) {
	if c.state != unregistered {
		return errors.AssertionFailedf("collector already registered")
	}
	defer metric.Recover(&err)

	c.generateTime = c.catalog.RegisterSummaryTimer("metrics_generate_time_seconds", "Time spent while generating metrics")
	for _, g := range c.groups() {
		g.register()
	}
	c.state = registered
	return nil
}

// Update fills the registered families from snap. It may be called once,
// after Register. A programming error in a group aborts the update and is
// returned; a missing section only skips the families it feeds.
func (c *Collector) Update(snap *stats.Snapshot) (err error) {
	switch c.state {
	case unregistered:
		return errors.AssertionFailedf("collector updated before registration")
	case updated:
		return errors.AssertionFailedf("collector already updated")
	}
	if snap == nil {
		return errors.AssertionFailedf("nil snapshot")
	}
	c.state = updated
	defer metric.Recover(&err)

	timer := c.generateTime.StartTimer()
	for _, g := range c.groups() {
		if !g.enabled {
			continue
		}
		if skipped := g.update(snap); len(skipped) > 0 {
			c.logger.Debug("skipped unavailable metrics", "group", g.name, "metrics", skipped)
		}
	}
	timer.ObserveDuration()
	return nil
}
