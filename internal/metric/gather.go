package metric

import (
	"cmp"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// orderedGatherer gathers the catalog registry and restores the composed
// label order of catalog families. The registry sorts label pairs by name;
// families it does not know, such as the runtime collector's, keep that order.
type orderedGatherer struct {
	catalog *Catalog
}

func (g orderedGatherer) Gather() ([]*dto.MetricFamily, error) {
	mfs, err := g.catalog.registry.Gather()

	order := make(map[string][]string, len(g.catalog.families))
	for _, d := range g.catalog.families {
		order[d.ExposedName()] = d.LabelNames()
	}
	for _, mf := range mfs {
		names, ok := order[mf.GetName()]
		if !ok {
			continue
		}
		reorder(mf, names)
	}
	return mfs, err
}

// reorder sorts each sample's label pairs into names order, then the samples
// by their label values in that order.
func reorder(mf *dto.MetricFamily, names []string) {
	rank := make(map[string]int, len(names))
	for i, n := range names {
		rank[n] = i
	}
	for _, m := range mf.Metric {
		// The pairs may be shared with the live metric.
		m.Label = slices.Clone(m.Label)
		slices.SortStableFunc(m.Label, func(a, b *dto.LabelPair) int {
			return cmp.Compare(rank[a.GetName()], rank[b.GetName()])
		})
	}
	slices.SortStableFunc(mf.Metric, func(a, b *dto.Metric) int {
		for i := range min(len(a.Label), len(b.Label)) {
			if c := cmp.Compare(a.Label[i].GetValue(), b.Label[i].GetValue()); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(a.Label), len(b.Label))
	})
}

// Gatherer returns the catalog families with labels in composed order:
// topology labels first, then the caller labels as registered.
func (c *Catalog) Gatherer() prometheus.Gatherer {
	return orderedGatherer{catalog: c}
}
