package metric

import (
	"github.com/cockroachdb/errors"
)

// Scope selects which topology labels prefix a family's own labels.
type Scope int

const (
	// ScopeNone adds no topology labels and no name prefix.
	ScopeNone Scope = iota
	// ScopeCluster prefixes the cluster label.
	ScopeCluster
	// ScopeNode prefixes the cluster, node and nodeid labels.
	ScopeNode
)

func (s Scope) String() string {
	switch s {
	case ScopeCluster:
		return "cluster"
	case ScopeNode:
		return "node"
	default:
		return "none"
	}
}

// Topology label names. nodeid is kept unseparated for dashboard compatibility.
const (
	LabelCluster = "cluster"
	LabelNode    = "node"
	LabelNodeID  = "nodeid"
)

var (
	clusterLabels = []string{LabelCluster}
	nodeLabels    = []string{LabelCluster, LabelNode, LabelNodeID}
)

// Topology identifies the cluster and node a scrape describes.
type Topology struct {
	Cluster string
	Node    string
	NodeID  string
}

func (t Topology) prefix(scope Scope) []string {
	switch scope {
	case ScopeCluster:
		return []string{t.Cluster}
	case ScopeNode:
		return []string{t.Cluster, t.Node, t.NodeID}
	default:
		return nil
	}
}

// ComposeNames returns the scope's topology label names followed by names.
func ComposeNames(scope Scope, names []string) []string {
	var p []string
	switch scope {
	case ScopeCluster:
		p = clusterLabels
	case ScopeNode:
		p = nodeLabels
	}
	return concat(p, names)
}

// ComposeValues returns the scope's topology label values followed by values.
func (t Topology) ComposeValues(scope Scope, values []string) []string {
	return concat(t.prefix(scope), values)
}

// Compose extends a name list and a value list for scope. The lists must be
// of equal length.
func Compose(scope Scope, t Topology, names, values []string) ([]string, []string, error) {
	if len(names) != len(values) {
		return nil, nil, errors.AssertionFailedf(
			"label arity mismatch: %d names, %d values", len(names), len(values))
	}
	return ComposeNames(scope, names), t.ComposeValues(scope, values), nil
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
