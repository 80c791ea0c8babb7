package metric

import (
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// handle is the part shared by all typed family handles.
type handle struct {
	desc     Descriptor
	topology Topology
}

func (c *Catalog) handle(d Descriptor) handle {
	return handle{desc: d, topology: c.topology}
}

// Descriptor returns the family metadata.
func (h handle) Descriptor() Descriptor {
	return h.desc
}

// values composes the full label value list or panics on arity mismatch.
func (h handle) values(labels []string) []string {
	_, values, err := Compose(h.desc.Scope, h.topology, h.desc.Labels, labels)
	if err != nil {
		panic(errors.Wrapf(err, "metric %q", h.desc.Name))
	}
	return values
}

func (h handle) fail(err error) {
	panic(errors.NewAssertionErrorWithWrappedErrf(err, "metric %q", h.desc.Name))
}

// Counter is a handle to a registered counter family.
type Counter struct {
	handle
	vec *prometheus.CounterVec
}

// Add increases the labelled counter by delta, which must not be negative.
func (h *Counter) Add(delta float64, labels ...string) {
	if delta < 0 {
		panic(errors.AssertionFailedf("metric %q: negative counter delta %v", h.desc.Name, delta))
	}
	c, err := h.vec.GetMetricWithLabelValues(h.values(labels)...)
	if err != nil {
		h.fail(err)
	}
	c.Add(delta)
}

// Gauge is a handle to a registered gauge family.
type Gauge struct {
	handle
	vec *prometheus.GaugeVec
}

// Set sets the labelled gauge to v.
func (h *Gauge) Set(v float64, labels ...string) {
	g, err := h.vec.GetMetricWithLabelValues(h.values(labels)...)
	if err != nil {
		h.fail(err)
	}
	g.Set(v)
}

// SetBool sets the labelled gauge to 1 when b is true and 0 otherwise.
func (h *Gauge) SetBool(b bool, labels ...string) {
	v := 0.0
	if b {
		v = 1
	}
	h.Set(v, labels...)
}

// Enum is a handle to a registered state set family.
type Enum struct {
	handle
	vec *prometheus.GaugeVec
}

// State marks state as the active one: its sample is 1 and every other
// state's sample is 0. state must belong to the registered set.
func (h *Enum) State(state string, labels ...string) {
	if !slices.Contains(h.desc.States, state) {
		panic(errors.AssertionFailedf("metric %q: unknown state %q", h.desc.Name, state))
	}
	values := h.values(labels)
	for _, s := range h.desc.States {
		g, err := h.vec.GetMetricWithLabelValues(append(slices.Clip(values), s)...)
		if err != nil {
			h.fail(err)
		}
		if s == state {
			g.Set(1)
		} else {
			g.Set(0)
		}
	}
}

// Info is a handle to a registered info family.
type Info struct {
	handle
	vec *prometheus.GaugeVec
}

// Set publishes one info sample with the given label values.
func (h *Info) Set(labels ...string) {
	g, err := h.vec.GetMetricWithLabelValues(h.values(labels)...)
	if err != nil {
		h.fail(err)
	}
	g.Set(1)
}

// Summary is a handle to a registered summary family.
type Summary struct {
	handle
	vec *prometheus.SummaryVec
}

// StartTimer starts timing an observation of the labelled summary.
func (h *Summary) StartTimer(labels ...string) *Timer {
	o, err := h.vec.GetMetricWithLabelValues(h.values(labels)...)
	if err != nil {
		h.fail(err)
	}
	return &Timer{start: time.Now(), observer: o}
}

// Timer is one running observation of a summary.
type Timer struct {
	start    time.Time
	observer prometheus.Observer
	done     bool
}

// ObserveDuration records the seconds elapsed since StartTimer and returns
// the duration. Only the first call records an observation.
func (t *Timer) ObserveDuration() time.Duration {
	d := time.Since(t.start)
	if !t.done {
		t.observer.Observe(d.Seconds())
		t.done = true
	}
	return d
}

// Observe records one observation of the labelled summary.
func (h *Summary) Observe(v float64, labels ...string) {
	o, err := h.vec.GetMetricWithLabelValues(h.values(labels)...)
	if err != nil {
		h.fail(err)
	}
	o.Observe(v)
}

// Recover turns a panic carrying an assertion failure into *err. Any other
// panic is re-raised. It must be deferred directly.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(error); ok && errors.HasAssertionFailure(e) {
		*err = e
		return
	}
	panic(r)
}
