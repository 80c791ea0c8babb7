package metric

import (
	"strings"
	"testing"

	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderIsPure(t *testing.T) {
	c := New(testTopology)
	c.RegisterClusterGauge("cluster_nodes_number", "", "The number of nodes").Set(3)
	c.RegisterNodeCounter("http_open_total", "", "Opened connections").Add(42)

	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	first, err := c.Render(format)
	require.NoError(t, err)
	second, err := c.Render(format)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	text := string(first)
	assert.Contains(t, text, "# TYPE es_cluster_nodes_number gauge\n")
	assert.Contains(t, text, `es_cluster_nodes_number{cluster="prod"} 3`)
	assert.Contains(t, text, `es_http_open_total{cluster="prod",node="es-1",nodeid="Xy12"} 42`)
}

func TestRenderOpenMetrics(t *testing.T) {
	c := New(testTopology)
	c.RegisterClusterGauge("cluster_nodes_number", "", "The number of nodes").Set(3)

	out, err := c.Render(expfmt.NewFormat(expfmt.TypeOpenMetrics))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(out), "# EOF\n"))
}

func TestContentType(t *testing.T) {
	tests := []struct {
		accept string
		want   expfmt.FormatType
	}{
		{"", expfmt.TypeTextPlain},
		{"*/*", expfmt.TypeTextPlain},
		{"text/plain; version=0.0.4", expfmt.TypeTextPlain},
		{"application/openmetrics-text; version=1.0.0", expfmt.TypeOpenMetrics},
	}
	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			f := ContentType(tt.accept)
			assert.Equal(t, tt.want, f.FormatType())
			assert.NotEmpty(t, string(f))
		})
	}
}

func TestRenderLabelOrder(t *testing.T) {
	c := New(testTopology)
	g := c.RegisterNodeGauge("threadpool_threads", "", "Threads", "type", "name")
	g.Set(2, "rejected", "search")
	g.Set(1, "completed", "write")
	g.Set(3, "completed", "search")

	out, err := c.Render(expfmt.NewFormat(expfmt.TypeTextPlain))
	require.NoError(t, err)

	const want = `es_threadpool_threads{cluster="prod",node="es-1",nodeid="Xy12",type="completed",name="search"} 3
es_threadpool_threads{cluster="prod",node="es-1",nodeid="Xy12",type="completed",name="write"} 1
es_threadpool_threads{cluster="prod",node="es-1",nodeid="Xy12",type="rejected",name="search"} 2
`
	assert.Contains(t, string(out), want)

	// Repeated gathers keep the order.
	again, err := c.Render(expfmt.NewFormat(expfmt.TypeTextPlain))
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestRenderRuntimeFamiliesUntouched(t *testing.T) {
	c := New(testTopology, WithRuntimeCollector(true))
	c.RegisterClusterEnum("cluster_health_status", "Health", []string{"GREEN", "RED"}).State("RED")

	out, err := c.Render(expfmt.NewFormat(expfmt.TypeTextPlain))
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, `es_cluster_health_status{cluster="prod",es_cluster_health_status="RED"} 1`)
	assert.Contains(t, text, "go_goroutines ")
}
