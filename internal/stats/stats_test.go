package stats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthStatusDecoding(t *testing.T) {
	var h ClusterHealth
	require.NoError(t, json.Unmarshal([]byte(`{"cluster_name":"c","status":"yellow","indices":{"i":{"status":"red"}}}`), &h))
	assert.Equal(t, StatusYellow, h.Status)
	assert.Equal(t, 1.0, h.Status.Value())
	assert.Equal(t, StatusRed, h.Indices["i"].Status)
	assert.Equal(t, -1.0, HealthStatus("PURPLE").Value())
}

func TestNodesStatsLocal(t *testing.T) {
	const body = `{
		"cluster_name": "c",
		"nodes": {
			"abc123": {
				"name": "n1",
				"roles": ["master", "data_hot"],
				"transport": {"server_open": 3, "rx_count": 10},
				"fs": {"io_stats": {"devices": [{"operations": 4}]}},
				"indices": {"shard_stats": {}}
			}
		}
	}`
	var resp NodesStatsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	n, ok := resp.Local()
	require.True(t, ok)
	assert.Equal(t, "abc123", n.ID)
	assert.True(t, n.HasRole("data_hot"))
	assert.False(t, n.HasRole("ingest"))
	assert.Nil(t, n.Transport.TotalOutboundConnections)
	assert.Nil(t, n.FS.IOStats.Devices[0].DeviceName)
	assert.Nil(t, n.Indices.ShardStats.TotalCount)
	assert.Nil(t, n.JVM)
}

func TestCgroupMemory(t *testing.T) {
	m := CgroupMemory{LimitInBytes: "max", UsageInBytes: "1024"}
	_, ok := m.Limit()
	assert.False(t, ok)
	v, ok := m.Usage()
	assert.True(t, ok)
	assert.Equal(t, 1024.0, v)
}
