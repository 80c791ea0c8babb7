package stats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWatermark(t *testing.T) {
	tests := []struct {
		in      string
		bytes   float64
		percent float64
		isBytes bool
	}{
		{in: "85%", percent: 85},
		{in: "90.5%", percent: 90.5},
		{in: "0.85", percent: 85},
		{in: "500mb", bytes: 500 * 1024 * 1024, isBytes: true},
		{in: "10gb", bytes: 10 * 1024 * 1024 * 1024, isBytes: true},
		{in: "1024b", bytes: 1024, isBytes: true},
		{in: "2KB", bytes: 2048, isBytes: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, err := ParseWatermark(tt.in)
			require.NoError(t, err)
			if tt.isBytes {
				require.NotNil(t, w.Bytes)
				assert.Nil(t, w.Percent)
				assert.Equal(t, tt.bytes, *w.Bytes)
				return
			}
			require.NotNil(t, w.Percent)
			assert.Nil(t, w.Bytes)
			assert.InDelta(t, tt.percent, *w.Percent, 1e-9)
		})
	}
}

func TestParseWatermarkInvalid(t *testing.T) {
	for _, in := range []string{"", "abc%", "1.5", "lots"} {
		_, err := ParseWatermark(in)
		assert.Error(t, err, in)
	}
}

func TestAllocationPrecedence(t *testing.T) {
	const body = `{
		"persistent": {"cluster.routing.allocation.disk.watermark.low": "80%"},
		"transient": {"cluster.routing.allocation.disk.watermark.high": "50gb"},
		"defaults": {
			"cluster.routing.allocation.disk.threshold_enabled": "true",
			"cluster.routing.allocation.disk.watermark.low": "85%",
			"cluster.routing.allocation.disk.watermark.high": "90%",
			"cluster.routing.allocation.disk.watermark.flood_stage": "bogus"
		}
	}`
	var resp ClusterSettingsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	s, errs := resp.Allocation()
	require.Len(t, errs, 1)
	assert.True(t, s.ThresholdEnabled)
	require.NotNil(t, s.Low.Percent)
	assert.Equal(t, 80.0, *s.Low.Percent)
	require.NotNil(t, s.High.Bytes)
	assert.Equal(t, float64(50<<30), *s.High.Bytes)
	assert.Nil(t, s.FloodStage.Bytes)
	assert.Nil(t, s.FloodStage.Percent)
}

func TestAllocationErrorOrder(t *testing.T) {
	resp := ClusterSettingsResponse{
		Defaults: map[string]any{
			SettingWatermarkFlood: "bogus",
			SettingWatermarkHigh:  "95%",
			SettingWatermarkLow:   "lots",
		},
	}

	for range 20 {
		_, errs := resp.Allocation()
		require.Len(t, errs, 2)
		assert.Contains(t, errs[0].Error(), SettingWatermarkLow)
		assert.Contains(t, errs[1].Error(), SettingWatermarkFlood)
	}
}
