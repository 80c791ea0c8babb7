package stats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Flat setting keys of the disk allocation decider.
const (
	SettingThresholdEnabled = "cluster.routing.allocation.disk.threshold_enabled"
	SettingWatermarkLow     = "cluster.routing.allocation.disk.watermark.low"
	SettingWatermarkHigh    = "cluster.routing.allocation.disk.watermark.high"
	SettingWatermarkFlood   = "cluster.routing.allocation.disk.watermark.flood_stage"
)

// ClusterSettingsResponse is the response of
// GET /_cluster/settings?include_defaults=true&flat_settings=true.
type ClusterSettingsResponse struct {
	Persistent map[string]any `json:"persistent"`
	Transient  map[string]any `json:"transient"`
	Defaults   map[string]any `json:"defaults"`
}

// Get resolves a setting with transient over persistent over default precedence.
func (r *ClusterSettingsResponse) Get(key string) (string, bool) {
	for _, m := range []map[string]any{r.Transient, r.Persistent, r.Defaults} {
		if v, ok := m[key]; ok && v != nil {
			return fmt.Sprint(v), true
		}
	}
	return "", false
}

// Watermark is a disk watermark expressed either in bytes or in percent.
type Watermark struct {
	Bytes   *float64
	Percent *float64
}

// AllocationSettings holds the disk-based shard allocation settings.
type AllocationSettings struct {
	ThresholdEnabled bool
	Low              Watermark
	High             Watermark
	FloodStage       Watermark
}

// Allocation extracts the disk allocation settings. Unparsable watermarks are
// left empty and reported in the returned error list.
func (r *ClusterSettingsResponse) Allocation() (*AllocationSettings, []error) {
	var (
		s    AllocationSettings
		errs []error
	)
	if v, ok := r.Get(SettingThresholdEnabled); ok {
		s.ThresholdEnabled, _ = strconv.ParseBool(v)
	}
	// Low, high, flood stage: errors come out in that order.
	for _, wm := range []struct {
		key string
		dst *Watermark
	}{
		{SettingWatermarkLow, &s.Low},
		{SettingWatermarkHigh, &s.High},
		{SettingWatermarkFlood, &s.FloodStage},
	} {
		v, ok := r.Get(wm.key)
		if !ok {
			continue
		}
		w, err := ParseWatermark(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", wm.key, err))
			continue
		}
		*wm.dst = w
	}
	return &s, errs
}

// ParseWatermark parses "85%", a ratio such as "0.85" or a byte size such as
// "500mb". Byte units are binary, as Elasticsearch treats them.
func ParseWatermark(v string) (Watermark, error) {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "" {
		return Watermark{}, fmt.Errorf("empty watermark")
	}

	if pct, ok := strings.CutSuffix(v, "%"); ok {
		f, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			return Watermark{}, fmt.Errorf("invalid percentage %q: %w", v, err)
		}
		return Watermark{Percent: &f}, nil
	}

	if f, err := strconv.ParseFloat(v, 64); err == nil {
		if f < 0 || f > 1 {
			return Watermark{}, fmt.Errorf("ratio %q out of range [0,1]", v)
		}
		pct := f * 100
		return Watermark{Percent: &pct}, nil
	}

	b, err := humanize.ParseBytes(binaryUnit(v))
	if err != nil {
		return Watermark{}, fmt.Errorf("invalid byte size %q: %w", v, err)
	}
	f := float64(b)
	return Watermark{Bytes: &f}, nil
}

// binaryUnit rewrites Elasticsearch byte suffixes (kb, mb, ...) into the IEC
// form humanize reads as powers of 1024.
func binaryUnit(v string) string {
	for _, u := range []string{"kb", "mb", "gb", "tb", "pb"} {
		if n, ok := strings.CutSuffix(v, u); ok {
			return n + u[:1] + "ib"
		}
	}
	return v
}
