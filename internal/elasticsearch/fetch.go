package elasticsearch

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Masterminds/semver/v3"
	"github.com/neox5/esbox/internal/metric"
	"github.com/neox5/esbox/internal/stats"
	"golang.org/x/sync/errgroup"
)

// REST endpoints read on every scrape.
const (
	pathInfo      = "/"
	pathHealth    = "/_cluster/health"
	pathNodeStats = "/_nodes/_local/stats"
	pathIndices   = "/_stats"
	pathSettings  = "/_cluster/settings"
)

// minSupported is the oldest version whose stats layout is understood.
var minSupported = semver.MustParse("7.0.0")

// FetchOptions selects the optional endpoints.
type FetchOptions struct {
	Indices         bool
	ClusterSettings bool
}

// Fetch reads one snapshot, querying all endpoints in parallel. Cluster health
// and node stats are required; the other sections are left nil with a warning
// when their request fails.
func (c *Client) Fetch(ctx context.Context, opts FetchOptions) (*stats.Snapshot, error) {
	var snap stats.Snapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var h stats.ClusterHealth
		if err := c.get(ctx, pathHealth, url.Values{"level": {"indices"}}, &h); err != nil {
			return fmt.Errorf("failed to fetch cluster health: %w", err)
		}
		snap.Health = &h
		return nil
	})

	g.Go(func() error {
		var resp stats.NodesStatsResponse
		if err := c.get(ctx, pathNodeStats, nil, &resp); err != nil {
			return fmt.Errorf("failed to fetch node stats: %w", err)
		}
		n, ok := resp.Local()
		if !ok {
			return fmt.Errorf("node stats response contains no node")
		}
		snap.Node = n
		return nil
	})

	g.Go(func() error {
		var info stats.NodeInfo
		if err := c.get(ctx, pathInfo, nil, &info); err != nil {
			c.logger.Warn("failed to fetch node info", "error", err)
			return nil
		}
		c.checkVersion(info.Version.Number)
		snap.Info = &info
		return nil
	})

	if opts.Indices {
		g.Go(func() error {
			var is stats.IndicesStats
			if err := c.get(ctx, pathIndices, nil, &is); err != nil {
				c.logger.Warn("failed to fetch indices stats", "error", err)
				return nil
			}
			snap.Indices = &is
			return nil
		})
	}

	if opts.ClusterSettings {
		g.Go(func() error {
			var resp stats.ClusterSettingsResponse
			query := url.Values{"include_defaults": {"true"}, "flat_settings": {"true"}}
			if err := c.get(ctx, pathSettings, query, &resp); err != nil {
				c.logger.Warn("failed to fetch cluster settings", "error", err)
				return nil
			}
			settings, errs := resp.Allocation()
			for _, err := range errs {
				c.logger.Warn("ignoring invalid allocation setting", "error", err)
			}
			snap.Settings = settings
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *Client) checkVersion(number string) {
	v, err := semver.NewVersion(number)
	if err != nil {
		c.logger.Warn("cannot parse elasticsearch version", "version", number, "error", err)
		return
	}
	if v.LessThan(minSupported) {
		c.logger.Warn("unsupported elasticsearch version, metrics may be incomplete",
			"version", v.String(),
			"minimum", minSupported.String())
	}
}

// Topology identifies the scraped node. The cluster name comes from the
// health response, which is always present in a fetched snapshot.
func Topology(snap *stats.Snapshot) metric.Topology {
	var t metric.Topology
	if snap.Health != nil {
		t.Cluster = snap.Health.ClusterName
	}
	if t.Cluster == "" && snap.Info != nil {
		t.Cluster = snap.Info.ClusterName
	}
	if snap.Node != nil {
		t.Node = snap.Node.Name
		t.NodeID = snap.Node.ID
	}
	return t
}
