package collector

import (
	"github.com/neox5/esbox/internal/metric"
	"github.com/neox5/esbox/internal/stats"
)

var transportAliases = []alias{
	{"transport_rx_packets_count", "transport_rx_packets", "DEPRECATED: Total number of RX (receive) packets received by the node during internal cluster communication"},
	{"transport_tx_packets_count", "transport_tx_packets", "DEPRECATED: Total number of TX (transmit) packets sent by the node during internal cluster communication"},
	{"transport_rx_bytes_count", "transport_rx", "DEPRECATED: Size, in bytes, of RX packets received by the node during internal cluster communication"},
	{"transport_tx_bytes_count", "transport_tx", "DEPRECATED: Size, in bytes, of TX packets sent by the node during internal cluster communication"},
}

var httpAliases = []alias{
	{"http_open_total_count", "http_opened", "Total number of HTTP connections opened for the node"},
}

func transportFamilies() []family[stats.TransportStats] {
	return []family[stats.TransportStats]{
		gauge("transport_server_open_number", "", "Current number of inbound TCP connections used for internal communication between nodes",
			func(t *stats.TransportStats) float64 { return float64(t.ServerOpen) }),
		optCounter("transport_outbound_connections", "", "The cumulative number of outbound transport connections that this node has opened since it started.",
			func(t *stats.TransportStats) (float64, bool) {
				if t.TotalOutboundConnections == nil {
					return 0, false
				}
				return float64(*t.TotalOutboundConnections), true
			}),
		counter("transport_rx_packets", "", "Total number of RX (receive) packets received by the node during internal cluster communication",
			func(t *stats.TransportStats) float64 { return float64(t.RxCount) }),
		counter("transport_tx_packets", "", "Total number of TX (transmit) packets sent by the node during internal cluster communication",
			func(t *stats.TransportStats) float64 { return float64(t.TxCount) }),
		counter("transport_rx", "bytes", "Size, in bytes, of RX packets received by the node during internal cluster communication",
			func(t *stats.TransportStats) float64 { return float64(t.RxSizeInBytes) }),
		counter("transport_tx", "bytes", "Size, in bytes, of TX packets sent by the node during internal cluster communication",
			func(t *stats.TransportStats) float64 { return float64(t.TxSizeInBytes) }),
	}
}

func httpFamilies() []family[stats.HTTPStats] {
	return []family[stats.HTTPStats]{
		gauge("http_open_server_number", "", "Current number of open HTTP connections for the node",
			func(h *stats.HTTPStats) float64 { return float64(h.CurrentOpen) }),
		counter("http_opened", "", "Total number of HTTP connections opened for the node",
			func(h *stats.HTTPStats) float64 { return float64(h.TotalOpened) }),
	}
}

func (c *Collector) registerTransport() {
	c.transport = bind(c.catalog, metric.ScopeNode, withAliases(transportFamilies(), transportAliases, c.opts.Deprecated))
}

func (c *Collector) updateTransport(snap *stats.Snapshot) []string {
	if snap.Node == nil {
		return nil
	}
	return emit(c.transport, snap.Node.Transport)
}

func (c *Collector) registerHTTP() {
	c.http = bind(c.catalog, metric.ScopeNode, withAliases(httpFamilies(), httpAliases, c.opts.Deprecated))
}

func (c *Collector) updateHTTP(snap *stats.Snapshot) []string {
	if snap.Node == nil {
		return nil
	}
	return emit(c.http, snap.Node.HTTP)
}
