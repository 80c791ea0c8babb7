package metric

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/prometheus/common/expfmt"
)

// NegotiateFormat picks the exposition format for a request's Accept header.
// OpenMetrics is offered when the client asks for it; the text format is the
// fallback.
func NegotiateFormat(h http.Header) expfmt.Format {
	return expfmt.NegotiateIncludingOpenMetrics(h)
}

// ContentType resolves an Accept header value to an exposition format.
func ContentType(accept string) expfmt.Format {
	h := http.Header{}
	if accept != "" {
		h.Set("Accept", accept)
	}
	return NegotiateFormat(h)
}

// Render serializes every registered family in the given format, labels in
// composed order. It only reads the registry; two calls without an update in
// between return the same bytes unless the runtime collector is enabled.
func (c *Catalog) Render(format expfmt.Format) ([]byte, error) {
	mfs, err := c.Gatherer().Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, format)
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", mf.GetName(), err)
		}
	}
	if closer, ok := enc.(expfmt.Closer); ok {
		if err := closer.Close(); err != nil {
			return nil, fmt.Errorf("failed to close encoder: %w", err)
		}
	}
	return buf.Bytes(), nil
}
