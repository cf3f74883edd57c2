// Package http2 wires golang.org/x/net/http2's HPACK encoder/decoder into
// the pseudo-header + scrubbing rules §4.H requires for HTTP/2 framing.
package http2

import (
	"strings"

	"golang.org/x/net/http2/hpack"

	"github.com/nexthop-io/transport/internal/headers"
)

// connectionSpecificHeaders lists the header names that must never cross
// onto an HTTP/2 stream: they describe hop-by-hop TCP connection semantics
// that HTTP/2 multiplexing makes meaningless.
var connectionSpecificHeaders = map[string]bool{
	"connection":        true,
	"keep-alive":        true,
	"proxy-connection":  true,
	"transfer-encoding": true,
	"upgrade":           true,
	"host":              true,
}

// RequestHeaderFields converts an outbound request into the ordered HPACK
// field list §4.H specifies: the four pseudo-headers first (method, path,
// authority, scheme), then every remaining header with connection-specific
// fields dropped and TE dropped unless its value is exactly "trailers".
func RequestHeaderFields(method, path, authority, scheme string, h *headers.Headers) []hpack.HeaderField {
	fields := []hpack.HeaderField{
		{Name: ":method", Value: method},
		{Name: ":path", Value: path},
		{Name: ":authority", Value: authority},
		{Name: ":scheme", Value: scheme},
	}
	for i := 0; i < h.Size(); i++ {
		name := h.NameAt(i)
		lower := strings.ToLower(name)
		if connectionSpecificHeaders[lower] {
			continue
		}
		value := h.ValueAt(i)
		if lower == "te" {
			if value != "trailers" {
				continue
			}
			fields = append(fields, hpack.HeaderField{Name: "te", Value: "trailers"})
			continue
		}
		fields = append(fields, hpack.HeaderField{Name: lower, Value: value})
	}
	return fields
}

// ScrubIncoming strips any connection-specific entries from a decoded
// HEADERS block before it's surfaced to the caller, in case a misbehaving
// peer sent one anyway.
func ScrubIncoming(fields []hpack.HeaderField) []hpack.HeaderField {
	out := fields[:0:0]
	for _, f := range fields {
		if connectionSpecificHeaders[strings.ToLower(f.Name)] {
			continue
		}
		out = append(out, f)
	}
	return out
}

// DecodeResponseHeaders splits a decoded HEADERS block into its :status
// pseudo-header and the remaining regular headers, built into a
// headers.Headers via the shared Builder so downstream code (redirect
// policy, cache-control parsing) sees the same type regardless of codec.
func DecodeResponseHeaders(fields []hpack.HeaderField) (status string, h *headers.Headers, err error) {
	b := headers.NewBuilder()
	for _, f := range ScrubIncoming(fields) {
		if f.Name == ":status" {
			status = f.Value
			continue
		}
		if strings.HasPrefix(f.Name, ":") {
			continue
		}
		if _, addErr := b.Add(f.Name, f.Value); addErr != nil {
			return "", nil, addErr
		}
	}
	return status, b.Build(), nil
}
