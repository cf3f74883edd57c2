// Package message defines the Request/Response value types §6 names:
// (method, url, headers, optional body, tags) and (request, protocol,
// code, message, headers, optional body, timestamps, optional prior
// response).
package message

import (
	"io"
	"time"

	"github.com/nexthop-io/transport/internal/call"
	"github.com/nexthop-io/transport/internal/headers"
	"github.com/nexthop-io/transport/internal/urlmodel"
)

// Body carries a MediaType plus a streaming write operation, mirroring
// OkHttp's RequestBody contract: contentType, optional contentLength, and
// a single-use write to an io.Writer.
type Body struct {
	ContentType   string
	ContentLength int64 // -1 when unknown (forces chunked/connection-close framing)
	WriteTo       func(w io.Writer) error
}

// Request is one outbound HTTP request.
type Request struct {
	Method  string
	URL     *urlmodel.HttpUrl
	Headers *headers.Headers
	Body    *Body
	Tags    *call.Tags
}

// Response is one HTTP response, including enough of the handshake to
// drive §4.F's coalescing and §4.D's chain cleaning, plus an optional
// link to the response that immediately preceded it (the prior-response
// chain redirects and auth retries build up).
type Response struct {
	Request    *Request
	Protocol   string // "http/1.1" or "h2"
	Code       int
	Message    string
	Headers    *headers.Headers
	Body       *Body
	SentAt     time.Time
	ReceivedAt time.Time
	Prior      *Response
}

// IsSuccessful reports the conventional 2xx range.
func (r *Response) IsSuccessful() bool {
	return r.Code >= 200 && r.Code < 300
}

// IsRedirect mirrors policy.RedirectPolicy.IsRedirect for callers that only
// have a Response in hand.
func (r *Response) IsRedirect() bool {
	switch r.Code {
	case 300, 301, 302, 303, 307, 308:
		return true
	default:
		return false
	}
}

// PriorResponses walks the Prior chain, most recent first, returning each
// stored response as it is.
func (r *Response) PriorResponses() []*Response {
	var out []*Response
	for p := r.Prior; p != nil; p = p.Prior {
		out = append(out, p)
	}
	return out
}
