package policy

import (
	"strings"

	"github.com/nexthop-io/transport/internal/headers"
	"github.com/nexthop-io/transport/internal/urlmodel"
)

// DefaultMaxRedirects is §4.I's follow-up ceiling.
const DefaultMaxRedirects = 20

// headersStrippedCrossHost are dropped from a redirected request once the
// target host differs from the original, since the client (not the caller)
// manages them.
var headersStrippedCrossHost = []string{"Authorization", "Cookie"}

// RedirectPolicy governs whether and how a 3xx response is followed.
type RedirectPolicy struct {
	FollowRedirects    bool
	FollowSSLRedirects bool
	MaxRedirects       int
}

// IsRedirect reports whether status is one of the 3xx codes §4.I follows.
func IsRedirect(status int) bool {
	switch status {
	case 300, 301, 302, 303, 307, 308:
		return true
	default:
		return false
	}
}

func (p RedirectPolicy) maxRedirects() int {
	if p.MaxRedirects <= 0 {
		return DefaultMaxRedirects
	}
	return p.MaxRedirects
}

// Resolve computes the target URL for a redirect response, given the
// request URL it followed from and the raw Location header value.
func (p RedirectPolicy) Resolve(from *urlmodel.HttpUrl, location string) (*urlmodel.HttpUrl, error) {
	if location == "" {
		return nil, ErrRedirectNoTarget
	}
	target := urlmodel.Resolve(from, location)
	if target == nil {
		return nil, ErrRedirectBadTarget
	}
	if from.IsHttps() && !target.IsHttps() && !p.FollowSSLRedirects {
		return nil, ErrSSLDowngrade
	}
	return target, nil
}

// CheckDepth returns ErrTooManyRedirects once followCount has reached the
// configured ceiling.
func (p RedirectPolicy) CheckDepth(followCount int) error {
	if followCount >= p.maxRedirects() {
		return ErrTooManyRedirects
	}
	return nil
}

// SameHost reports whether two URLs share an origin for the purposes of
// deciding whether credentials carry over across a redirect.
func SameHost(a, b *urlmodel.HttpUrl) bool {
	return strings.EqualFold(a.Host(), b.Host()) && a.Port() == b.Port()
}

// HeadersForRedirect builds the header set to send on the follow-up
// request: a copy of the original, with cross-host-sensitive headers
// stripped whenever the target host differs from the original.
func HeadersForRedirect(original *headers.Headers, from, to *urlmodel.HttpUrl) *headers.Headers {
	b := headers.NewBuilderFrom(original)
	if !SameHost(from, to) {
		for _, name := range headersStrippedCrossHost {
			b.RemoveAll(name)
		}
	}
	return b.Build()
}
