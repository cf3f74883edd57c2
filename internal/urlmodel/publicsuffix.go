package urlmodel

import (
	"net/netip"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// TopPrivateDomain returns the shortest registrable suffix of the URL's host
// using the bundled public-suffix list (golang.org/x/net/publicsuffix, the
// same list the teacher's dependency tree already vendors transitively
// through golang.org/x/net). Returns "" for IP literals, single-label hosts,
// and hosts that are themselves a public suffix.
func (u *HttpUrl) TopPrivateDomain() string {
	return TopPrivateDomain(u.host)
}

// TopPrivateDomain is the free function form, usable on any canonical host
// string (e.g. a Cookie's domain attribute).
func TopPrivateDomain(host string) string {
	if host == "" {
		return ""
	}
	if strings.HasPrefix(host, "[") {
		return ""
	}
	if _, err := netip.ParseAddr(host); err == nil {
		return ""
	}
	if !strings.Contains(host, ".") {
		return ""
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return domain
}
