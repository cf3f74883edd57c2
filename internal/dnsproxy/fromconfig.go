package dnsproxy

import (
	"fmt"
	"net"
	"strconv"

	"github.com/nexthop-io/transport/internal/platform/hostport"
	"github.com/nexthop-io/transport/internal/route"
)

// ProxyFromAuthority parses a bare host[:port] authority string, as found in
// "http_proxy"/"https_proxy"-style settings, into a route.Proxy, using
// hostport.Normalize for the scheme-aware default-port handling. A value
// with a scheme prefix such as "http://" or with a path is rejected.
func ProxyFromAuthority(kind, authority, scheme string) (*route.Proxy, error) {
	normalized, err := hostport.Normalize(authority, scheme)
	if err != nil {
		return nil, fmt.Errorf("dnsproxy: proxy authority: %w", err)
	}

	host, portStr, err := net.SplitHostPort(normalized)
	if err != nil {
		// Normalize stripped a default port; fall back to the scheme's.
		host = normalized
		portStr = defaultProxyPort(scheme)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("dnsproxy: proxy authority %q: invalid port %q", authority, portStr)
	}
	return &route.Proxy{Kind: kind, Host: host, Port: port}, nil
}

func defaultProxyPort(scheme string) string {
	if scheme == "https" {
		return "443"
	}
	return "80"
}

// StaticProxySelectorFromConfig builds a StaticProxySelector from the
// environment-variable-shaped http_proxy/https_proxy/no_proxy strings
// transportcfg.ProxyConfig carries, deduplicating HTTP and HTTPS entries
// when they name the same authority.
func StaticProxySelectorFromConfig(httpProxy, httpsProxy string, noProxy []string) (*StaticProxySelector, error) {
	var proxies []*route.Proxy
	if httpProxy != "" {
		p, err := ProxyFromAuthority("HTTP", httpProxy, "http")
		if err != nil {
			return nil, err
		}
		proxies = append(proxies, p)
	}
	if httpsProxy != "" {
		p, err := ProxyFromAuthority("HTTP", httpsProxy, "https")
		if err != nil {
			return nil, err
		}
		if len(proxies) == 0 || !proxies[0].Equal(p) {
			proxies = append(proxies, p)
		}
	}
	return &StaticProxySelector{Proxies: proxies, NoProxy: noProxy}, nil
}
