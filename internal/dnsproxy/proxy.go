package dnsproxy

import (
	"strings"

	"github.com/nexthop-io/transport/internal/route"
)

// ProxySelector returns an ordered list of proxies to attempt for a given
// host, per §4.J; a route.Direct entry means a direct connection.
type ProxySelector interface {
	Select(host string) []*route.Proxy
}

// StaticProxySelector always returns the same ordered list, honouring a
// NO_PROXY-style exclusion list the way environment-variable-driven HTTP
// clients conventionally do.
type StaticProxySelector struct {
	Proxies []*route.Proxy
	NoProxy []string // hostnames or suffixes (".internal") bypassing all proxies
}

// Select implements ProxySelector.
func (s *StaticProxySelector) Select(host string) []*route.Proxy {
	if s.bypassed(host) {
		return []*route.Proxy{route.Direct}
	}
	if len(s.Proxies) == 0 {
		return []*route.Proxy{route.Direct}
	}
	return s.Proxies
}

func (s *StaticProxySelector) bypassed(host string) bool {
	host = strings.ToLower(host)
	for _, entry := range s.NoProxy {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry == "" {
			continue
		}
		if entry == "*" {
			return true
		}
		if strings.HasPrefix(entry, ".") {
			if strings.HasSuffix(host, entry) || host == strings.TrimPrefix(entry, ".") {
				return true
			}
			continue
		}
		if host == entry || strings.HasSuffix(host, "."+entry) {
			return true
		}
	}
	return false
}
