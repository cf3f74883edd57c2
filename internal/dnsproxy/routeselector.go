package dnsproxy

import (
	"context"
	"fmt"
	"net/netip"
	"sync"

	"github.com/nexthop-io/transport/internal/route"
)

// RouteDatabase remembers routes that recently failed so RouteSelector can
// deprioritise them before the next retry, the origin of OkHttp's
// RouteDatabase and load-bearing for §4.I's retry-on-connection-failure
// rule: a route that just failed shouldn't be the first one retried.
type RouteDatabase struct {
	mu     sync.Mutex
	failed map[string]struct{}
}

// NewRouteDatabase builds an empty database.
func NewRouteDatabase() *RouteDatabase {
	return &RouteDatabase{failed: make(map[string]struct{})}
}

func routeKey(r route.Route) string {
	return fmt.Sprintf("%s|%s|%s", r.Address.Host, r.Proxy.String(), r.SocketAddr.String())
}

// Failed records that r could not be connected.
func (d *RouteDatabase) Failed(r route.Route) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failed[routeKey(r)] = struct{}{}
}

// Succeeded clears any failure record for r, since a route that just
// worked should no longer be deprioritised.
func (d *RouteDatabase) Succeeded(r route.Route) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.failed, routeKey(r))
}

// ShouldPostpone reports whether r has a recent failure on record.
func (d *RouteDatabase) ShouldPostpone(r route.Route) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, bad := d.failed[routeKey(r)]
	return bad
}

// RouteSelector enumerates (proxy, address) pairs for one Address,
// resolving DNS per proxy hop and deprioritising routes the RouteDatabase
// has flagged, per §4.J/§4.F.
type RouteSelector struct {
	dns      Dns
	proxies  ProxySelector
	database *RouteDatabase
}

// NewRouteSelector builds a selector for a single address's connection
// attempts.
func NewRouteSelector(dns Dns, proxies ProxySelector, database *RouteDatabase) *RouteSelector {
	return &RouteSelector{dns: dns, proxies: proxies, database: database}
}

// Select returns every candidate route for addr, in preferred order:
// healthy (non-postponed) routes before previously-failed ones, proxies in
// the selector's order, and within a proxy, resolved addresses in DNS
// answer order.
func (s *RouteSelector) Select(ctx context.Context, addr route.Address) ([]route.Route, error) {
	proxies := s.proxies.Select(addr.Host)
	var good, postponed []route.Route

	for _, proxy := range proxies {
		dialHost := addr.Host
		dialPort := addr.Port
		if proxy != nil && proxy.Kind != "DIRECT" {
			dialHost, dialPort = proxy.Host, proxy.Port
		}
		resolved, err := s.dns.Lookup(ctx, dialHost)
		if err != nil {
			continue
		}
		for _, a := range resolved {
			r := route.Route{
				Address:    addr,
				Proxy:      proxy,
				SocketAddr: netip.AddrPortFrom(a, uint16(dialPort)),
			}
			if s.database != nil && s.database.ShouldPostpone(r) {
				postponed = append(postponed, r)
			} else {
				good = append(good, r)
			}
		}
	}
	if len(good) == 0 && len(postponed) == 0 {
		return nil, ErrUnknownHost
	}
	return append(good, postponed...), nil
}
