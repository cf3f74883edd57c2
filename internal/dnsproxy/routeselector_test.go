package dnsproxy

import (
	"context"
	"net/netip"
	"testing"

	"github.com/nexthop-io/transport/internal/route"
)

type fakeDns struct {
	addrs map[string][]netip.Addr
}

func (f *fakeDns) Lookup(ctx context.Context, host string) ([]netip.Addr, error) {
	a, ok := f.addrs[host]
	if !ok {
		return nil, ErrUnknownHost
	}
	return a, nil
}

func TestRouteSelector_OrdersGoodBeforePostponed(t *testing.T) {
	a1 := netip.MustParseAddr("10.0.0.1")
	a2 := netip.MustParseAddr("10.0.0.2")
	dns := &fakeDns{addrs: map[string][]netip.Addr{"example.com": {a1, a2}}}
	db := NewRouteDatabase()

	addr := route.Address{Host: "example.com", Port: 443, Proxy: route.Direct}
	bad := route.Route{Address: addr, Proxy: route.Direct, SocketAddr: netip.AddrPortFrom(a1, 443)}
	db.Failed(bad)

	sel := NewRouteSelector(dns, &StaticProxySelector{}, db)
	routes, err := sel.Select(context.Background(), addr)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("len(routes) = %d, want 2", len(routes))
	}
	if routes[0].SocketAddr.Addr() != a2 {
		t.Fatalf("routes[0] = %v, want the non-postponed address first", routes[0])
	}
	if routes[1].SocketAddr.Addr() != a1 {
		t.Fatalf("routes[1] = %v, want the postponed address last", routes[1])
	}
}

func TestRouteDatabase_SucceededClearsFailure(t *testing.T) {
	db := NewRouteDatabase()
	r := route.Route{Address: route.Address{Host: "example.com"}, Proxy: route.Direct}
	db.Failed(r)
	if !db.ShouldPostpone(r) {
		t.Fatal("expected route to be postponed after Failed")
	}
	db.Succeeded(r)
	if db.ShouldPostpone(r) {
		t.Fatal("Succeeded should clear the postponement")
	}
}
