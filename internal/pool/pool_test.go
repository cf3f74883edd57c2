package pool

import (
	"net"
	"testing"
	"time"

	"github.com/nexthop-io/transport/internal/route"
)

func testAddress(host string) route.Address {
	return route.Address{Scheme: "https", Host: host, Port: 443, Proxy: route.Direct}
}

func TestPool_AcquireHitAndSaturation(t *testing.T) {
	p := New(5, time.Minute, nil)
	client, server := net.Pipe()
	defer server.Close()

	addr := testAddress("example.com")
	conn := NewConnection(route.Route{Address: addr}, ProtocolHTTP1, client, 1)
	conn.AcquireStream() // simulate the initial stream that created this connection
	p.Put(conn)

	if _, ok := p.Acquire(addr); ok {
		t.Fatal("HTTP/1.1 connection at its single-stream limit must not be reacquired")
	}

	conn.ReleaseStream()
	got, ok := p.Acquire(addr)
	if !ok || got != conn {
		t.Fatal("expected to reacquire the now-idle connection")
	}
}

func TestPool_AcquireMissOnDifferentAddress(t *testing.T) {
	p := New(5, time.Minute, nil)
	client, server := net.Pipe()
	defer server.Close()

	conn := NewConnection(route.Route{Address: testAddress("a.example.com")}, ProtocolHTTP1, client, 1)
	p.Put(conn)

	if _, ok := p.Acquire(testAddress("b.example.com")); ok {
		t.Fatal("must not match a differently-addressed connection")
	}
}

func TestPool_Evict_ClosesExpiredIdleConnections(t *testing.T) {
	p := New(5, time.Millisecond, nil)
	client, server := net.Pipe()
	defer server.Close()

	conn := NewConnection(route.Route{Address: testAddress("example.com")}, ProtocolHTTP1, client, 1)
	p.Put(conn)

	time.Sleep(5 * time.Millisecond)
	closed := p.Evict()
	if closed != 1 {
		t.Fatalf("Evict() = %d, want 1", closed)
	}
	if p.Size() != 0 {
		t.Fatalf("pool size = %d after eviction, want 0", p.Size())
	}
}

func TestPool_Evict_BoundsIdleCountWithoutExpiring(t *testing.T) {
	p := New(1, time.Hour, nil)
	var conns []*Connection
	for i := 0; i < 3; i++ {
		client, server := net.Pipe()
		defer server.Close()
		c := NewConnection(route.Route{Address: testAddress("example.com")}, ProtocolHTTP1, client, 1)
		conns = append(conns, c)
		p.Put(c)
	}

	p.Evict()
	if p.Size() > 1 {
		t.Fatalf("pool size = %d, want at most maxIdleConnections (1)", p.Size())
	}
}

func TestConnection_CanCoalesce(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	conn := NewConnection(route.Route{}, ProtocolHTTP2, client, 100)
	conn.UsesDefaultHostnameVerifier = true
	if conn.CanCoalesce("example.com", nil, true) {
		t.Fatal("no certificates present, should not coalesce")
	}
}

func TestMatchesDNSName_Wildcard(t *testing.T) {
	if !matchesDNSName("*.example.com", "api.example.com") {
		t.Fatal("wildcard should match one label")
	}
	if matchesDNSName("*.example.com", "example.com") {
		t.Fatal("wildcard requires a label before the suffix")
	}
	if matchesDNSName("*.example.com", "a.b.example.com") {
		t.Fatal("wildcard must not match multiple labels")
	}
}
