package dnsproxy

import (
	"testing"

	"github.com/nexthop-io/transport/internal/route"
)

func TestStaticProxySelector_NoProxyBypass(t *testing.T) {
	httpProxy := &route.Proxy{Kind: "HTTP", Host: "proxy.internal", Port: 3128}
	s := &StaticProxySelector{
		Proxies: []*route.Proxy{httpProxy},
		NoProxy: []string{".internal", "localhost"},
	}

	got := s.Select("svc.internal")
	if len(got) != 1 || got[0] != route.Direct {
		t.Fatalf("Select(svc.internal) = %v, want [Direct]", got)
	}

	got = s.Select("localhost")
	if len(got) != 1 || got[0] != route.Direct {
		t.Fatalf("Select(localhost) = %v, want [Direct]", got)
	}

	got = s.Select("example.com")
	if len(got) != 1 || got[0] != httpProxy {
		t.Fatalf("Select(example.com) = %v, want [httpProxy]", got)
	}
}

func TestStaticProxySelector_EmptyMeansDirect(t *testing.T) {
	s := &StaticProxySelector{}
	got := s.Select("example.com")
	if len(got) != 1 || got[0] != route.Direct {
		t.Fatalf("got %v, want [Direct]", got)
	}
}
