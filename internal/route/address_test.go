package route

import "testing"

func TestAddress_Equal(t *testing.T) {
	base := Address{Scheme: "https", Host: "example.com", Port: 443, Proxy: Direct, Protocols: []string{"h2", "http/1.1"}}
	same := base
	same.Protocols = []string{"h2", "http/1.1"}
	if !base.Equal(same) {
		t.Fatal("identical addresses should be equal")
	}

	diffPort := base
	diffPort.Port = 8443
	if base.Equal(diffPort) {
		t.Fatal("different ports must not be equal")
	}

	diffProxy := base
	diffProxy.Proxy = &Proxy{Kind: "HTTP", Host: "proxy.internal", Port: 3128}
	if base.Equal(diffProxy) {
		t.Fatal("different proxies must not be equal")
	}
}

func TestProxy_Equal_NilHandling(t *testing.T) {
	var a, b *Proxy
	if !a.Equal(b) {
		t.Fatal("two nil proxies should be equal")
	}
	if a.Equal(Direct) {
		t.Fatal("nil proxy should not equal Direct")
	}
}
