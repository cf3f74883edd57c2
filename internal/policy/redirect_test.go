package policy

import (
	"testing"

	"github.com/nexthop-io/transport/internal/headers"
	"github.com/nexthop-io/transport/internal/urlmodel"
)

func mustParse(t *testing.T, s string) *urlmodel.HttpUrl {
	t.Helper()
	u, err := urlmodel.Get(s)
	if err != nil {
		t.Fatalf("Get(%q): %v", s, err)
	}
	return u
}

func TestRedirectPolicy_Resolve(t *testing.T) {
	p := RedirectPolicy{FollowRedirects: true}
	from := mustParse(t, "https://example.com/a")

	to, err := p.Resolve(from, "/b")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if to.String() != "https://example.com/b" {
		t.Fatalf("to = %s, want https://example.com/b", to.String())
	}
}

func TestRedirectPolicy_BlocksSSLDowngrade(t *testing.T) {
	p := RedirectPolicy{FollowRedirects: true}
	from := mustParse(t, "https://example.com/a")

	_, err := p.Resolve(from, "http://example.com/a")
	if err != ErrSSLDowngrade {
		t.Fatalf("err = %v, want ErrSSLDowngrade", err)
	}

	p.FollowSSLRedirects = true
	to, err := p.Resolve(from, "http://example.com/a")
	if err != nil || to.IsHttps() {
		t.Fatalf("downgrade should be allowed once FollowSSLRedirects is set, got (%v, %v)", to, err)
	}
}

func TestRedirectPolicy_CheckDepth(t *testing.T) {
	p := RedirectPolicy{MaxRedirects: 2}
	if err := p.CheckDepth(0); err != nil {
		t.Fatal(err)
	}
	if err := p.CheckDepth(2); err != ErrTooManyRedirects {
		t.Fatalf("err = %v, want ErrTooManyRedirects", err)
	}
}

func TestHeadersForRedirect_StripsAuthCrossHost(t *testing.T) {
	b := headers.NewBuilder()
	b.Set("Authorization", "Bearer secret")
	b.Set("Cookie", "session=1")
	b.Set("User-Agent", "transport/1.0")
	original := b.Build()

	from := mustParse(t, "https://a.example.com/")
	to := mustParse(t, "https://b.example.com/")

	stripped := HeadersForRedirect(original, from, to)
	if _, ok := stripped.Get("Authorization"); ok {
		t.Fatal("cross-host redirect must drop Authorization")
	}
	if _, ok := stripped.Get("Cookie"); ok {
		t.Fatal("cross-host redirect must drop Cookie")
	}
	if ua, ok := stripped.Get("User-Agent"); !ok || ua != "transport/1.0" {
		t.Fatal("unrelated headers must survive")
	}

	sameHost := mustParse(t, "https://a.example.com/other")
	kept := HeadersForRedirect(original, from, sameHost)
	if _, ok := kept.Get("Authorization"); !ok {
		t.Fatal("same-host redirect must keep Authorization")
	}
}
