// Package route implements the address/route model behind §4.F: what makes
// two requests poolable onto the same connection, and which concrete
// socket address a route resolves to.
package route

import "github.com/nexthop-io/transport/internal/tlsspec"

// Address is the full pooling key from §4.F: two calls share a connection
// only when every field here compares equal.
type Address struct {
	Scheme   string
	Host     string
	Port     int
	Proxy    *Proxy

	DNSIdentity                string
	ProxySelectorIdentity      string
	SocketFactoryIdentity      string
	SSLFactoryIdentity         string
	HostnameVerifierIdentity   string
	CertificatePinnerIdentity  string
	ProxyAuthenticatorIdentity string

	Protocols       []string
	ConnectionSpecs []tlsspec.ConnectionSpec
}

// Equal reports whether two addresses are interchangeable for pooling.
func (a Address) Equal(o Address) bool {
	if a.Scheme != o.Scheme || a.Host != o.Host || a.Port != o.Port {
		return false
	}
	if !a.Proxy.Equal(o.Proxy) {
		return false
	}
	if a.DNSIdentity != o.DNSIdentity ||
		a.ProxySelectorIdentity != o.ProxySelectorIdentity ||
		a.SocketFactoryIdentity != o.SocketFactoryIdentity ||
		a.SSLFactoryIdentity != o.SSLFactoryIdentity ||
		a.HostnameVerifierIdentity != o.HostnameVerifierIdentity ||
		a.CertificatePinnerIdentity != o.CertificatePinnerIdentity ||
		a.ProxyAuthenticatorIdentity != o.ProxyAuthenticatorIdentity {
		return false
	}
	if len(a.Protocols) != len(o.Protocols) {
		return false
	}
	for i := range a.Protocols {
		if a.Protocols[i] != o.Protocols[i] {
			return false
		}
	}
	if len(a.ConnectionSpecs) != len(o.ConnectionSpecs) {
		return false
	}
	for i := range a.ConnectionSpecs {
		if a.ConnectionSpecs[i].Name() != o.ConnectionSpecs[i].Name() {
			return false
		}
	}
	return true
}

// IsHTTPS reports whether the address requires a TLS handshake.
func (a Address) IsHTTPS() bool { return a.Scheme == "https" }

// Proxy describes the single hop a route takes before reaching Address's
// host, or nil for a direct connection.
type Proxy struct {
	Kind string // "DIRECT", "HTTP", "SOCKS"
	Host string
	Port int
}

// Direct is the well-known no-proxy sentinel.
var Direct = &Proxy{Kind: "DIRECT"}

// Equal compares two (possibly nil) proxies by value.
func (p *Proxy) Equal(o *Proxy) bool {
	if p == nil || o == nil {
		return p == o
	}
	return *p == *o
}

func (p *Proxy) String() string {
	if p == nil || p.Kind == "DIRECT" {
		return "DIRECT"
	}
	return p.Kind + " " + p.Host
}
