package route

import "net/netip"

// Route is one concrete attempt at reaching an Address: a resolved socket
// address behind a specific proxy hop.
type Route struct {
	Address    Address
	Proxy      *Proxy
	SocketAddr netip.AddrPort
}

// Equal reports whether two routes would produce an interchangeable
// connection (same pooling address and same concrete socket).
func (r Route) Equal(o Route) bool {
	return r.Address.Equal(o.Address) && r.Proxy.Equal(o.Proxy) && r.SocketAddr == o.SocketAddr
}

// Selector resolves an Address into an ordered list of Routes to attempt,
// folding DNS resolution and proxy selection (§4.J) into one step.
type Selector interface {
	// Next returns the next batch of routes to try, or an empty slice when
	// exhausted.
	Next() ([]Route, error)
	// HasNext reports whether another call to Next may produce routes.
	HasNext() bool
}
