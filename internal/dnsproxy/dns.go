// Package dnsproxy implements §4.J: pluggable DNS resolution and ordered
// proxy selection, plus the route enumeration (§C) built on top of them.
package dnsproxy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
)

// ErrUnknownHost is returned when a Dns implementation resolves a host to
// zero addresses, per §4.J ("non-empty or the call fails with an
// unknown-host error").
var ErrUnknownHost = errors.New("dnsproxy: unknown host")

// Dns is the pluggable host-to-addresses function from §4.J.
type Dns interface {
	Lookup(ctx context.Context, host string) ([]netip.Addr, error)
}

// SystemDns resolves via the platform resolver (net.DefaultResolver or an
// injected net.Resolver), the default implementation.
type SystemDns struct {
	Resolver *net.Resolver
}

// NewSystemDns builds a SystemDns using net.DefaultResolver.
func NewSystemDns() *SystemDns { return &SystemDns{Resolver: net.DefaultResolver} }

func (d *SystemDns) resolver() *net.Resolver {
	if d.Resolver != nil {
		return d.Resolver
	}
	return net.DefaultResolver
}

// Lookup implements Dns.
func (d *SystemDns) Lookup(ctx context.Context, host string) ([]netip.Addr, error) {
	ipAddrs, err := d.resolver().LookupIPAddr(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnknownHost, host, err)
	}
	out := make([]netip.Addr, 0, len(ipAddrs))
	for _, a := range ipAddrs {
		if addr, ok := netip.AddrFromSlice(a.IP); ok {
			out = append(out, addr.Unmap())
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHost, host)
	}
	return out, nil
}
