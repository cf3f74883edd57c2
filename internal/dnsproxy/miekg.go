package dnsproxy

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/miekg/dns"
)

// MiekgDns resolves by speaking DNS directly to an explicit list of
// recursive resolvers, bypassing the OS resolver entirely. Useful when the
// caller needs resolver-identity control that net.Resolver can't express
// (e.g. DNS-over-a-specific-upstream pinning for §4.F's address identity).
type MiekgDns struct {
	Servers []string // "host:port", e.g. "1.1.1.1:53"
	Client  *dns.Client
}

// NewMiekgDns builds a resolver querying servers in order until one
// answers.
func NewMiekgDns(servers ...string) *MiekgDns {
	return &MiekgDns{Servers: servers, Client: &dns.Client{}}
}

// Lookup implements Dns, querying A and AAAA records.
func (m *MiekgDns) Lookup(ctx context.Context, host string) ([]netip.Addr, error) {
	if len(m.Servers) == 0 {
		return nil, fmt.Errorf("%w: %s: no DNS servers configured", ErrUnknownHost, host)
	}
	var out []netip.Addr
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		addrs, err := m.query(ctx, host, qtype)
		if err == nil {
			out = append(out, addrs...)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHost, host)
	}
	return out, nil
}

func (m *MiekgDns) query(ctx context.Context, host string, qtype uint16) ([]netip.Addr, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), qtype)
	msg.RecursionDesired = true

	var lastErr error
	for _, server := range m.Servers {
		resp, _, err := m.Client.ExchangeContext(ctx, msg, server)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.Rcode != dns.RcodeSuccess {
			lastErr = fmt.Errorf("dnsproxy: %s answered rcode %d", server, resp.Rcode)
			continue
		}
		var out []netip.Addr
		for _, rr := range resp.Answer {
			switch rec := rr.(type) {
			case *dns.A:
				if addr, ok := netip.AddrFromSlice(rec.A); ok {
					out = append(out, addr.Unmap())
				}
			case *dns.AAAA:
				if addr, ok := netip.AddrFromSlice(rec.AAAA); ok {
					out = append(out, addr)
				}
			}
		}
		return out, nil
	}
	return nil, lastErr
}
