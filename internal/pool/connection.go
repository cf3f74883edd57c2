package pool

import (
	"crypto/x509"
	"net"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/nexthop-io/transport/internal/route"
	"github.com/nexthop-io/transport/internal/tlsspec"
)

// Protocol identifies the wire protocol negotiated on a connection.
type Protocol string

const (
	ProtocolHTTP1 Protocol = "http/1.1"
	ProtocolHTTP2 Protocol = "h2"
)

// Connection is a pooled, possibly-multiplexed socket plus the bookkeeping
// §4.F needs to decide whether it can still be handed out.
type Connection struct {
	Route    route.Route
	Protocol Protocol
	Conn     net.Conn

	// PeerCertificates is the cleaned chain (§4.D) for an HTTPS connection,
	// used by coalescing's SubjectAlternativeName check.
	PeerCertificates  []*x509.Certificate
	ConnectionSpec    tlsspec.ConnectionSpec
	UsesDefaultHostnameVerifier bool

	mu                    sync.Mutex
	streams               int
	maxConcurrentStreams  int
	noNewStreams          bool
	closed                bool
	idleSince             time.Time
}

// NewConnection wraps a dialed socket. maxConcurrentStreams is 1 for
// HTTP/1.1 (no multiplexing) or the peer's SETTINGS_MAX_CONCURRENT_STREAMS
// for HTTP/2.
func NewConnection(r route.Route, proto Protocol, conn net.Conn, maxConcurrentStreams int) *Connection {
	if maxConcurrentStreams <= 0 {
		maxConcurrentStreams = 1
	}
	return &Connection{
		Route:                r,
		Protocol:             proto,
		Conn:                 conn,
		maxConcurrentStreams: maxConcurrentStreams,
		idleSince:            time.Now(),
	}
}

// AcquireStream reserves a stream lease, returning false if the connection
// is saturated, closed, or has been marked no-new-streams (e.g. after a
// GOAWAY).
func (c *Connection) AcquireStream() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.noNewStreams || c.streams >= c.maxConcurrentStreams {
		return false
	}
	c.streams++
	c.idleSince = time.Time{}
	return true
}

// ReleaseStream returns a stream lease; the connection becomes idle again
// once the last lease is released.
func (c *Connection) ReleaseStream() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.streams > 0 {
		c.streams--
	}
	if c.streams == 0 {
		c.idleSince = time.Now()
	}
}

// MarkNoNewStreams prevents further leases, e.g. on receipt of a GOAWAY
// frame or an HTTP/1.1 "Connection: close".
func (c *Connection) MarkNoNewStreams() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.noNewStreams = true
}

// IdleDuration reports how long the connection has had zero active
// streams, or zero if it currently has active streams.
func (c *Connection) IdleDuration(now time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.streams > 0 || c.idleSince.IsZero() {
		return 0
	}
	return now.Sub(c.idleSince)
}

// IsSaturated reports whether the connection has no spare stream capacity.
func (c *Connection) IsSaturated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed || c.noNewStreams || c.streams >= c.maxConcurrentStreams
}

// IsHealthy probes for a closed peer socket without consuming application
// data, matching §4.F's "pool probes for closed sockets" requirement.
func (c *Connection) IsHealthy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	if c.Conn == nil {
		return true
	}
	one := make([]byte, 1)
	_ = c.Conn.SetReadDeadline(time.Now().Add(time.Millisecond))
	n, err := c.Conn.Read(one)
	_ = c.Conn.SetReadDeadline(time.Time{})
	if n > 0 {
		// Unexpected application byte while idle: treat conservatively as
		// healthy, the caller's read will surface it.
		return true
	}
	if err == nil {
		return true
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return true
	}
	return false
}

// Close closes the underlying socket, idempotently.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.Conn == nil {
		return nil
	}
	return c.Conn.Close()
}

// CanCoalesce implements the coalescing predicate from §4.F step 3: this
// connection's route resolves to one of the candidate's addresses, its
// verified certificate covers host as a SubjectAlternativeName, and the
// candidate relies on the default hostname verifier.
func (c *Connection) CanCoalesce(host string, candidateAddrs []netip.Addr, usesDefaultHostnameVerifier bool) bool {
	if !usesDefaultHostnameVerifier || !c.UsesDefaultHostnameVerifier {
		return false
	}
	if c.Protocol != ProtocolHTTP2 {
		return false
	}
	matched := false
	for _, a := range candidateAddrs {
		if a == c.Route.SocketAddr.Addr() {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	return certificateCoversHost(c.PeerCertificates, host)
}

func certificateCoversHost(chain []*x509.Certificate, host string) bool {
	if len(chain) == 0 {
		return false
	}
	leaf := chain[0]
	for _, name := range leaf.DNSNames {
		if matchesDNSName(name, host) {
			return true
		}
	}
	return strings.EqualFold(leaf.Subject.CommonName, host)
}

// matchesDNSName supports a single leading "*" wildcard label, as
// leaf certificates commonly do.
func matchesDNSName(pattern, host string) bool {
	pattern = strings.ToLower(pattern)
	host = strings.ToLower(host)
	if pattern == host {
		return true
	}
	if !strings.HasPrefix(pattern, "*.") {
		return false
	}
	i := strings.IndexByte(host, '.')
	if i < 0 {
		return false
	}
	return pattern[2:] == host[i+1:]
}
