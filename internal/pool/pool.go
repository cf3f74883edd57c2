package pool

import (
	"log/slog"
	"net/netip"
	"sync"
	"time"

	"github.com/nexthop-io/transport/internal/platform/logutil"
	"github.com/nexthop-io/transport/internal/route"
)

// DefaultMaxIdleConnections is §4.F's default ceiling on idle pooled
// connections.
const DefaultMaxIdleConnections = 5

// Pool is the unordered set of live connections keyed by Address, per §4.F.
type Pool struct {
	mu                 sync.Mutex
	connections        map[*Connection]struct{}
	maxIdleConnections int
	keepAlive          time.Duration
	logger             *slog.Logger
}

// New builds an empty pool. keepAlive is the idle-connection eviction
// window; maxIdle <= 0 falls back to DefaultMaxIdleConnections.
func New(maxIdle int, keepAlive time.Duration, logger *slog.Logger) *Pool {
	if maxIdle <= 0 {
		maxIdle = DefaultMaxIdleConnections
	}
	return &Pool{
		connections:        make(map[*Connection]struct{}),
		maxIdleConnections: maxIdle,
		keepAlive:          keepAlive,
		logger:             logutil.NoopIfNil(logger),
	}
}

// Acquire scans the pool for a connection matching addr that still has
// spare stream capacity and passes the health probe (§4.F steps 2 & health
// check). Unhealthy matches are dropped from the pool as a side effect.
func (p *Pool) Acquire(addr route.Address) (*Connection, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var dead []*Connection
	var found *Connection
	for c := range p.connections {
		if !c.Route.Address.Equal(addr) {
			continue
		}
		if !c.IsHealthy() {
			dead = append(dead, c)
			continue
		}
		if c.IsSaturated() {
			continue
		}
		if c.AcquireStream() {
			found = c
			break
		}
	}
	for _, c := range dead {
		delete(p.connections, c)
	}
	if found != nil {
		p.logger.Debug("pool hit", "host", addr.Host, "port", addr.Port)
		return found, true
	}
	return nil, false
}

// AcquireCoalesced implements §4.F step 3: find any pooled HTTP/2
// connection whose route resolves to one of resolvedAddrs and whose
// verified certificate covers host, regardless of the connection's own
// Address.Host.
func (p *Pool) AcquireCoalesced(host string, resolvedAddrs []netip.Addr, usesDefaultHostnameVerifier bool) (*Connection, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for c := range p.connections {
		if c.IsSaturated() || !c.IsHealthy() {
			continue
		}
		if !c.CanCoalesce(host, resolvedAddrs, usesDefaultHostnameVerifier) {
			continue
		}
		if c.AcquireStream() {
			p.logger.Debug("pool coalesced", "host", host)
			return c, true
		}
	}
	return nil, false
}

// Put registers a freshly opened connection with the pool (§4.F step 5).
func (p *Pool) Put(c *Connection) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connections[c] = struct{}{}
}

// Remove drops a connection from the pool, e.g. after it is closed.
func (p *Pool) Remove(c *Connection) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.connections, c)
}

// ReconcileAfterRace implements the racing correction from §4.F: after
// opening "fresh" outside the pool lock, check whether a coalescable
// connection now exists; if so close fresh and return the existing one,
// otherwise register fresh and return it.
func (p *Pool) ReconcileAfterRace(fresh *Connection, host string, resolvedAddrs []netip.Addr, usesDefaultHostnameVerifier bool) *Connection {
	if existing, ok := p.AcquireCoalesced(host, resolvedAddrs, usesDefaultHostnameVerifier); ok {
		fresh.ReleaseStream()
		_ = fresh.Close()
		p.logger.Debug("closed redundant connection after coalescing race", "host", host)
		return existing
	}
	p.Put(fresh)
	return fresh
}

// Evict closes idle connections that have exceeded keepAlive, and trims
// the idle set down to maxIdleConnections starting with the
// longest-idle connections. Returns the number of connections closed.
func (p *Pool) Evict() int {
	p.mu.Lock()
	now := time.Now()
	var idle []*Connection
	for c := range p.connections {
		if c.IdleDuration(now) > 0 {
			idle = append(idle, c)
		}
	}
	var toClose []*Connection
	for _, c := range idle {
		if p.keepAlive > 0 && c.IdleDuration(now) > p.keepAlive {
			toClose = append(toClose, c)
		}
	}
	for len(idle)-len(toClose) > p.maxIdleConnections {
		var oldest *Connection
		var oldestDur time.Duration
		for _, c := range idle {
			already := false
			for _, x := range toClose {
				if x == c {
					already = true
					break
				}
			}
			if already {
				continue
			}
			d := c.IdleDuration(now)
			if oldest == nil || d > oldestDur {
				oldest, oldestDur = c, d
			}
		}
		if oldest == nil {
			break
		}
		toClose = append(toClose, oldest)
	}
	for _, c := range toClose {
		delete(p.connections, c)
	}
	p.mu.Unlock()

	for _, c := range toClose {
		_ = c.Close()
	}
	if len(toClose) > 0 {
		p.logger.Debug("evicted idle connections", "count", len(toClose))
	}
	return len(toClose)
}

// Size reports the number of connections currently pooled.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.connections)
}
