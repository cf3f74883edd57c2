// Package transportcfg loads and validates the client's tunable knobs: the
// dispatcher's concurrency ceilings, pool sizing, the preferred
// ConnectionSpec chain, and timeout defaults.
package transportcfg

import "time"

// Config is the fully-resolved, validated configuration for one client
// instance.
type Config struct {
	Dispatcher DispatcherConfig
	Pool       PoolConfig
	TLS        TLSConfig
	Timeouts   TimeoutConfig
	Proxy      ProxyConfig

	// Overrides is a free-form table for experimental knobs the typed
	// struct doesn't name yet, e.g. per-host proxy overrides.
	Overrides map[string]map[string]any
}

// DispatcherConfig mirrors call.Dispatcher's limits.
type DispatcherConfig struct {
	MaxRequests        int
	MaxRequestsPerHost int
}

// PoolConfig mirrors pool.Pool's limits.
type PoolConfig struct {
	MaxIdleConnections int
	KeepAlive          time.Duration
}

// TLS preset names, resolved to tlsspec.ConnectionSpec by the caller (kept
// as strings here so transportcfg doesn't need to import tlsspec's
// crypto/tls-heavy package graph just to validate a name).
type TLSConfig struct {
	ConnectionSpecs []string // e.g. ["MODERN_TLS", "COMPATIBLE_TLS"]
	PingIntervalMS  int
}

// TimeoutConfig holds the per-phase timeout defaults §5 leaves
// implementation-chosen.
type TimeoutConfig struct {
	ConnectMS int
	ReadMS    int
	WriteMS   int
	CallMS    int // 0 means no overall deadline
}

// ProxyConfig configures proxy selection.
type ProxyConfig struct {
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    []string
}

var validConnectionSpecNames = map[string]bool{
	"RESTRICTED_TLS":  true,
	"MODERN_TLS":      true,
	"COMPATIBLE_TLS":  true,
	"CLEARTEXT":       true,
}

// Default returns the out-of-the-box configuration.
func Default() *Config {
	return &Config{
		Dispatcher: DispatcherConfig{MaxRequests: 64, MaxRequestsPerHost: 5},
		Pool:       PoolConfig{MaxIdleConnections: 5, KeepAlive: 5 * time.Minute},
		TLS:        TLSConfig{ConnectionSpecs: []string{"MODERN_TLS", "COMPATIBLE_TLS"}},
		Timeouts:   TimeoutConfig{ConnectMS: 10000, ReadMS: 10000, WriteMS: 10000},
	}
}

// ApplyDefaults implements cfg.Setter: anything left at its zero value after
// decoding a partial TOML document falls back to Default()'s value.
func (c *Config) ApplyDefaults() {
	d := Default()
	if c.Dispatcher.MaxRequests == 0 {
		c.Dispatcher.MaxRequests = d.Dispatcher.MaxRequests
	}
	if c.Dispatcher.MaxRequestsPerHost == 0 {
		c.Dispatcher.MaxRequestsPerHost = d.Dispatcher.MaxRequestsPerHost
	}
	if c.Pool.MaxIdleConnections == 0 {
		c.Pool.MaxIdleConnections = d.Pool.MaxIdleConnections
	}
	if c.Pool.KeepAlive == 0 {
		c.Pool.KeepAlive = d.Pool.KeepAlive
	}
	if len(c.TLS.ConnectionSpecs) == 0 {
		c.TLS.ConnectionSpecs = d.TLS.ConnectionSpecs
	}
	if c.Timeouts.ConnectMS == 0 {
		c.Timeouts.ConnectMS = d.Timeouts.ConnectMS
	}
	if c.Timeouts.ReadMS == 0 {
		c.Timeouts.ReadMS = d.Timeouts.ReadMS
	}
	if c.Timeouts.WriteMS == 0 {
		c.Timeouts.WriteMS = d.Timeouts.WriteMS
	}
}
