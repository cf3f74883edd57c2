package transportcfg

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/nexthop-io/transport/internal/platform/logutil"
)

// fileConfig mirrors Config's TOML shape.
type fileConfig struct {
	Dispatcher *dispatcherFileConfig      `toml:"dispatcher"`
	Pool       *poolFileConfig            `toml:"pool"`
	TLS        *tlsFileConfig             `toml:"tls"`
	Timeouts   *timeoutFileConfig         `toml:"timeouts"`
	Proxy      *proxyFileConfig           `toml:"proxy"`
	Overrides  map[string]map[string]any  `toml:"overrides"`
}

type dispatcherFileConfig struct {
	MaxRequests        int `toml:"max_requests"`
	MaxRequestsPerHost int `toml:"max_requests_per_host"`
}

type poolFileConfig struct {
	MaxIdleConnections int    `toml:"max_idle_connections"`
	KeepAliveSeconds   int    `toml:"keep_alive_seconds"`
}

type tlsFileConfig struct {
	ConnectionSpecs []string `toml:"connection_specs"`
	PingIntervalMS  int      `toml:"ping_interval_ms"`
}

type timeoutFileConfig struct {
	ConnectMS int `toml:"connect_ms"`
	ReadMS    int `toml:"read_ms"`
	WriteMS   int `toml:"write_ms"`
	CallMS    int `toml:"call_ms"`
}

type proxyFileConfig struct {
	HTTPProxy  string   `toml:"http_proxy"`
	HTTPSProxy string   `toml:"https_proxy"`
	NoProxy    []string `toml:"no_proxy"`
}

// LoaderOptions controls how Load behaves.
type LoaderOptions struct {
	ConfigPath string
	Logger     *slog.Logger
}

// Load reads configPath (a TOML file) if provided, overlays its values onto
// Default(), validates enum-like fields, and returns the resolved Config.
// Undecoded TOML keys are logged as warnings, not treated as fatal, mirroring
// the rest of the pack's config loaders.
func Load(opts LoaderOptions) (*Config, error) {
	logger := logutil.NoopIfNil(opts.Logger)

	c := Default()
	if opts.ConfigPath == "" {
		return c, nil
	}

	data, err := os.ReadFile(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("transportcfg: read %q: %w", opts.ConfigPath, err)
	}

	var fc fileConfig
	md, err := toml.Decode(string(data), &fc)
	if err != nil {
		return nil, fmt.Errorf("transportcfg: parse %q: %w", opts.ConfigPath, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		logger.Warn("config file contains undecoded keys", "path", opts.ConfigPath, "keys", keys)
	}

	overlay(c, &fc)
	c.ApplyDefaults()

	if err := validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

func overlay(c *Config, fc *fileConfig) {
	if fc.Dispatcher != nil {
		if fc.Dispatcher.MaxRequests != 0 {
			c.Dispatcher.MaxRequests = fc.Dispatcher.MaxRequests
		}
		if fc.Dispatcher.MaxRequestsPerHost != 0 {
			c.Dispatcher.MaxRequestsPerHost = fc.Dispatcher.MaxRequestsPerHost
		}
	}
	if fc.Pool != nil {
		if fc.Pool.MaxIdleConnections != 0 {
			c.Pool.MaxIdleConnections = fc.Pool.MaxIdleConnections
		}
		if fc.Pool.KeepAliveSeconds != 0 {
			c.Pool.KeepAlive = time.Duration(fc.Pool.KeepAliveSeconds) * time.Second
		}
	}
	if fc.TLS != nil {
		if len(fc.TLS.ConnectionSpecs) > 0 {
			c.TLS.ConnectionSpecs = fc.TLS.ConnectionSpecs
		}
		if fc.TLS.PingIntervalMS != 0 {
			c.TLS.PingIntervalMS = fc.TLS.PingIntervalMS
		}
	}
	if fc.Timeouts != nil {
		if fc.Timeouts.ConnectMS != 0 {
			c.Timeouts.ConnectMS = fc.Timeouts.ConnectMS
		}
		if fc.Timeouts.ReadMS != 0 {
			c.Timeouts.ReadMS = fc.Timeouts.ReadMS
		}
		if fc.Timeouts.WriteMS != 0 {
			c.Timeouts.WriteMS = fc.Timeouts.WriteMS
		}
		if fc.Timeouts.CallMS != 0 {
			c.Timeouts.CallMS = fc.Timeouts.CallMS
		}
	}
	if fc.Proxy != nil {
		c.Proxy = ProxyConfig{
			HTTPProxy:  fc.Proxy.HTTPProxy,
			HTTPSProxy: fc.Proxy.HTTPSProxy,
			NoProxy:    fc.Proxy.NoProxy,
		}
	}
	if len(fc.Overrides) > 0 {
		c.Overrides = fc.Overrides
	}
}

func validate(c *Config) error {
	for _, name := range c.TLS.ConnectionSpecs {
		if !validConnectionSpecNames[strings.ToUpper(name)] {
			return fmt.Errorf("transportcfg: invalid tls.connection_specs entry %q: must be one of RESTRICTED_TLS, MODERN_TLS, COMPATIBLE_TLS, CLEARTEXT", name)
		}
	}
	if c.Dispatcher.MaxRequestsPerHost > c.Dispatcher.MaxRequests {
		return fmt.Errorf("transportcfg: dispatcher.max_requests_per_host (%d) must not exceed dispatcher.max_requests (%d)", c.Dispatcher.MaxRequestsPerHost, c.Dispatcher.MaxRequests)
	}
	return nil
}
