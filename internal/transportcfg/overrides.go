package transportcfg

import (
	"fmt"

	"github.com/nexthop-io/transport/internal/cfg"
	"github.com/nexthop-io/transport/internal/route"
)

// proxyOverride is the free-form per-host override shape decoded from
// Config.Overrides["proxy"][host] — a TOML table whose keys aren't known
// ahead of time, so it's decoded with cfg.Decode rather than a typed field.
type proxyOverride struct {
	Kind string `mapstructure:"kind"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func (p *proxyOverride) ApplyDefaults() {
	if p.Kind == "" {
		p.Kind = "DIRECT"
	}
}

// ProxyOverrides decodes Config.Overrides["proxy"] into a per-host proxy
// map, letting an operator pin a specific origin to a specific proxy
// without the typed ProxyConfig growing a field per exception.
func (c *Config) ProxyOverrides() (map[string]*route.Proxy, error) {
	raw, ok := c.Overrides["proxy"]
	if !ok {
		return nil, nil
	}
	out := make(map[string]*route.Proxy, len(raw))
	for host, v := range raw {
		table, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("transportcfg: overrides.proxy.%s must be a table", host)
		}
		var po proxyOverride
		if err := cfg.Decode(table, &po); err != nil {
			return nil, fmt.Errorf("transportcfg: overrides.proxy.%s: %w", host, err)
		}
		out[host] = &route.Proxy{Kind: po.Kind, Host: po.Host, Port: po.Port}
	}
	return out, nil
}
