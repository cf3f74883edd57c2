package tlsspec

import (
	cryptotls "crypto/tls"
	"log/slog"
	"strings"

	"github.com/nexthop-io/transport/internal/platform/logutil"
)

// Wildcard indicates a ConnectionSpec field accepts whatever the socket
// already advertises, in the socket's own order.
var Wildcard = struct{}{}

// ConnectionSpec is the ordered (tls, cipherSuites, tlsVersions,
// supportsTlsExtensions) tuple from §3/§4.E.
type ConnectionSpec struct {
	name  string
	tls   bool
	ciphers  []uint16 // nil + ciphersWildcard==true means wildcard
	ciphersWildcard bool
	versions []uint16 // TLS version constants (cryptotls.VersionTLS12, ...)
	versionsWildcard bool
	supportsTLSExtensions bool
}

// Named presets, in the client's preferred order (strongest first within
// each list), mirroring OkHttp's RESTRICTED_TLS/MODERN_TLS/COMPATIBLE_TLS/CLEARTEXT.
var (
	RestrictedTLS = ConnectionSpec{
		name: "RESTRICTED_TLS",
		tls:  true,
		ciphers: []uint16{
			cryptotls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
			cryptotls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			cryptotls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			cryptotls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			cryptotls.TLS_CHACHA20_POLY1305_SHA256,
		},
		versions:              []uint16{cryptotls.VersionTLS13, cryptotls.VersionTLS12},
		supportsTLSExtensions: true,
	}

	ModernTLS = ConnectionSpec{
		name: "MODERN_TLS",
		tls:  true,
		ciphers: []uint16{
			cryptotls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
			cryptotls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			cryptotls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305,
			cryptotls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			cryptotls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			cryptotls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305,
			cryptotls.TLS_RSA_WITH_AES_128_GCM_SHA256,
			cryptotls.TLS_RSA_WITH_AES_256_GCM_SHA384,
		},
		versions:              []uint16{cryptotls.VersionTLS13, cryptotls.VersionTLS12, cryptotls.VersionTLS11},
		supportsTLSExtensions: true,
	}

	CompatibleTLS = ConnectionSpec{
		name:                  "COMPATIBLE_TLS",
		tls:                   true,
		ciphersWildcard:       true,
		versions:              []uint16{cryptotls.VersionTLS13, cryptotls.VersionTLS12, cryptotls.VersionTLS11, cryptotls.VersionTLS10},
		supportsTLSExtensions: true,
	}

	Cleartext = ConnectionSpec{name: "CLEARTEXT", tls: false}
)

// Name returns the preset's identifier for logging.
func (s ConnectionSpec) Name() string { return s.name }

// ByName resolves one of the four preset names transportcfg validates
// (RESTRICTED_TLS/MODERN_TLS/COMPATIBLE_TLS/CLEARTEXT) to its ConnectionSpec.
func ByName(name string) (ConnectionSpec, bool) {
	switch strings.ToUpper(name) {
	case "RESTRICTED_TLS":
		return RestrictedTLS, true
	case "MODERN_TLS":
		return ModernTLS, true
	case "COMPATIBLE_TLS":
		return CompatibleTLS, true
	case "CLEARTEXT":
		return Cleartext, true
	default:
		return ConnectionSpec{}, false
	}
}

// IsTLS reports whether this spec applies to TLS sockets at all.
func (s ConnectionSpec) IsTLS() bool { return s.tls }

// SocketCapabilities is the subset of crypto/tls.ConnectionState / Config
// information apply needs: what the peer socket supports and has enabled.
type SocketCapabilities struct {
	SupportedCipherSuites []uint16
	EnabledCipherSuites   []uint16
	SupportedVersions     []uint16
	EnabledVersions       []uint16
	SupportsFallbackSCSV  bool
}

// IsCompatible holds iff the socket advertises at least one of the spec's
// cipher suites and at least one of its TLS versions (wildcard always matches).
func (s ConnectionSpec) IsCompatible(caps SocketCapabilities) bool {
	if !s.tls {
		return true
	}
	ciphersOK := s.ciphersWildcard || s.intersectCiphers(caps) != nil
	versionsOK := s.versionsWildcard || s.intersectVersions(caps) != nil
	return ciphersOK && versionsOK
}

// Effective is the result of applying a spec to a socket: the ordered
// cipher/version lists actually to negotiate.
type Effective struct {
	CipherSuites []uint16
	TLSVersions  []uint16
}

// Apply computes the effective lists per §4.E: intersection in spec order,
// or the socket's own enabled order on wildcard; appends TLS_FALLBACK_SCSV
// when isFallback and the socket supports it.
func (s ConnectionSpec) Apply(caps SocketCapabilities, isFallback bool) Effective {
	var eff Effective
	if s.ciphersWildcard {
		eff.CipherSuites = append([]uint16(nil), caps.EnabledCipherSuites...)
	} else {
		eff.CipherSuites = s.intersectCiphers(caps)
	}
	if s.versionsWildcard {
		eff.TLSVersions = append([]uint16(nil), caps.EnabledVersions...)
	} else {
		eff.TLSVersions = s.intersectVersions(caps)
	}
	if isFallback && caps.SupportsFallbackSCSV {
		const tlsFallbackSCSV = 0x5600
		eff.CipherSuites = append(eff.CipherSuites, tlsFallbackSCSV)
	}
	return eff
}

func (s ConnectionSpec) intersectCiphers(caps SocketCapabilities) []uint16 {
	if s.ciphersWildcard {
		return append([]uint16(nil), caps.EnabledCipherSuites...)
	}
	supported := toSet(caps.SupportedCipherSuites)
	var out []uint16
	for _, c := range s.ciphers {
		if supported[c] {
			out = append(out, c)
		}
	}
	return out
}

func (s ConnectionSpec) intersectVersions(caps SocketCapabilities) []uint16 {
	if s.versionsWildcard {
		return append([]uint16(nil), caps.EnabledVersions...)
	}
	supported := toSet(caps.SupportedVersions)
	var out []uint16
	for _, v := range s.versions {
		if supported[v] {
			out = append(out, v)
		}
	}
	return out
}

// TLSConfig builds a crypto/tls.Config for dialing directly with this
// spec, for callers that haven't already got a live socket to probe via
// SocketCapabilities: MinVersion/MaxVersion bound the preset's version
// list (left at Go's own defaults on wildcard), and CipherSuites pins the
// preset's TLS 1.0-1.2 suite list (TLS 1.3 suites aren't configurable in
// crypto/tls, so a TLS 1.3 connection always uses Go's fixed suite set
// regardless of this field).
func (s ConnectionSpec) TLSConfig(serverName string) *cryptotls.Config {
	cfg := &cryptotls.Config{ServerName: serverName}
	if !s.versionsWildcard && len(s.versions) > 0 {
		minV, maxV := s.versions[0], s.versions[0]
		for _, v := range s.versions {
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
		cfg.MinVersion = minV
		cfg.MaxVersion = maxV
	}
	if !s.ciphersWildcard && len(s.ciphers) > 0 {
		cfg.CipherSuites = append([]uint16(nil), s.ciphers...)
	}
	return cfg
}

func toSet(vals []uint16) map[uint16]bool {
	m := make(map[uint16]bool, len(vals))
	for _, v := range vals {
		m[v] = true
	}
	return m
}

// FallbackChain is the ordered list of specs the connection engine retries
// handshakes against: the preferred spec first, then progressively more
// permissive ones, exactly once each.
type FallbackChain struct {
	Specs  []ConnectionSpec
	logger *slog.Logger
}

// NewFallbackChain builds a chain, defaulting to a no-op logger when l is nil.
func NewFallbackChain(l *slog.Logger, specs ...ConnectionSpec) *FallbackChain {
	return &FallbackChain{Specs: specs, logger: logutil.NoopIfNil(l)}
}

// NextFor returns the spec to retry with after the spec at index failed, and
// whether any fallback remains. Logs at Warn level, matching the teacher's
// "generate/retry" diagnostics convention.
func (c *FallbackChain) NextFor(failedIndex int, host string, err error) (ConnectionSpec, int, bool) {
	next := failedIndex + 1
	if next >= len(c.Specs) {
		return ConnectionSpec{}, -1, false
	}
	c.logger.Warn("tls handshake failed, retrying with fallback spec",
		"host", host, "failed_spec", c.Specs[failedIndex].Name(), "next_spec", c.Specs[next].Name(), "err", err)
	return c.Specs[next], next, true
}
