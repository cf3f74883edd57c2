package urlmodel

import (
	"fmt"
	"net/netip"
	"strings"

	"golang.org/x/net/idna"
)

// idnaProfile mirrors the teacher's preference for a single shared, package
// level configuration object over re-building one per call.
var idnaProfile = idna.New(
	idna.MapForLookup(),
	idna.BidiRule(),
	idna.Transitional(false),
)

// canonicalizeHost normalises a decoded host string per §4.A:
//   - bracketed IPv6 literal -> compressed per RFC 5952, brackets added back
//     in string form only
//   - dotted-quad IPv4 literal -> returned as-is
//   - otherwise -> IDNA to-ASCII with case-folding, rejecting non-LDH results
func canonicalizeHost(host string) (string, error) {
	if host == "" {
		return "", ErrMissingHost
	}

	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		addr, err := netip.ParseAddr(host[1 : len(host)-1])
		if err != nil || !addr.Is6() {
			return "", fmt.Errorf("%w: %q", ErrInvalidHost, host)
		}
		return "[" + addr.String() + "]", nil
	}

	if addr, err := netip.ParseAddr(host); err == nil && addr.Is4() && isDottedQuad(host) {
		return addr.String(), nil
	}

	ascii, err := idnaProfile.ToASCII(host)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidHost, host, err)
	}
	ascii = strings.ToLower(ascii)
	if !isAllLDH(ascii) {
		return "", fmt.Errorf("%w: %q: contains non-LDH bytes after IDNA", ErrInvalidHost, host)
	}
	return ascii, nil
}

// isDottedQuad requires exactly four decimal octets with no leading zeros
// beyond a lone "0", matching §4.A's IPv4-literal detection rule (it exists
// so bare IPv4-in-octal/hex forms net/netip would otherwise normalise are
// rejected as hostnames instead, same as the teacher's hostname handling).
func isDottedQuad(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if p == "" || len(p) > 3 {
			return false
		}
		if len(p) > 1 && p[0] == '0' {
			return false
		}
		for i := 0; i < len(p); i++ {
			if p[i] < '0' || p[i] > '9' {
				return false
			}
		}
	}
	return true
}

// isAllLDH reports whether s contains only letters, digits, hyphen and dot
// (the LDH rule for DNS labels), case-insensitively.
func isAllLDH(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '.':
		default:
			return false
		}
	}
	return true
}

// looksLikeIPLiteral reports whether host, with or without brackets, parses
// as an IPv4 or IPv6 address.
func looksLikeIPLiteral(host string) bool {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	_, err := netip.ParseAddr(trimmed)
	return err == nil
}
