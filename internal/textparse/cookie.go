package textparse

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/nexthop-io/transport/internal/urlmodel"
)

var (
	// ErrInvalidCookie is returned when a cookie name or value fails the
	// control-character checks in §3/§4.C.
	ErrInvalidCookie = errors.New("textparse: invalid cookie")
)

// Cookie is the parsed value object described in §3.
type Cookie struct {
	Name       string
	Value      string
	ExpiresAt  int64 // ms since epoch, clamped to [0, MaxDate]; -1 for a session cookie
	Domain     string
	Path       string
	Secure     bool
	HttpOnly   bool
	HostOnly   bool
	Persistent bool
}

// ParseSetCookie parses one Set-Cookie header value against the request URL
// (used for default domain/path and host-only determination).
func ParseSetCookie(header string, urlHost, urlPath string) (Cookie, error) {
	parts := splitCookieAttributes(header)
	if len(parts) == 0 {
		return Cookie{}, ErrInvalidCookie
	}

	name, value, ok := splitNameValue(parts[0])
	if !ok {
		return Cookie{}, ErrInvalidCookie
	}
	if err := validateCookieToken(name); err != nil {
		return Cookie{}, err
	}
	if err := validateCookieValue(value); err != nil {
		return Cookie{}, err
	}

	c := Cookie{Name: name, Value: value, ExpiresAt: -1}

	var maxAgeSeen, expiresSeen bool
	var maxAgeSeconds int64
	var expiresMs int64

	for _, attr := range parts[1:] {
		key, val, _ := splitNameValue(attr)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "expires":
			expiresMs = ParseHTTPDate(val)
			expiresSeen = true
		case "max-age":
			if n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64); err == nil {
				maxAgeSeconds = n
				maxAgeSeen = true
			}
		case "domain":
			d := strings.TrimSpace(val)
			d = strings.TrimPrefix(d, ".")
			if strings.HasSuffix(d, ".") {
				// Trailing dot on the domain attribute: ignore the attribute.
				continue
			}
			c.Domain = strings.ToLower(d)
		case "path":
			c.Path = val
		case "secure":
			c.Secure = true
		case "httponly":
			c.HttpOnly = true
		}
	}

	switch {
	case maxAgeSeen:
		if maxAgeSeconds <= 0 {
			c.ExpiresAt = 0
		} else {
			now := time.Now().UnixMilli()
			if maxAgeSeconds > (MaxDate-now)/1000 {
				c.ExpiresAt = MaxDate
			} else {
				c.ExpiresAt = now + maxAgeSeconds*1000
			}
		}
		c.Persistent = true
	case expiresSeen:
		c.ExpiresAt = expiresMs
		c.Persistent = true
	default:
		c.ExpiresAt = -1 // session cookie: caller treats negative as "no expiry set"
		c.Persistent = false
	}

	if c.Domain == "" {
		c.Domain = strings.ToLower(urlHost)
		c.HostOnly = true
	} else if err := validateCookieDomain(c.Domain, urlHost); err != nil {
		return Cookie{}, err
	}

	if c.Path == "" {
		c.Path = defaultPath(urlPath)
	}

	return c, nil
}

// defaultPath is "the path up to (but not including) the rightmost '/' in
// the request URI, else '/'".
func defaultPath(urlPath string) string {
	idx := strings.LastIndexByte(urlPath, '/')
	if idx <= 0 {
		return "/"
	}
	return urlPath[:idx]
}

// validateCookieDomain enforces §3's rule: domain must equal the request
// host, or be a suffix of it that is not itself a public suffix (reusing
// urlmodel.TopPrivateDomain, the same publicsuffix-backed lookup the URL
// model uses for topPrivateDomain). Without the public-suffix check, a
// response for foo.co.uk could set Domain=.co.uk and read back on every
// other co.uk site.
func validateCookieDomain(domain, urlHost string) error {
	urlHost = strings.ToLower(urlHost)
	if domain == urlHost {
		return nil
	}
	if !strings.HasSuffix(urlHost, "."+domain) {
		return ErrInvalidCookie
	}
	if urlmodel.TopPrivateDomain(domain) == "" {
		return ErrInvalidCookie
	}
	return nil
}

func splitNameValue(s string) (name, value string, ok bool) {
	s = strings.TrimSpace(s)
	idx := strings.IndexByte(s, '=')
	if idx < 0 {
		return strings.TrimSpace(s), "", true
	}
	return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+1:]), true
}

// splitCookieAttributes splits a Set-Cookie value on ';', tolerating
// whitespace around each piece.
func splitCookieAttributes(header string) []string {
	raw := strings.Split(header, ";")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		out = append(out, p)
	}
	return out
}

func validateCookieToken(name string) error {
	if name == "" {
		return ErrInvalidCookie
	}
	for i := 0; i < len(name); i++ {
		if c := name[i]; c < 0x20 || c == 0x7F {
			return ErrInvalidCookie
		}
	}
	return nil
}

// validateCookieValue rejects control characters (< 0x20 or == 0x7F) and,
// per the name/value strictness rule, ';'.
func validateCookieValue(value string) error {
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c < 0x20 || c == 0x7F || c == ';' {
			return ErrInvalidCookie
		}
	}
	return nil
}
