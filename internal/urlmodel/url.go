package urlmodel

import (
	"fmt"
	"strconv"
	"strings"
)

// HttpUrl is an immutable, canonicalised http/https URL. Every component is
// stored both encoded (for serialisation, preserving the caller's original
// escaping where the grammar allows) and decoded (for equality/access).
type HttpUrl struct {
	scheme string

	username        string
	encodedUsername string
	password        string
	encodedPassword string

	host string
	port int // always explicit; IsDefaultPort reports whether it is the scheme default

	pathSegments []string // decoded
	encodedPath  string   // always begins with "/"

	query        []QueryPair
	hasQuery     bool
	encodedQuery string

	fragment        string
	encodedFragment string
	hasFragment     bool
}

// asciiWhitespace are the bytes §4.A strips from both ends before scheme
// detection: HT, LF, FF, CR, SP.
const asciiWhitespace = "\t\n\x0c\r "

func defaultPortFor(scheme string) int {
	switch scheme {
	case "https":
		return 443
	case "http":
		return 80
	default:
		return -1
	}
}

// Parse returns nil on any grammar violation, matching OkHttp's tolerant
// HttpUrl.parse contract. Use Get for a descriptive error.
func Parse(input string) *HttpUrl {
	u, err := Get(input)
	if err != nil {
		return nil
	}
	return u
}

// Get parses input, returning a ParseError carrying the offending substring
// on failure.
func Get(input string) (*HttpUrl, error) {
	s := strings.Trim(input, asciiWhitespace)

	schemeEnd := strings.IndexByte(s, ':')
	if schemeEnd < 0 {
		return nil, &ParseError{Err: ErrUnsupportedScheme, Input: input}
	}
	scheme := strings.ToLower(s[:schemeEnd])
	if scheme != "http" && scheme != "https" {
		return nil, &ParseError{Err: ErrUnsupportedScheme, Input: input, Offense: scheme}
	}
	rest := s[schemeEnd+1:]

	// Authority slash count is tolerant: any mix of '/' and '\' begins it.
	slashes := 0
	for slashes < len(rest) && (rest[slashes] == '/' || rest[slashes] == '\\') {
		slashes++
	}
	if slashes == 0 {
		return nil, &ParseError{Err: ErrMalformed, Input: input, Offense: "missing authority"}
	}
	rest = rest[slashes:]

	authorityEnd := strings.IndexAny(rest, "/\\?#")
	var authority string
	if authorityEnd < 0 {
		authority = rest
		rest = ""
	} else {
		authority = rest[:authorityEnd]
		rest = rest[authorityEnd:]
	}

	u := &HttpUrl{scheme: scheme}
	if err := u.parseAuthority(authority, input); err != nil {
		return nil, err
	}

	pathAndBeyond := rest
	var rawPath, rawQuery, rawFragment string
	hasQuery, hasFragment := false, false

	if idx := strings.IndexByte(pathAndBeyond, '#'); idx >= 0 {
		rawFragment = pathAndBeyond[idx+1:]
		hasFragment = true
		pathAndBeyond = pathAndBeyond[:idx]
	}
	if idx := strings.IndexByte(pathAndBeyond, '?'); idx >= 0 {
		rawQuery = pathAndBeyond[idx+1:]
		hasQuery = true
		pathAndBeyond = pathAndBeyond[:idx]
	}
	rawPath = pathAndBeyond

	canonical := canonicalizePath(rawPath)
	u.encodedPath = percentEncode(canonical, pathEncodeSet, true)
	u.pathSegments = splitPathSegments(canonical)
	for i, seg := range u.pathSegments {
		u.pathSegments[i] = percentDecode(seg, false)
	}

	if hasQuery {
		u.hasQuery = true
		u.query = parseQuery(rawQuery)
		u.encodedQuery = encodeQuery(u.query)
	}
	if hasFragment {
		u.hasFragment = true
		u.fragment = percentDecode(rawFragment, false)
		u.encodedFragment = percentEncode(rawFragment, fragmentEncodeSet, true)
	}

	return u, nil
}

func splitPathSegments(canonical string) []string {
	trimmed := strings.TrimPrefix(canonical, "/")
	if trimmed == "" {
		return []string{""}
	}
	return strings.Split(trimmed, "/")
}

func (u *HttpUrl) parseAuthority(authority string, original string) error {
	userinfo := ""
	hostport := authority
	if at := strings.LastIndexByte(authority, '@'); at >= 0 {
		userinfo = authority[:at]
		hostport = authority[at+1:]
	}

	if userinfo != "" {
		username, password := userinfo, ""
		if colon := strings.IndexByte(userinfo, ':'); colon >= 0 {
			username = userinfo[:colon]
			password = userinfo[colon+1:]
		}
		u.username = percentDecode(username, false)
		u.encodedUsername = percentEncode(username, userinfoEncodeSet, true)
		u.password = percentDecode(password, false)
		u.encodedPassword = percentEncode(password, userinfoEncodeSet, true)
	}

	host := hostport
	port := ""
	if strings.HasPrefix(hostport, "[") {
		end := strings.IndexByte(hostport, ']')
		if end < 0 {
			return &ParseError{Err: ErrInvalidHost, Input: original, Offense: hostport}
		}
		host = hostport[:end+1]
		remainder := hostport[end+1:]
		if strings.HasPrefix(remainder, ":") {
			port = remainder[1:]
		}
	} else if colon := strings.LastIndexByte(hostport, ':'); colon >= 0 {
		host = hostport[:colon]
		port = hostport[colon+1:]
	}

	if host == "" {
		return &ParseError{Err: ErrMissingHost, Input: original}
	}

	decodedHost := percentDecode(host, false)
	canonicalHost, err := canonicalizeHost(decodedHost)
	if err != nil {
		return &ParseError{Err: ErrInvalidHost, Input: original, Offense: host}
	}
	u.host = canonicalHost

	if port == "" {
		u.port = defaultPortFor(u.scheme)
	} else {
		p, err := strconv.Atoi(port)
		if err != nil || p < 1 || p > 65535 {
			return &ParseError{Err: ErrInvalidPort, Input: original, Offense: port}
		}
		u.port = p
	}
	return nil
}

// Scheme returns "http" or "https".
func (u *HttpUrl) Scheme() string { return u.scheme }

// IsHttps reports whether the scheme is https.
func (u *HttpUrl) IsHttps() bool { return u.scheme == "https" }

// Username returns the decoded userinfo username, "" if absent.
func (u *HttpUrl) Username() string { return u.username }

// Password returns the decoded userinfo password, "" if absent.
func (u *HttpUrl) Password() string { return u.password }

// Host returns the canonical host: compressed bracketed IPv6, dotted-quad
// IPv4, or lower-cased IDNA A-label form.
func (u *HttpUrl) Host() string { return u.host }

// Port returns the explicit or scheme-default port.
func (u *HttpUrl) Port() int { return u.port }

// IsDefaultPort reports whether Port() equals the scheme's implicit default.
func (u *HttpUrl) IsDefaultPort() bool { return u.port == defaultPortFor(u.scheme) }

// EncodedPath returns the canonicalised, always-leading-slash path.
func (u *HttpUrl) EncodedPath() string { return u.encodedPath }

// PathSegments returns the decoded path segments (without leading/trailing slash markers).
func (u *HttpUrl) PathSegments() []string { return append([]string(nil), u.pathSegments...) }

// HasQuery reports whether a '?' was present, even with an empty query string.
func (u *HttpUrl) HasQuery() bool { return u.hasQuery }

// Query returns the ordered query pairs.
func (u *HttpUrl) Query() []QueryPair { return append([]QueryPair(nil), u.query...) }

// EncodedQuery returns the raw (encoded) query string, without the leading '?'.
func (u *HttpUrl) EncodedQuery() string { return u.encodedQuery }

// HasFragment reports whether a '#' was present.
func (u *HttpUrl) HasFragment() bool { return u.hasFragment }

// Fragment returns the decoded fragment.
func (u *HttpUrl) Fragment() string { return u.fragment }

// String serialises the URL, preferring the stored encoded forms so that,
// e.g., "%6d" round-trips as "%6d" rather than being decoded to "m".
func (u *HttpUrl) String() string {
	var b strings.Builder
	b.WriteString(u.scheme)
	b.WriteString("://")
	if u.encodedUsername != "" || u.encodedPassword != "" {
		b.WriteString(u.encodedUsername)
		if u.encodedPassword != "" {
			b.WriteByte(':')
			b.WriteString(u.encodedPassword)
		}
		b.WriteByte('@')
	}
	b.WriteString(hostForURL(u.host))
	if !u.IsDefaultPort() {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(u.port))
	}
	b.WriteString(u.encodedPath)
	if u.hasQuery {
		b.WriteByte('?')
		b.WriteString(u.encodedQuery)
	}
	if u.hasFragment {
		b.WriteByte('#')
		b.WriteString(u.encodedFragment)
	}
	return b.String()
}

func hostForURL(host string) string {
	return host
}

// PeerAddress is the "host:port" the connection engine groups pooled
// transports by (port always explicit, regardless of default-ness).
func (u *HttpUrl) PeerAddress() string {
	if strings.Contains(u.host, ":") && !strings.HasPrefix(u.host, "[") {
		return fmt.Sprintf("[%s]:%d", u.host, u.port)
	}
	return fmt.Sprintf("%s:%d", u.host, u.port)
}

// Equal compares two URLs by their serialised forms. Components keep the
// caller's percent-escaping, so two URLs whose components decode alike but
// are escaped differently ("%41" vs "A") are not equal.
func (u *HttpUrl) Equal(other *HttpUrl) bool {
	if other == nil {
		return false
	}
	return u.String() == other.String()
}
