package urlmodel

// Builder mutates a working copy of URL components and produces a new,
// immutable HttpUrl via Build. The zero value is not usable; start from
// NewBuilder or an existing URL's NewBuilder method.
type Builder struct {
	u HttpUrl
}

// NewBuilder starts a builder for an https URL with host "localhost", the
// same defaults OkHttp's HttpUrl.Builder zero value uses.
func NewBuilder() *Builder {
	return &Builder{u: HttpUrl{scheme: "https", host: "localhost", port: 443, encodedPath: "/", pathSegments: []string{""}}}
}

// NewBuilderFrom seeds a Builder with an existing URL's components so that
// `url.NewBuilderFrom().Build() == url`.
func NewBuilderFrom(u *HttpUrl) *Builder {
	cp := *u
	cp.pathSegments = append([]string(nil), u.pathSegments...)
	cp.query = append([]QueryPair(nil), u.query...)
	return &Builder{u: cp}
}

func (b *Builder) Scheme(scheme string) *Builder {
	b.u.scheme = scheme
	if b.u.IsDefaultPort() || b.u.port == defaultPortFor(scheme) {
		b.u.port = defaultPortFor(scheme)
	}
	return b
}

func (b *Builder) Username(username string) *Builder {
	b.u.username = username
	b.u.encodedUsername = percentEncode(username, userinfoEncodeSet, false)
	return b
}

func (b *Builder) Password(password string) *Builder {
	b.u.password = password
	b.u.encodedPassword = percentEncode(password, userinfoEncodeSet, false)
	return b
}

func (b *Builder) Host(host string) (*Builder, error) {
	canonical, err := canonicalizeHost(host)
	if err != nil {
		return nil, err
	}
	b.u.host = canonical
	return b, nil
}

func (b *Builder) Port(port int) (*Builder, error) {
	if port < 1 || port > 65535 {
		return nil, ErrInvalidPort
	}
	b.u.port = port
	return b, nil
}

// EncodedPath replaces the path wholesale; the value is re-canonicalised
// through the same dot-segment resolver Parse uses.
func (b *Builder) EncodedPath(encodedPath string) *Builder {
	decoded := percentDecode(encodedPath, false)
	canonical := canonicalizePath(decoded)
	b.u.encodedPath = percentEncode(canonical, pathEncodeSet, true)
	b.u.pathSegments = splitPathSegments(canonical)
	return b
}

// AddPathSegment appends one decoded segment, percent-encoding it fresh.
func (b *Builder) AddPathSegment(segment string) *Builder {
	if b.u.pathSegments == nil || (len(b.u.pathSegments) == 1 && b.u.pathSegments[0] == "") {
		b.u.pathSegments = nil
	}
	b.u.pathSegments = append(b.u.pathSegments, segment)
	b.rebuildEncodedPath()
	return b
}

func (b *Builder) rebuildEncodedPath() {
	if len(b.u.pathSegments) == 0 {
		b.u.encodedPath = "/"
		return
	}
	var parts []string
	for _, seg := range b.u.pathSegments {
		parts = append(parts, percentEncode(seg, pathEncodeSet, false))
	}
	b.u.encodedPath = "/" + joinSlash(parts)
}

func joinSlash(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "/"
		}
		out += p
	}
	return out
}

func (b *Builder) AddQueryParameter(name, value string) *Builder {
	b.u.hasQuery = true
	b.u.query = append(b.u.query, QueryPair{
		Name: name, EncodedName: percentEncode(name, queryComponentEncodeSet, false),
		Value: value, EncodedValue: percentEncode(value, queryComponentEncodeSet, false),
		HasValue: true,
	})
	b.u.encodedQuery = encodeQuery(b.u.query)
	return b
}

func (b *Builder) SetQueryParameter(name, value string) *Builder {
	filtered := b.u.query[:0:0]
	for _, p := range b.u.query {
		if p.Name != name {
			filtered = append(filtered, p)
		}
	}
	b.u.query = filtered
	return b.AddQueryParameter(name, value)
}

func (b *Builder) RemoveAllQueryParameters(name string) *Builder {
	filtered := b.u.query[:0:0]
	for _, p := range b.u.query {
		if p.Name != name {
			filtered = append(filtered, p)
		}
	}
	b.u.query = filtered
	b.u.hasQuery = len(filtered) > 0
	b.u.encodedQuery = encodeQuery(b.u.query)
	return b
}

func (b *Builder) Fragment(fragment string) *Builder {
	b.u.hasFragment = true
	b.u.fragment = fragment
	b.u.encodedFragment = percentEncode(fragment, fragmentEncodeSet, false)
	return b
}

// Build produces the immutable HttpUrl.
func (b *Builder) Build() *HttpUrl {
	cp := b.u
	cp.pathSegments = append([]string(nil), b.u.pathSegments...)
	cp.query = append([]QueryPair(nil), b.u.query...)
	return &cp
}
