package urlmodel

import "strings"

// Resolve implements RFC 3986 §5.2 reference resolution: ref may be
// absolute, scheme-relative, authority-relative, or path-relative to base.
// Returns nil for a ref whose scheme (if any) isn't http/https.
func Resolve(base *HttpUrl, ref string) *HttpUrl {
	trimmed := strings.Trim(ref, asciiWhitespace)

	if u, err := Get(trimmed); err == nil {
		return u
	}
	if i := strings.IndexAny(trimmed, ":/?#"); i > 0 && trimmed[i] == ':' {
		if s := strings.ToLower(trimmed[:i]); s != "http" && s != "https" {
			return nil
		}
	}

	// Scheme-relative ("//host/path") reuses base's scheme.
	if strings.HasPrefix(trimmed, "//") {
		if u, err := Get(base.scheme + ":" + trimmed); err == nil {
			return u
		}
		return nil
	}

	b := NewBuilderFrom(base)

	switch {
	case trimmed == "":
		return b.Build()
	case strings.HasPrefix(trimmed, "?"):
		return resolveQueryOnly(b, trimmed[1:])
	case strings.HasPrefix(trimmed, "#"):
		return b.Fragment(percentDecode(trimmed[1:], false)).Build()
	case strings.HasPrefix(trimmed, "/"), strings.HasPrefix(trimmed, "\\"):
		return resolveAbsolutePath(b, trimmed)
	default:
		return resolveRelativePath(b, base, trimmed)
	}
}

func resolveQueryOnly(b *Builder, rawQuery string) *HttpUrl {
	queryPart, fragment, hasFragment := splitFragment(rawQuery)
	b.u.hasQuery = true
	b.u.query = parseQuery(queryPart)
	b.u.encodedQuery = encodeQuery(b.u.query)
	if hasFragment {
		return b.Fragment(percentDecode(fragment, false)).Build()
	}
	b.u.hasFragment = false
	return b.Build()
}

func resolveAbsolutePath(b *Builder, rest string) *HttpUrl {
	pathPart, queryPart, hasQuery, fragment, hasFragment := splitPathQueryFragment(rest)
	b.EncodedPath(pathPart)
	applyQueryAndFragment(b, queryPart, hasQuery, fragment, hasFragment)
	return b.Build()
}

func resolveRelativePath(b *Builder, base *HttpUrl, rest string) *HttpUrl {
	pathPart, queryPart, hasQuery, fragment, hasFragment := splitPathQueryFragment(rest)

	baseSegments := base.pathSegments
	merged := append([]string(nil), baseSegments[:max(0, len(baseSegments)-1)]...)
	merged = append(merged, splitPathSegments(canonicalizePath(percentDecode(pathPart, false)))...)

	b.u.pathSegments = nil
	b.EncodedPath("/" + joinSlash(merged))
	applyQueryAndFragment(b, queryPart, hasQuery, fragment, hasFragment)
	return b.Build()
}

func applyQueryAndFragment(b *Builder, queryPart string, hasQuery bool, fragment string, hasFragment bool) {
	if hasQuery {
		b.u.hasQuery = true
		b.u.query = parseQuery(queryPart)
		b.u.encodedQuery = encodeQuery(b.u.query)
	} else {
		b.u.hasQuery = false
		b.u.query = nil
	}
	if hasFragment {
		b.Fragment(percentDecode(fragment, false))
	} else {
		b.u.hasFragment = false
	}
}

func splitFragment(s string) (before, fragment string, has bool) {
	if idx := strings.IndexByte(s, '#'); idx >= 0 {
		return s[:idx], s[idx+1:], true
	}
	return s, "", false
}

func splitPathQueryFragment(s string) (path, query string, hasQuery bool, fragment string, hasFragment bool) {
	rest := s
	if idx := strings.IndexByte(rest, '#'); idx >= 0 {
		fragment = rest[idx+1:]
		hasFragment = true
		rest = rest[:idx]
	}
	if idx := strings.IndexByte(rest, '?'); idx >= 0 {
		query = rest[idx+1:]
		hasQuery = true
		rest = rest[:idx]
	}
	path = rest
	return
}
