package urlmodel

import "strings"

// canonicalizePath walks raw (already percent-normalised) path segments and
// resolves "." / ".." against a segment stack. Backslashes count as path
// separators. A trailing empty segment is retained iff the input itself ends
// in a separator.
func canonicalizePath(raw string) string {
	if raw == "" {
		return "/"
	}

	normalized := strings.Map(func(r rune) rune {
		if r == '\\' {
			return '/'
		}
		return r
	}, raw)

	trailingSlash := strings.HasSuffix(normalized, "/")
	rawSegments := strings.Split(strings.TrimPrefix(normalized, "/"), "/")

	var stack []string
	for _, seg := range rawSegments {
		switch dotKind(seg) {
		case dotSelf:
			// no-op: "." pops nothing
		case dotParent:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, seg)
		}
	}

	var b strings.Builder
	for _, seg := range stack {
		b.WriteByte('/')
		b.WriteString(seg)
	}
	if b.Len() == 0 {
		return "/"
	}
	if trailingSlash && !strings.HasSuffix(b.String(), "/") {
		b.WriteByte('/')
	}
	return b.String()
}

type dotSegmentKind int

const (
	dotNone dotSegmentKind = iota
	dotSelf
	dotParent
)

// dotKind recognises "." / "%2e" and ".." / "%2e%2e" case-insensitively, the
// only forms the dot-segment resolver treats specially.
func dotKind(seg string) dotSegmentKind {
	lower := strings.ToLower(seg)
	switch lower {
	case ".", "%2e":
		return dotSelf
	case "..", "%2e%2e", "%2e.", ".%2e":
		return dotParent
	default:
		return dotNone
	}
}
