// Package headers provides an ordered, case-insensitive multimap for HTTP
// header fields, mirroring the construction and lookup rules OkHttp's
// Headers type exposes to callers.
package headers

import "errors"

var (
	// ErrEmptyName is returned when a header name is zero-length.
	ErrEmptyName = errors.New("headers: name is empty")
	// ErrInvalidName is returned when a header name contains bytes outside
	// the US-ASCII printable range (0x21-0x7E) or a colon.
	ErrInvalidName = errors.New("headers: name contains illegal characters")
	// ErrInvalidValue is returned when a header value contains NUL, CR or LF.
	ErrInvalidValue = errors.New("headers: value contains illegal characters")
	// ErrMalformedLine is returned when add("name: value") has no colon.
	ErrMalformedLine = errors.New("headers: line is missing a colon")
)
