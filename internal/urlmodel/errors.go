// Package urlmodel implements a canonicalising parser and immutable value
// type for http/https URLs: component-level percent-encoding, IPv4/IPv6 host
// normalisation, public-suffix awareness, and a mutable Builder that
// preserves the caller's original encoding wherever the grammar allows it.
package urlmodel

import "errors"

var (
	// ErrUnsupportedScheme is returned when the scheme is not http or https.
	ErrUnsupportedScheme = errors.New("urlmodel: expected URL scheme 'http' or 'https'")
	// ErrMissingHost is returned when an authority is present but has no host.
	ErrMissingHost = errors.New("urlmodel: missing host")
	// ErrInvalidPort is returned when a port is present but out of [1, 65535].
	ErrInvalidPort = errors.New("urlmodel: invalid port")
	// ErrInvalidHost is returned when the host fails IDNA/IPv4/IPv6 normalisation.
	ErrInvalidHost = errors.New("urlmodel: invalid host")
	// ErrMalformed is a catch-all for grammar violations Parse reports as nil
	// and Get reports with the offending substring attached.
	ErrMalformed = errors.New("urlmodel: malformed URL")
)

// ParseError carries the offending substring for Get-style callers that want
// a human-readable diagnostic instead of a bare nil from Parse.
type ParseError struct {
	Err     error
	Input   string
	Offense string
}

func (e *ParseError) Error() string {
	if e.Offense == "" {
		return e.Err.Error() + ": " + e.Input
	}
	return e.Err.Error() + ": " + e.Offense + " (in " + e.Input + ")"
}

func (e *ParseError) Unwrap() error { return e.Err }
