// Package policy implements §4.I: the redirect, retry, and
// authentication-challenge rules layered on top of a single exchange.
package policy

import "errors"

var (
	ErrTooManyRedirects  = errors.New("policy: too many redirects")
	ErrRedirectNoTarget  = errors.New("policy: redirect response has no Location header")
	ErrRedirectBadTarget = errors.New("policy: redirect Location could not be resolved")
	ErrSSLDowngrade      = errors.New("policy: redirect from https to http blocked")
)
