// Package tlsspec implements the ordered TLS connection specification
// (§4.E) and the certificate chain cleaner (§4.D) that together decide what
// the connection engine is willing to negotiate and whether a server's
// presented chain can be trusted.
package tlsspec

import "errors"

// ErrPeerNotVerified is the single error the chain cleaner ever returns;
// per §4.D internal reasons are never leaked to the caller.
var ErrPeerNotVerified = errors.New("tlsspec: peer not verified")
