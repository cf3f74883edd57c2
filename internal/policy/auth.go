package policy

import (
	"github.com/nexthop-io/transport/internal/headers"
	"github.com/nexthop-io/transport/internal/textparse"
	"github.com/nexthop-io/transport/internal/urlmodel"
)

// AuthChallenge is the context an Authenticator needs to respond to a 401
// or 407.
type AuthChallenge struct {
	StatusCode int
	URL        *urlmodel.HttpUrl
	Challenges []textparse.Challenge
	Headers    *headers.Headers
}

// Authenticator answers an auth challenge by returning headers to add to
// the retried request, or (nil, nil) to terminate the auth chain (§4.I:
// "a null response from the authenticator terminates the chain").
type Authenticator interface {
	Authenticate(AuthChallenge) (*headers.Builder, error)
}

// AuthenticatorFunc adapts a plain function to Authenticator.
type AuthenticatorFunc func(AuthChallenge) (*headers.Builder, error)

func (f AuthenticatorFunc) Authenticate(c AuthChallenge) (*headers.Builder, error) { return f(c) }

// NoAuth always terminates the chain immediately.
var NoAuth Authenticator = AuthenticatorFunc(func(AuthChallenge) (*headers.Builder, error) { return nil, nil })

// RequiresAuth reports whether status is one §4.I routes to the
// authenticator.
func RequiresAuth(status int) bool {
	return status == 401 || status == 407
}

// ChallengeHeaderName picks WWW-Authenticate for 401 and Proxy-Authenticate
// for 407, the header the challenge parser reads.
func ChallengeHeaderName(status int) string {
	if status == 407 {
		return "Proxy-Authenticate"
	}
	return "WWW-Authenticate"
}
