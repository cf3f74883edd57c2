package policy

// RetryPolicy governs automatic retry of a failed exchange.
type RetryPolicy struct {
	RetryOnConnectionFailure bool
}

// ShouldRetry reports whether a connection failure should be retried,
// per §4.I: only when enabled and the request body is absent or
// idempotent (restartable without re-prompting the caller).
func (p RetryPolicy) ShouldRetry(bodyIsIdempotent bool) bool {
	return p.RetryOnConnectionFailure && bodyIsIdempotent
}
