// Package interceptor implements the polymorphic interceptor chain §9's
// design notes call for: an application interceptor may call chain.Proceed
// more than once (to retry, or to issue a speculative second request), so
// Chain is modeled as an index into a fixed interceptor vector plus the
// request/response currently in flight — not a coroutine or generator,
// which could only resume once.
package interceptor

import "github.com/nexthop-io/transport/internal/message"

// Interceptor observes and may rewrite a request on its way out, and the
// response on its way back, by delegating to the next link via Chain.
type Interceptor interface {
	Intercept(chain *Chain) (*message.Response, error)
}

// InterceptorFunc adapts a plain function to Interceptor.
type InterceptorFunc func(chain *Chain) (*message.Response, error)

func (f InterceptorFunc) Intercept(chain *Chain) (*message.Response, error) {
	return f(chain)
}

// Chain is an index into interceptors plus the request currently being
// proceeded with. Each Proceed call constructs a fresh Chain for the next
// index rather than mutating shared state, so an interceptor holding onto
// its own *Chain after calling Proceed still sees the request it was
// called with — calling Proceed again replays the remaining links against
// a (possibly different) request, which is exactly what a retrying
// interceptor needs.
type Chain struct {
	interceptors []Interceptor
	index        int
	request      *message.Request

	// terminal runs once index reaches len(interceptors): it performs the
	// actual network exchange. Kept as a field rather than the last
	// element of interceptors so call sites can't accidentally omit it.
	terminal func(*message.Request) (*message.Response, error)
}

// NewChain builds the initial chain: index 0, the given request, the
// ordered interceptor vector, and the terminal network-calling function.
func NewChain(interceptors []Interceptor, request *message.Request, terminal func(*message.Request) (*message.Response, error)) *Chain {
	return &Chain{interceptors: interceptors, index: 0, request: request, terminal: terminal}
}

// Request returns the request this chain link was invoked with.
func (c *Chain) Request() *message.Request { return c.request }

// Proceed invokes the next interceptor (or the terminal exchange once all
// interceptors have run) with request, which need not be the same request
// object c.Request() returned — a rewriting interceptor passes its
// modified copy forward.
func (c *Chain) Proceed(request *message.Request) (*message.Response, error) {
	if c.index >= len(c.interceptors) {
		return c.terminal(request)
	}
	next := &Chain{
		interceptors: c.interceptors,
		index:        c.index + 1,
		request:      request,
		terminal:     c.terminal,
	}
	return c.interceptors[c.index].Intercept(next)
}

// Execute runs the full chain starting from index 0 against request.
func Execute(interceptors []Interceptor, request *message.Request, terminal func(*message.Request) (*message.Response, error)) (*message.Response, error) {
	chain := NewChain(interceptors, request, terminal)
	return chain.Proceed(request)
}
