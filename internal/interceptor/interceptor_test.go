package interceptor

import (
	"testing"

	"github.com/nexthop-io/transport/internal/message"
	"github.com/nexthop-io/transport/internal/urlmodel"
)

func testRequest(t *testing.T) *message.Request {
	t.Helper()
	u, err := urlmodel.Get("http://example.com/")
	if err != nil {
		t.Fatalf("urlmodel.Get: %v", err)
	}
	return &message.Request{Method: "GET", URL: u}
}

// TestChain_InterceptorCanProceedMultipleTimes exercises §9's "may be
// called multiple times" requirement: a retrying interceptor calls
// chain.Proceed twice and gets back two independent terminal invocations.
func TestChain_InterceptorCanProceedMultipleTimes(t *testing.T) {
	var terminalCalls int
	terminal := func(req *message.Request) (*message.Response, error) {
		terminalCalls++
		return &message.Response{Request: req, Code: 200 + terminalCalls}, nil
	}

	retrying := InterceptorFunc(func(chain *Chain) (*message.Response, error) {
		first, err := chain.Proceed(chain.Request())
		if err != nil {
			return nil, err
		}
		if first.Code != 201 {
			t.Fatalf("first proceed code = %d, want 201", first.Code)
		}
		return chain.Proceed(chain.Request())
	})

	resp, err := Execute([]Interceptor{retrying}, testRequest(t), terminal)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if terminalCalls != 2 {
		t.Fatalf("terminalCalls = %d, want 2", terminalCalls)
	}
	if resp.Code != 202 {
		t.Fatalf("final code = %d, want 202", resp.Code)
	}
}

// TestChain_RewritesRequestForward verifies a downstream interceptor sees
// the request object an upstream interceptor passed to Proceed, not the
// chain's original.
func TestChain_RewritesRequestForward(t *testing.T) {
	rewriter := InterceptorFunc(func(chain *Chain) (*message.Response, error) {
		rewritten := &message.Request{Method: "POST", URL: chain.Request().URL}
		return chain.Proceed(rewritten)
	})

	var seenMethod string
	terminal := func(req *message.Request) (*message.Response, error) {
		seenMethod = req.Method
		return &message.Response{Request: req, Code: 200}, nil
	}

	if _, err := Execute([]Interceptor{rewriter}, testRequest(t), terminal); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if seenMethod != "POST" {
		t.Fatalf("seenMethod = %q, want POST", seenMethod)
	}
}

// TestChain_MultipleInterceptorsRunInOrder verifies ordering across three
// links before reaching the terminal exchange.
func TestChain_MultipleInterceptorsRunInOrder(t *testing.T) {
	var order []string
	mk := func(name string) Interceptor {
		return InterceptorFunc(func(chain *Chain) (*message.Response, error) {
			order = append(order, name)
			return chain.Proceed(chain.Request())
		})
	}
	terminal := func(req *message.Request) (*message.Response, error) {
		order = append(order, "terminal")
		return &message.Response{Request: req, Code: 200}, nil
	}

	if _, err := Execute([]Interceptor{mk("a"), mk("b"), mk("c")}, testRequest(t), terminal); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := []string{"a", "b", "c", "terminal"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}
