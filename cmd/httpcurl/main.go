// Package main is a minimal command-line client exercising the transport
// engine end to end: config loading, route selection, TLS policy, the
// HTTP/1.1 codec, and the interceptor chain.
package main

import (
	"bufio"
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/nexthop-io/transport/internal/call"
	"github.com/nexthop-io/transport/internal/codec/http1"
	"github.com/nexthop-io/transport/internal/dnsproxy"
	"github.com/nexthop-io/transport/internal/events"
	"github.com/nexthop-io/transport/internal/headers"
	"github.com/nexthop-io/transport/internal/interceptor"
	"github.com/nexthop-io/transport/internal/message"
	"github.com/nexthop-io/transport/internal/pool"
	"github.com/nexthop-io/transport/internal/route"
	"github.com/nexthop-io/transport/internal/tlsspec"
	"github.com/nexthop-io/transport/internal/transportcfg"
	"github.com/nexthop-io/transport/internal/urlmodel"
)

func main() {
	configPath := flag.String("config", "", "Path to TOML config file (optional)")
	method := flag.String("method", "GET", "HTTP method")
	loggingLevel := flag.String("logging-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: httpcurl [flags] <url>")
		os.Exit(2)
	}

	var level slog.Level
	switch *loggingLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := transportcfg.Load(transportcfg.LoaderOptions{ConfigPath: *configPath, Logger: logger})
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	target, err := urlmodel.Get(flag.Arg(0))
	if err != nil {
		logger.Error("invalid url", "error", err)
		os.Exit(1)
	}

	req := &message.Request{
		Method:  *method,
		URL:     target,
		Headers: headers.NewBuilder().Build(),
		Tags:    &call.Tags{},
	}

	bus := events.NewBus(events.ListenerFunc(func(e events.Event) {
		logger.Debug("event", "kind", e.Kind.String(), "call_id", e.CallID)
	}))
	c := call.New(bus)
	c.Start()

	chain := []interceptor.Interceptor{
		interceptor.InterceptorFunc(func(chain *interceptor.Chain) (*message.Response, error) {
			logger.Info("request", "method", chain.Request().Method, "url", chain.Request().URL.String())
			resp, err := chain.Proceed(chain.Request())
			if err != nil {
				logger.Error("request failed", "error", err)
				return nil, err
			}
			logger.Info("response", "status", resp.Code)
			return resp, nil
		}),
	}

	resp, err := interceptor.Execute(chain, req, func(r *message.Request) (*message.Response, error) {
		return exchange(context.Background(), cfg, bus, c.ID, r, logger)
	})
	if err != nil {
		c.Fail(err)
		logger.Error("exchange failed", "error", err)
		os.Exit(1)
	}
	c.End()

	fmt.Printf("%s %d %s\n", resp.Protocol, resp.Code, resp.Message)
	for _, name := range resp.Headers.Names() {
		for _, v := range resp.Headers.Values(name) {
			fmt.Printf("%s: %s\n", name, v)
		}
	}
	fmt.Println()
	if resp.Body != nil {
		_ = resp.Body.WriteTo(os.Stdout)
	}
}

// exchange performs one HTTP/1.1 round trip: route selection, connect,
// optional TLS, request write, response read. It deliberately skips
// pooling reuse across invocations (a one-shot CLI has nothing to reuse)
// but still records the connection in pool.Pool so ConnectionAcquired/
// ConnectionReleased bracket the call the way §4.G requires.
func exchange(ctx context.Context, cfg *transportcfg.Config, bus *events.Bus, callID string, req *message.Request, logger *slog.Logger) (*message.Response, error) {
	addr := route.Address{
		Scheme: req.URL.Scheme(),
		Host:   req.URL.Host(),
		Port:   req.URL.Port(),
	}

	proxies, err := dnsproxy.StaticProxySelectorFromConfig(cfg.Proxy.HTTPProxy, cfg.Proxy.HTTPSProxy, cfg.Proxy.NoProxy)
	if err != nil {
		return nil, err
	}
	selector := dnsproxy.NewRouteSelector(dnsproxy.NewSystemDns(), proxies, dnsproxy.NewRouteDatabase())

	bus.Emit(events.Event{Kind: events.ProxySelectStart, At: time.Now(), CallID: callID})
	bus.Emit(events.Event{Kind: events.DNSStart, At: time.Now(), CallID: callID})
	routes, err := selector.Select(ctx, addr)
	bus.Emit(events.Event{Kind: events.DNSEnd, At: time.Now(), CallID: callID})
	bus.Emit(events.Event{Kind: events.ProxySelectEnd, At: time.Now(), CallID: callID})
	if err != nil {
		return nil, fmt.Errorf("httpcurl: route selection: %w", err)
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("httpcurl: no routes for %s", addr.Host)
	}
	chosen := routes[0]

	bus.Emit(events.Event{Kind: events.ConnectStart, At: time.Now(), CallID: callID})
	dialer := net.Dialer{Timeout: time.Duration(cfg.Timeouts.ConnectMS) * time.Millisecond}
	rawConn, err := dialer.DialContext(ctx, "tcp", chosen.SocketAddr.String())
	if err != nil {
		bus.Emit(events.Event{Kind: events.ConnectFailed, At: time.Now(), CallID: callID, Err: err})
		return nil, fmt.Errorf("httpcurl: dial: %w", err)
	}

	conn := rawConn
	protocol := pool.ProtocolHTTP1
	if addr.IsHTTPS() {
		bus.Emit(events.Event{Kind: events.SecureConnectStart, At: time.Now(), CallID: callID})
		spec, ok := tlsspec.ByName(firstOrDefault(cfg.TLS.ConnectionSpecs, "MODERN_TLS"))
		if !ok {
			spec = tlsspec.ModernTLS
		}
		tlsCfg := spec.TLSConfig(addr.Host)
		tlsConn := tls.Client(rawConn, tlsCfg)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			bus.Emit(events.Event{Kind: events.ConnectFailed, At: time.Now(), CallID: callID, Err: err})
			return nil, fmt.Errorf("httpcurl: tls handshake: %w", err)
		}
		bus.Emit(events.Event{Kind: events.SecureConnectEnd, At: time.Now(), CallID: callID})
		conn = tlsConn
	}
	bus.Emit(events.Event{Kind: events.ConnectEnd, At: time.Now(), CallID: callID})

	p := pool.New(cfg.Pool.MaxIdleConnections, cfg.Pool.KeepAlive, logger)
	pc := pool.NewConnection(chosen, protocol, conn, 1)
	p.Put(pc)
	bus.Emit(events.Event{Kind: events.ConnectionAcquired, At: time.Now(), CallID: callID})
	defer func() {
		p.Remove(pc)
		bus.Emit(events.Event{Kind: events.ConnectionReleased, At: time.Now(), CallID: callID})
	}()

	b := headers.NewBuilderFrom(req.Headers)
	if _, ok := req.Headers.Get("Host"); !ok {
		_, _ = b.Set("Host", addr.Host)
	}
	_, _ = b.Set("Connection", "close")
	reqHeaders := b.Build()

	bus.Emit(events.Event{Kind: events.RequestHeadersStart, At: time.Now(), CallID: callID})
	if err := http1.WriteRequestLine(conn, req.Method, req.URL.EncodedPath()); err != nil {
		bus.Emit(events.Event{Kind: events.RequestFailed, At: time.Now(), CallID: callID, Err: err})
		return nil, err
	}
	if err := http1.WriteHeaders(conn, reqHeaders); err != nil {
		bus.Emit(events.Event{Kind: events.RequestFailed, At: time.Now(), CallID: callID, Err: err})
		return nil, err
	}
	bus.Emit(events.Event{Kind: events.RequestHeadersEnd, At: time.Now(), CallID: callID, HeaderLength: reqHeaders.ByteCount()})

	bus.Emit(events.Event{Kind: events.ResponseHeadersStart, At: time.Now(), CallID: callID})
	reader := bufio.NewReader(conn)
	status, err := http1.ReadStatusLine(reader)
	if err != nil {
		bus.Emit(events.Event{Kind: events.ResponseFailed, At: time.Now(), CallID: callID, Err: err})
		return nil, err
	}
	respHeaders, err := http1.ReadHeaders(reader)
	if err != nil {
		bus.Emit(events.Event{Kind: events.ResponseFailed, At: time.Now(), CallID: callID, Err: err})
		return nil, err
	}
	bus.Emit(events.Event{Kind: events.ResponseHeadersEnd, At: time.Now(), CallID: callID, HeaderLength: respHeaders.ByteCount()})

	bus.Emit(events.Event{Kind: events.ResponseBodyStart, At: time.Now(), CallID: callID})
	framing, length, err := http1.DetermineResponseFraming(respHeaders)
	if err != nil {
		bus.Emit(events.Event{Kind: events.ResponseFailed, At: time.Now(), CallID: callID, Err: err})
		return nil, err
	}
	var bodyReader io.Reader = reader
	switch framing {
	case http1.FramingChunked:
		bodyReader = http1.NewChunkedReader(reader)
	case http1.FramingContentLength:
		bodyReader = io.LimitReader(reader, length)
	}
	bus.Emit(events.Event{Kind: events.ResponseBodyEnd, At: time.Now(), CallID: callID})

	contentLength := int64(-1)
	if framing == http1.FramingContentLength {
		contentLength = length
	}
	resp := &message.Response{
		Request:  req,
		Protocol: string(protocol),
		Code:     status.StatusCode,
		Message:  status.Message,
		Headers:  respHeaders,
		Body: &message.Body{
			ContentType:   firstValue(respHeaders, "Content-Type"),
			ContentLength: contentLength,
			WriteTo: func(w io.Writer) error {
				_, err := io.Copy(w, bodyReader)
				return err
			},
		},
		ReceivedAt: time.Now(),
	}
	return resp, nil
}

func firstOrDefault(xs []string, def string) string {
	if len(xs) == 0 {
		return def
	}
	return xs[0]
}

func firstValue(h *headers.Headers, name string) string {
	v, _ := h.Get(name)
	return v
}
