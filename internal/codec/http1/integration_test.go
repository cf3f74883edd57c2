package http1_test

import (
	"bufio"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/nexthop-io/transport/internal/codec/http1"
	"github.com/nexthop-io/transport/internal/headers"
)

// TestRoundTrip_AgainstChiServer drives a raw TCP connection through the
// codec's writer/reader against a real chi-routed httptest server,
// exercising WriteRequestLine/WriteHeaders on the way out and
// ReadStatusLine/ReadHeaders/DetermineResponseFraming on the way back.
func TestRoundTrip_AgainstChiServer(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/greet", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("hello"))
	})
	server := httptest.NewServer(r)
	defer server.Close()

	addr := server.Listener.Addr().String()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	host, _, err := net.SplitHostPort(addr)
	require.NoError(t, err)

	b := headers.NewBuilder()
	_, err = b.Add("Host", host)
	require.NoError(t, err)
	_, err = b.Add("Connection", "close")
	require.NoError(t, err)

	require.NoError(t, http1.WriteRequestLine(conn, "GET", "/greet"))
	require.NoError(t, http1.WriteHeaders(conn, b.Build()))

	reader := bufio.NewReader(conn)
	status, err := http1.ReadStatusLine(reader)
	require.NoError(t, err)
	require.Equal(t, 200, status.StatusCode)

	respHeaders, err := http1.ReadHeaders(reader)
	require.NoError(t, err)
	ct, ok := respHeaders.Get("Content-Type")
	require.True(t, ok)
	require.Equal(t, "text/plain", ct)

	framing, n, err := http1.DetermineResponseFraming(respHeaders)
	require.NoError(t, err)
	require.Equal(t, http1.FramingContentLength, framing)
	require.Equal(t, int64(5), n)

	body := make([]byte, n)
	_, err = io.ReadFull(reader, body)
	require.NoError(t, err)
	require.Equal(t, "hello", string(body))
}
