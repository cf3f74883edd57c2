package http2

import (
	"io"
	"net"
	"testing"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/hpack"

	"github.com/nexthop-io/transport/internal/headers"
)

// TestNewSession_WritesPrefaceThenSettings verifies the preface/SETTINGS
// ordering §4.H requires at connection start.
func TestNewSession_WritesPrefaceThenSettings(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	readErr := make(chan error, 1)
	go func() {
		buf := make([]byte, len(ClientPreface))
		if _, err := io.ReadFull(server, buf); err != nil {
			readErr <- err
			return
		}
		if string(buf) != ClientPreface {
			readErr <- errMismatch
			return
		}
		fr := http2.NewFramer(server, server)
		f, err := fr.ReadFrame()
		if err != nil {
			readErr <- err
			return
		}
		if _, ok := f.(*http2.SettingsFrame); !ok {
			readErr <- errMismatch
			return
		}
		readErr <- nil
	}()

	if _, err := NewSession(client); err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	select {
	case err := <-readErr:
		if err != nil {
			t.Fatalf("server observed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for server read")
	}
}

var errMismatch = &mismatchError{}

type mismatchError struct{}

func (*mismatchError) Error() string { return "frame mismatch" }

// TestNegotiateSettings_RecordsPeerMaxConcurrentStreams drives a fake peer
// that sends a SETTINGS frame advertising a low stream ceiling.
func TestNegotiateSettings_RecordsPeerMaxConcurrentStreams(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	go func() {
		buf := make([]byte, len(ClientPreface))
		_, _ = io.ReadFull(server, buf)
		serverFramer := http2.NewFramer(server, server)
		// Drain the client's initial SETTINGS frame.
		_, _ = serverFramer.ReadFrame()
		_ = serverFramer.WriteSettings(http2.Setting{ID: http2.SettingMaxConcurrentStreams, Val: 10})
		// Drain the client's SETTINGS ACK.
		_, _ = serverFramer.ReadFrame()
	}()

	sess, err := NewSession(client)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := sess.NegotiateSettings(); err != nil {
		t.Fatalf("NegotiateSettings: %v", err)
	}
	if got := sess.PeerMaxConcurrentStreams(); got != 10 {
		t.Fatalf("PeerMaxConcurrentStreams = %d, want 10", got)
	}
}

// TestWriteRequestHeaders_RoundTripsThroughHPACK writes a HEADERS frame and
// decodes it back on the peer side via an independent HPACK decoder.
func TestWriteRequestHeaders_RoundTripsThroughHPACK(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	var decoded []hpack.HeaderField
	decodeDone := make(chan struct{})
	go func() {
		buf := make([]byte, len(ClientPreface))
		_, _ = io.ReadFull(server, buf)
		serverFramer := http2.NewFramer(server, server)
		_, _ = serverFramer.ReadFrame() // client SETTINGS

		dec := hpack.NewDecoder(4096, func(f hpack.HeaderField) { decoded = append(decoded, f) })
		f, err := serverFramer.ReadFrame()
		if err != nil {
			close(decodeDone)
			return
		}
		hf := f.(*http2.HeadersFrame)
		_, _ = dec.Write(hf.HeaderBlockFragment())
		close(decodeDone)
	}()

	sess, err := NewSession(client)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	h := RequestHeaderFields("GET", "/", "example.com", "https", headers.NewBuilder().Build())
	if err := sess.WriteRequestHeaders(sess.NextStreamID(), h, true); err != nil {
		t.Fatalf("WriteRequestHeaders: %v", err)
	}

	select {
	case <-decodeDone:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for decode")
	}

	if len(decoded) != 4 {
		t.Fatalf("decoded %d fields, want 4: %+v", len(decoded), decoded)
	}
	if decoded[0].Name != ":method" || decoded[0].Value != "GET" {
		t.Fatalf("first field = %+v", decoded[0])
	}
}
