package http2

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/hpack"
)

// ClientPreface is the fixed byte sequence §4.H requires before the first
// SETTINGS frame on a freshly negotiated HTTP/2 connection.
const ClientPreface = http2.ClientPreface

// DefaultMaxConcurrentStreams is used until the peer's SETTINGS frame
// advertises its own ceiling.
const DefaultMaxConcurrentStreams = 100

// Session wraps one negotiated HTTP/2 connection: the frame reader/writer
// and the HPACK encoder/decoder state each direction needs (HPACK is
// stateful per-direction, so encoder and decoder are not interchangeable).
type Session struct {
	conn   net.Conn
	framer *http2.Framer

	mu          sync.Mutex
	encBuf      bytes.Buffer
	encoder     *hpack.Encoder
	nextStream  uint32
	peerMaxConc uint32
}

// NewSession writes the client preface and an initial empty SETTINGS frame,
// then returns a Session ready to read the peer's SETTINGS in response.
func NewSession(conn net.Conn) (*Session, error) {
	if _, err := io.WriteString(conn, ClientPreface); err != nil {
		return nil, fmt.Errorf("http2: write preface: %w", err)
	}
	s := &Session{
		conn:        conn,
		framer:      http2.NewFramer(conn, conn),
		nextStream:  1,
		peerMaxConc: DefaultMaxConcurrentStreams,
	}
	s.encoder = hpack.NewEncoder(&s.encBuf)
	if err := s.framer.WriteSettings(); err != nil {
		return nil, fmt.Errorf("http2: write settings: %w", err)
	}
	return s, nil
}

// NegotiateSettings reads frames until the peer's initial SETTINGS frame is
// seen, recording MaxConcurrentStreams and ACKing it. Any frame types other
// than SETTINGS or WINDOW_UPDATE seen before that are an error: per RFC 7540
// §3.5 the SETTINGS frame must be first.
func (s *Session) NegotiateSettings() error {
	for {
		f, err := s.framer.ReadFrame()
		if err != nil {
			return fmt.Errorf("http2: read initial settings: %w", err)
		}
		sf, ok := f.(*http2.SettingsFrame)
		if !ok {
			if _, isWindowUpdate := f.(*http2.WindowUpdateFrame); isWindowUpdate {
				continue
			}
			return fmt.Errorf("http2: expected SETTINGS first, got %T", f)
		}
		if sf.IsAck() {
			continue
		}
		sf.ForeachSetting(func(setting http2.Setting) error {
			if setting.ID == http2.SettingMaxConcurrentStreams {
				s.mu.Lock()
				s.peerMaxConc = setting.Val
				s.mu.Unlock()
			}
			return nil
		})
		return s.framer.WriteSettingsAck()
	}
}

// PeerMaxConcurrentStreams reports the most recently observed ceiling from
// the peer's SETTINGS frame.
func (s *Session) PeerMaxConcurrentStreams() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peerMaxConc
}

// NextStreamID returns the next client-initiated stream id (odd-numbered,
// per RFC 7540 §5.1.1) and advances the counter.
func (s *Session) NextStreamID() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextStream
	s.nextStream += 2
	return id
}

// WriteRequestHeaders HPACK-encodes fields and writes a single HEADERS frame
// with END_HEADERS set (no CONTINUATION support: request header blocks this
// client produces are small enough to fit one frame).
func (s *Session) WriteRequestHeaders(streamID uint32, fields []hpack.HeaderField, endStream bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.encBuf.Reset()
	for _, f := range fields {
		if err := s.encoder.WriteField(f); err != nil {
			return fmt.Errorf("http2: hpack encode: %w", err)
		}
	}
	return s.framer.WriteHeaders(http2.HeadersFrameParam{
		StreamID:      streamID,
		BlockFragment: s.encBuf.Bytes(),
		EndHeaders:    true,
		EndStream:     endStream,
	})
}

// WriteData writes one DATA frame for streamID.
func (s *Session) WriteData(streamID uint32, data []byte, endStream bool) error {
	return s.framer.WriteData(streamID, endStream, data)
}

// ReadFrame exposes the underlying framer for the caller's read loop to
// dispatch on frame type (HEADERS, DATA, RST_STREAM, GOAWAY, PING...).
func (s *Session) ReadFrame() (http2.Frame, error) {
	return s.framer.ReadFrame()
}

// WritePing sends a PING frame; ack=false requests the peer reply with
// ACK=true carrying the same payload.
func (s *Session) WritePing(ack bool, data [8]byte) error {
	return s.framer.WritePing(ack, data)
}

// Close closes the underlying socket. Canceling an in-flight call per §9's
// design note reduces to closing this socket rather than a separate
// cancellation channel.
func (s *Session) Close() error {
	return s.conn.Close()
}

// SetDeadline proxies to the underlying connection's SetDeadline.
func (s *Session) SetDeadline(t time.Time) error {
	return s.conn.SetDeadline(t)
}
