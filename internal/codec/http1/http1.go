// Package http1 implements the HTTP/1.1 writer/reader contract from §4.H:
// Content-Length or chunked request/response framing, with
// connection-close as the last-resort fallback.
package http1

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nexthop-io/transport/internal/headers"
)

var ErrNoStatusLine = errors.New("http1: malformed status line")

// WriteRequestLine writes "METHOD path HTTP/1.1\r\n".
func WriteRequestLine(w io.Writer, method, path string) error {
	_, err := fmt.Fprintf(w, "%s %s HTTP/1.1\r\n", method, path)
	return err
}

// WriteHeaders writes each header as "Name: value\r\n" followed by the
// blank line terminating the header block.
func WriteHeaders(w io.Writer, h *headers.Headers) error {
	for i := 0; i < h.Size(); i++ {
		if _, err := fmt.Fprintf(w, "%s: %s\r\n", h.NameAt(i), h.ValueAt(i)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}

// StatusLine is a parsed "HTTP/1.1 200 OK" line.
type StatusLine struct {
	ProtocolVersion string
	StatusCode      int
	Message         string
}

// ReadStatusLine reads and parses the response status line.
func ReadStatusLine(r *bufio.Reader) (StatusLine, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return StatusLine{}, err
	}
	line = strings.TrimRight(line, "\r\n")
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 {
		return StatusLine{}, ErrNoStatusLine
	}
	code, err := strconv.Atoi(parts[1])
	if err != nil {
		return StatusLine{}, fmt.Errorf("%w: bad status code %q", ErrNoStatusLine, parts[1])
	}
	msg := ""
	if len(parts) == 3 {
		msg = parts[2]
	}
	return StatusLine{ProtocolVersion: parts[0], StatusCode: code, Message: msg}, nil
}

// ReadHeaders reads header lines until the blank line, building a Headers
// via the shared multimap parser (so malformed lines fail the same way
// regardless of which codec produced them).
func ReadHeaders(r *bufio.Reader) (*headers.Headers, error) {
	b := headers.NewBuilder()
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "" {
			break
		}
		if _, err := b.AddLine(trimmed); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// BodyFraming describes how to read/write the message body that follows
// the header block.
type BodyFraming int

const (
	FramingContentLength BodyFraming = iota
	FramingChunked
	FramingConnectionClose
	FramingNone
)

// DetermineResponseFraming implements §4.H's response-framing fallback
// chain: Transfer-Encoding: chunked takes priority over Content-Length,
// which takes priority over reading until the connection closes.
func DetermineResponseFraming(h *headers.Headers) (BodyFraming, int64, error) {
	if te, ok := h.Get("Transfer-Encoding"); ok && strings.EqualFold(strings.TrimSpace(te), "chunked") {
		return FramingChunked, 0, nil
	}
	if cl, ok := h.Get("Content-Length"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(cl), 10, 64)
		if err != nil || n < 0 {
			return FramingNone, 0, fmt.Errorf("http1: invalid Content-Length %q", cl)
		}
		return FramingContentLength, n, nil
	}
	return FramingConnectionClose, 0, nil
}

// NewChunkedReader decodes a chunked body directly off r, the same
// *bufio.Reader ReadStatusLine/ReadHeaders consumed the status line and
// headers from. Taking the caller's own *bufio.Reader rather than wrapping
// an io.Reader in a second buffer matters on a reused connection: a fresh
// bufio.Reader would over-read past the body's terminating CRLF into the
// next response, stranding those bytes in a buffer nothing else can reach.
func NewChunkedReader(r *bufio.Reader) io.Reader {
	return &chunkedReader{r: r}
}

// chunkedReader implements RFC 7230 §4.1 chunked transfer decoding.
type chunkedReader struct {
	r         *bufio.Reader
	remaining int64
	done      bool
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if c.done {
		return 0, io.EOF
	}
	if c.remaining == 0 {
		size, err := c.readChunkSize()
		if err != nil {
			return 0, err
		}
		if size == 0 {
			c.done = true
			// Consume zero or more trailer fields, each CRLF-terminated,
			// followed by the section's final blank-line CRLF (RFC 7230
			// §4.1.2). A bare blank line (no trailer fields) is the common
			// case but not the only one.
			for {
				line, err := c.r.ReadString('\n')
				if err != nil {
					return 0, err
				}
				if strings.TrimRight(line, "\r\n") == "" {
					break
				}
			}
			return 0, io.EOF
		}
		c.remaining = size
	}
	if int64(len(p)) > c.remaining {
		p = p[:c.remaining]
	}
	n, err := c.r.Read(p)
	c.remaining -= int64(n)
	if c.remaining == 0 && err == nil {
		// Consume the chunk's trailing CRLF.
		if _, _, derr := c.r.ReadLine(); derr != nil {
			return n, derr
		}
	}
	return n, err
}

func (c *chunkedReader) readChunkSize() (int64, error) {
	line, err := c.r.ReadString('\n')
	if err != nil {
		return 0, err
	}
	line = strings.TrimRight(line, "\r\n")
	if idx := strings.IndexByte(line, ';'); idx >= 0 {
		line = line[:idx]
	}
	return strconv.ParseInt(strings.TrimSpace(line), 16, 64)
}
