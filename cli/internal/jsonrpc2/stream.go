package jsonrpc2

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
)

var headerSeparator = []byte("\r\n\r\n")

// frameScanner incrementally extracts LSP base-protocol frames
// ("Content-Length: N\r\n\r\n<body>") from an append-only byte stream.
type frameScanner struct {
	buf []byte
}

func (s *frameScanner) append(data []byte) {
	s.buf = append(s.buf, data...)
}

// next returns the body of the next complete frame, or nil if more data is
// needed. The returned slice aliases the scanner's buffer and is valid only
// until the next call to append.
func (s *frameScanner) next() ([]byte, error) {
	end := bytes.Index(s.buf, headerSeparator)
	if end < 0 {
		return nil, nil
	}
	contentLength, err := parseHeaders(s.buf[:end])
	if err != nil {
		return nil, err
	}
	bodyStart := end + len(headerSeparator)
	if len(s.buf) < bodyStart+contentLength {
		return nil, nil
	}
	body := s.buf[bodyStart : bodyStart+contentLength]
	s.buf = s.buf[bodyStart+contentLength:]
	return body, nil
}

// parseHeaders extracts the Content-Length value from a header block.
// Header names are case-insensitive and unknown headers are skipped, but a
// block without a usable Content-Length fails: without it the stream can
// never be re-synchronized.
func parseHeaders(block []byte) (int, error) {
	for _, line := range bytes.Split(block, []byte("\r\n")) {
		name, value, ok := bytes.Cut(line, []byte(":"))
		if !ok {
			continue
		}
		if !bytes.EqualFold(bytes.TrimSpace(name), []byte("Content-Length")) {
			continue
		}
		value = bytes.TrimSpace(value)
		n, err := strconv.Atoi(string(value))
		if err != nil || n < 0 {
			return 0, errors.Newf("jsonrpc2: invalid Content-Length header %q", value)
		}
		return n, nil
	}
	return 0, errors.New("jsonrpc2: message headers missing Content-Length")
}

// A Writer frames outgoing messages with LSP base-protocol headers and
// writes them to an underlying writer. It implements Remote.
//
// The first write failure latches: later messages are dropped and Err
// reports the failure.
type Writer struct {
	w   io.Writer
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// SendMessage writes one framed message. The header and body go out in a
// single Write so messages stay contiguous on the wire.
func (w *Writer) SendMessage(message []byte) {
	if w.err != nil {
		return
	}
	var frame bytes.Buffer
	fmt.Fprintf(&frame, "Content-Length: %d\r\n\r\n", len(message))
	frame.Write(message)
	if _, err := w.w.Write(frame.Bytes()); err != nil {
		w.err = errors.Wrap(err, "jsonrpc2: write message")
	}
}

// Err returns the first write failure, if any.
func (w *Writer) Err() error {
	return w.err
}
