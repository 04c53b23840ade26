package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	qt "github.com/frankban/quicktest"
	jsoniter "github.com/json-iterator/go"

	"jetlint.dev/pkg/lint"
)

// readFrames splits a captured output stream back into message bodies.
func readFrames(c *qt.C, data []byte) []string {
	var msgs []string
	for len(data) > 0 {
		sep := bytes.Index(data, []byte("\r\n\r\n"))
		c.Assert(sep >= 0, qt.IsTrue, qt.Commentf("missing header separator in %q", data))
		var n int
		_, err := fmt.Sscanf(string(data[:sep]), "Content-Length: %d", &n)
		c.Assert(err, qt.IsNil)
		c.Assert(len(data) >= sep+4+n, qt.IsTrue)
		msgs = append(msgs, string(data[sep+4:sep+4+n]))
		data = data[sep+4+n:]
	}
	return msgs
}

func TestServeSession(t *testing.T) {
	c := qt.New(t)

	var input bytes.Buffer
	input.Write(frame(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`))
	input.Write(frame(`{"jsonrpc":"2.0","method":"initialized","params":{}}`))
	input.Write(frame(didOpenMessage("file:///app.js", "javascript", 10, "let x = x;")))
	input.Write(frame(`{"jsonrpc":"2.0","id":2,"method":"shutdown"}`))
	input.Write(frame(`{"jsonrpc":"2.0","method":"exit"}`))

	var out bytes.Buffer
	srv := NewLSPServer(lint.New(lint.DefaultOptions()))
	err := srv.Serve(context.Background(), &input, &out)
	c.Assert(err, qt.IsNil)

	msgs := readFrames(c, out.Bytes())
	c.Assert(msgs, qt.HasLen, 3)
	c.Assert(jsoniter.Get([]byte(msgs[0]), "result", "serverInfo", "name").ToString(), qt.Equals, "jetlint")
	c.Assert(jsoniter.Get([]byte(msgs[1]), "method").ToString(), qt.Equals, "textDocument/publishDiagnostics")
	c.Assert(jsoniter.Get([]byte(msgs[1]), "params", "diagnostics").Size(), qt.Equals, 1)
	c.Assert(msgs[2], qt.Equals, `{"jsonrpc":"2.0","id":2,"result":null}`)
}

func TestServeStopsWhenContextCancelled(t *testing.T) {
	c := qt.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	srv := NewLSPServer(lint.New(lint.DefaultOptions()))
	err := srv.Serve(ctx, strings.NewReader(""), io.Discard)
	c.Assert(errors.Is(err, context.Canceled), qt.IsTrue)
}

func TestServeReportsEndpointFailure(t *testing.T) {
	c := qt.New(t)

	// A batch of notifications only breaks the endpoint.
	var input bytes.Buffer
	input.Write(frame(`[{"jsonrpc":"2.0","method":"initialized"}]`))

	var out bytes.Buffer
	srv := NewLSPServer(lint.New(lint.DefaultOptions()))
	err := srv.Serve(context.Background(), &input, &out)
	c.Assert(err, qt.IsNotNil)
	c.Assert(errors.HasAssertionFailure(err), qt.IsTrue)
	c.Assert(out.Len(), qt.Equals, 0)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("pipe closed")
}

func TestServeReportsWriteFailure(t *testing.T) {
	c := qt.New(t)

	var input bytes.Buffer
	input.Write(frame(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`))

	srv := NewLSPServer(lint.New(lint.DefaultOptions()))
	err := srv.Serve(context.Background(), &input, failingWriter{})
	c.Assert(err, qt.ErrorMatches, ".*pipe closed")
}
