package server

import (
	"context"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"jetlint.dev/cli/internal/jsonrpc2"
)

// LSPServer is an LSP server that lints open JavaScript documents and
// publishes diagnostics back to the editor.
type LSPServer struct {
	linter Linter
}

// NewLSPServer creates a new LSP server that lints with the given linter.
func NewLSPServer(linter Linter) *LSPServer {
	return &LSPServer{linter: linter}
}

// Start runs the LSP server, reading from stdin and writing to stdout.
// It blocks until the input stream closes or the endpoint fails.
func (s *LSPServer) Start(ctx context.Context) error {
	log.Info().Msg("lsp: starting server")
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve processes LSP traffic from r, writing responses and notifications
// to w, until r is exhausted. A clean end of stream returns nil.
func (s *LSPServer) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	writer := jsonrpc2.NewWriter(w)
	endpoint := jsonrpc2.NewEndpoint(newHandler(s.linter), writer)

	buf := make([]byte, 4096)
	for {
		// Reads from stdio do not unblock on cancellation; checking the
		// context between reads is the best we can do.
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read(buf)
		if n > 0 {
			if aerr := endpoint.Append(buf[:n]); aerr != nil {
				log.Error().Err(aerr).Msg("lsp: endpoint failed")
				return aerr
			}
			if werr := writer.Err(); werr != nil {
				log.Error().Err(werr).Msg("lsp: write failed")
				return werr
			}
		}
		if err == io.EOF {
			log.Debug().Msg("lsp: client closed the stream")
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "lsp: read")
		}
	}
}
