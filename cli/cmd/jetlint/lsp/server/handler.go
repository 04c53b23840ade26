package server

import (
	"bytes"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"

	"jetlint.dev/cli/internal/jsonrpc2"
	"jetlint.dev/pkg/lint"
	"jetlint.dev/pkg/version"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Linter produces diagnostics for a JavaScript source text.
type Linter interface {
	Lint(source string) []lint.Diagnostic
}

// handler implements jsonrpc2.Handler with the LSP message handling logic.
//
// The endpoint dispatches strictly in stream order on a single goroutine,
// so handler state needs no locking.
type handler struct {
	linter Linter

	// lintable tracks open documents whose language jetlint understands.
	// Other documents are left alone even if the client reports changes.
	lintable map[string]bool
}

func newHandler(linter Linter) *handler {
	return &handler{
		linter:   linter,
		lintable: make(map[string]bool),
	}
}

// HandleRequest is the jsonrpc2.Handler request implementation.
func (h *handler) HandleRequest(rawMessage []byte, request jsoniter.Any, response *bytes.Buffer) {
	id := request.Get("id")
	method := request.Get("method")
	if method.ValueType() != jsoniter.StringValue {
		writeResponse(response, Response{
			JSONRPC: "2.0",
			ID:      id,
			Error: &ResponseError{
				Code:    jsonrpc2.CodeInvalidRequest,
				Message: "request has no method",
			},
		})
		return
	}

	switch m := method.ToString(); m {
	case "initialize":
		log.Debug().Msg("lsp: initialize")
		h.handleInitialize(id, response)
	case "shutdown":
		log.Debug().Msg("lsp: shutdown")
		writeResponse(response, Response{
			JSONRPC: "2.0",
			ID:      id,
			Result:  jsoniter.RawMessage("null"),
		})
	default:
		writeResponse(response, Response{
			JSONRPC: "2.0",
			ID:      id,
			Error: &ResponseError{
				Code:    jsonrpc2.CodeMethodNotFound,
				Message: "method not found: " + m,
			},
		})
	}
}

// HandleNotification is the jsonrpc2.Handler notification implementation.
func (h *handler) HandleNotification(rawMessage []byte, request jsoniter.Any, notification *bytes.Buffer) {
	switch method := request.Get("method").ToString(); method {
	case "textDocument/didOpen":
		h.handleDidOpen(request, notification)
	case "textDocument/didChange":
		h.handleDidChange(request, notification)
	case "textDocument/didClose":
		h.handleDidClose(request)
	case "initialized", "exit":
		// Nothing to do.
	default:
		log.Debug().Str("method", method).Msg("lsp: ignoring notification")
	}
}

func (h *handler) handleInitialize(id jsoniter.Any, response *bytes.Buffer) {
	writeResponse(response, Response{
		JSONRPC: "2.0",
		ID:      id,
		Result: InitializeResult{
			Capabilities: ServerCapabilities{
				TextDocumentSync: &TextDocumentSyncOptions{
					OpenClose: true,
					Change:    SyncFull,
				},
			},
			ServerInfo: &ServerInfo{
				Name:    "jetlint",
				Version: version.Version,
			},
		},
	})
}

func (h *handler) handleDidOpen(request jsoniter.Any, notification *bytes.Buffer) {
	var params DidOpenTextDocumentParams
	if err := unmarshalParams(request, &params); err != nil {
		log.Debug().Err(err).Msg("lsp: bad didOpen params")
		return
	}
	doc := params.TextDocument
	if doc.LanguageID != "javascript" {
		log.Debug().Str("uri", doc.URI).Str("language", doc.LanguageID).
			Msg("lsp: ignoring non-javascript document")
		return
	}
	h.lintable[doc.URI] = true
	log.Debug().Str("uri", doc.URI).Msg("lsp: didOpen")
	h.publishDiagnostics(notification, doc.URI, doc.Version, doc.Text)
}

func (h *handler) handleDidChange(request jsoniter.Any, notification *bytes.Buffer) {
	var params DidChangeTextDocumentParams
	if err := unmarshalParams(request, &params); err != nil {
		log.Debug().Err(err).Msg("lsp: bad didChange params")
		return
	}
	doc := params.TextDocument
	if !h.lintable[doc.URI] {
		return
	}
	if len(params.ContentChanges) == 0 {
		log.Debug().Str("uri", doc.URI).Msg("lsp: didChange without content changes")
		return
	}
	// Documents sync with full content (SyncFull), so the last change
	// carries the complete text.
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	h.publishDiagnostics(notification, doc.URI, doc.Version, text)
}

func (h *handler) handleDidClose(request jsoniter.Any) {
	var params DidCloseTextDocumentParams
	if err := unmarshalParams(request, &params); err != nil {
		log.Debug().Err(err).Msg("lsp: bad didClose params")
		return
	}
	delete(h.lintable, params.TextDocument.URI)
	log.Debug().Str("uri", params.TextDocument.URI).Msg("lsp: didClose")
}

// publishDiagnostics lints text and appends a textDocument/publishDiagnostics
// notification for uri to out.
func (h *handler) publishDiagnostics(out *bytes.Buffer, uri string, docVersion int, text string) {
	diags := toLSPDiagnostics(h.linter.Lint(text))
	data, err := json.Marshal(Notification{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: PublishDiagnosticsParams{
			URI:         uri,
			Version:     docVersion,
			Diagnostics: diags,
		},
	})
	if err != nil {
		log.Error().Err(err).Str("uri", uri).Msg("lsp: marshal diagnostics")
		return
	}
	out.Write(data)
	log.Debug().Str("uri", uri).Int("diagnostics", len(diags)).
		Msg("lsp: publishing diagnostics")
}

func writeResponse(out *bytes.Buffer, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		log.Error().Err(err).Msg("lsp: marshal response")
		return
	}
	out.Write(data)
}

// unmarshalParams decodes the params object of a JSON-RPC message.
func unmarshalParams(request jsoniter.Any, v any) error {
	params := request.Get("params")
	if params.ValueType() != jsoniter.ObjectValue {
		return errors.New("params is not an object")
	}
	return json.UnmarshalFromString(params.ToString(), v)
}
