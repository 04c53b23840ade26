// Package jsonrpc2 implements the JSON-RPC 2.0 message layer of the
// Language Server Protocol: base-protocol framing, request and notification
// dispatch, and batch composition.
package jsonrpc2

import (
	"bytes"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// parseErrorResponse is sent back when a message body is not well-formed
// JSON. The id is null because no id could be read from the message.
var parseErrorResponse = []byte(`{"jsonrpc":"2.0","id":null,"error":{"code":-32700,"message":"Parse error"}}`)

// Handler processes dispatched messages.
//
// Handlers append raw JSON rather than returning values: responses from a
// batch are concatenated into a single response array, so the endpoint owns
// the surrounding syntax and the handler owns the element text.
type Handler interface {
	// HandleRequest handles one request (a message carrying an "id" field,
	// even a null one). It must append exactly one complete JSON-RPC
	// response object to response.
	HandleRequest(rawMessage []byte, request jsoniter.Any, response *bytes.Buffer)

	// HandleNotification handles one notification (a message without an
	// "id" field). Server-to-client notifications it wants to send are
	// appended to notification as complete framed-ready JSON texts; writing
	// nothing is fine.
	HandleNotification(rawMessage []byte, request jsoniter.Any, notification *bytes.Buffer)
}

// Remote delivers composed outgoing messages to the client.
type Remote interface {
	SendMessage(message []byte)
}

// An Endpoint consumes one side of a Language Server Protocol stream:
// it extracts framed messages from appended bytes, dispatches each message
// (or each element of a batch) to a Handler, and sends whatever the handler
// produced to a Remote.
//
// An Endpoint is not safe for concurrent use. Handler calls happen
// synchronously inside Append, in stream order.
type Endpoint struct {
	handler Handler
	remote  Remote
	scanner frameScanner
	err     error
}

func NewEndpoint(handler Handler, remote Remote) *Endpoint {
	return &Endpoint{handler: handler, remote: remote}
}

// Append feeds bytes from the stream into the endpoint, processing every
// complete message they finish. Partial frames are buffered until later
// appends complete them.
//
// A non-nil error means the endpoint failed: the stream is unrecoverable
// (bad framing) or an internal invariant broke. The endpoint stays failed;
// further calls return the same error without processing anything.
func (e *Endpoint) Append(data []byte) error {
	if e.err != nil {
		return e.err
	}
	e.scanner.append(data)
	for {
		body, err := e.scanner.next()
		if err != nil {
			e.err = err
			return e.err
		}
		if body == nil {
			return nil
		}
		if err := e.processMessage(body); err != nil {
			e.err = err
			return e.err
		}
	}
}

// processMessage handles one framed message to completion: parse, dispatch
// every element, transmit the composed output.
func (e *Endpoint) processMessage(message []byte) error {
	if !jsoniter.Valid(message) {
		// Not well-formed JSON. Report it to the client and keep serving;
		// framing is still intact.
		e.remote.SendMessage(parseErrorResponse)
		return nil
	}
	doc := jsoniter.Get(message)

	var response, notification bytes.Buffer

	if doc.ValueType() == jsoniter.ArrayValue {
		var elements []jsoniter.Any
		doc.ToVal(&elements)

		response.WriteByte('[')
		emptyLen := response.Len()
		for _, element := range elements {
			e.dispatchMessage(message, element, &response, &notification,
				response.Len() != emptyLen)
		}
		if response.Len() == emptyLen {
			// A batch of notifications only. JSON-RPC forbids an empty
			// response array, and no client of this layer sends such
			// batches: the invariant broke somewhere upstream.
			return errors.AssertionFailedf("jsonrpc2: batch produced no responses")
		}
		response.WriteByte(']')
	} else {
		e.dispatchMessage(message, doc, &response, &notification, false)
	}

	// Responses must reach the client before any notifications the same
	// payload produced.
	if response.Len() > 0 {
		e.remote.SendMessage(response.Bytes())
	}
	if notification.Len() > 0 {
		e.remote.SendMessage(notification.Bytes())
	}
	return nil
}

// dispatchMessage routes one message element. Elements with an "id" field
// are requests, everything else is a notification. The comma keeps batch
// response arrays well-formed; it is the composer's, not the handler's.
func (e *Endpoint) dispatchMessage(rawMessage []byte, element jsoniter.Any, response, notification *bytes.Buffer, addCommaBeforeResponse bool) {
	if element.Get("id").ValueType() != jsoniter.InvalidValue {
		if addCommaBeforeResponse {
			response.WriteByte(',')
		}
		e.handler.HandleRequest(rawMessage, element, response)
	} else {
		e.handler.HandleNotification(rawMessage, element, notification)
	}
}
