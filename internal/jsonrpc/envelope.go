// Package jsonrpc implements the JSON-RPC 2.0 envelope codec: parsing,
// serializing, and classifying Request/Response/Notification messages.
// file: internal/jsonrpc/envelope.go
package jsonrpc

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/dkoosis/mcpsdk/internal/mcptypes"
)

// Version is the only JSON-RPC version this codec accepts.
const Version = "2.0"

// Message is the raw, not-yet-classified shape of any inbound envelope. It
// tolerates unknown fields and out-of-order keys by unmarshaling into
// json.RawMessage members, the way the teacher's jsonrpc types did.
type Message struct {
	JSONRPC string             `json:"jsonrpc"`
	ID      *mcptypes.RequestID `json:"id,omitempty"`
	Method  string             `json:"method,omitempty"`
	Params  json.RawMessage    `json:"params,omitempty"`
	Result  json.RawMessage    `json:"result,omitempty"`
	Error   *mcptypes.ErrorObject `json:"error,omitempty"`
}

// Request is an outbound-or-classified inbound call expecting a response.
type Request struct {
	ID     mcptypes.RequestID
	Method string
	Params json.RawMessage
}

// Notification is a one-way message; it MUST NOT elicit a response.
type Notification struct {
	Method string
	Params json.RawMessage
}

// Response carries either Result or Err, never both.
type Response struct {
	ID     mcptypes.RequestID
	Result json.RawMessage
	Err    *mcptypes.ErrorObject
}

// Kind classifies a parsed Message.
type Kind int

const (
	KindInvalid Kind = iota
	KindRequest
	KindNotification
	KindResponse
)

// Classify determines the Kind of a raw Message per §4.2: a Response has a
// result or an error; a Request has an id and a method; a Notification has
// a method but no id.
func (m *Message) Classify() Kind {
	switch {
	case m.Result != nil || m.Error != nil:
		return KindResponse
	case m.Method != "" && m.ID != nil:
		return KindRequest
	case m.Method != "" && m.ID == nil:
		return KindNotification
	default:
		return KindInvalid
	}
}

// Parse decodes raw bytes into a classified envelope. It rejects the
// invariants named in spec §4.2: missing/wrong jsonrpc version, simultaneous
// result and error, a Request with neither a numeric nor string id, and a
// Response with neither result nor error.
func Parse(data []byte) (*Message, Kind, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, KindInvalid, errors.Wrap(err, "jsonrpc: malformed json")
	}
	if msg.JSONRPC != Version {
		return &msg, KindInvalid, errors.Newf("jsonrpc: unsupported version %q", msg.JSONRPC)
	}
	if msg.Result != nil && msg.Error != nil {
		return &msg, KindInvalid, errors.New("jsonrpc: message carries both result and error")
	}

	kind := msg.Classify()
	switch kind {
	case KindResponse:
		if msg.ID == nil {
			return &msg, KindInvalid, errors.New("jsonrpc: response missing id")
		}
	case KindRequest:
		// id and method both present, already validated by Classify.
	case KindNotification:
		// method present, no id: valid by definition.
	default:
		return &msg, KindInvalid, errors.New("jsonrpc: message is neither request, notification, nor response")
	}
	return &msg, kind, nil
}

// AsRequest converts a classified KindRequest Message into a Request.
func (m *Message) AsRequest() (Request, error) {
	if m.ID == nil {
		return Request{}, errors.New("jsonrpc: not a request")
	}
	return Request{ID: *m.ID, Method: m.Method, Params: m.Params}, nil
}

// AsNotification converts a classified KindNotification Message into a
// Notification.
func (m *Message) AsNotification() (Notification, error) {
	return Notification{Method: m.Method, Params: m.Params}, nil
}

// AsResponse converts a classified KindResponse Message into a Response.
func (m *Message) AsResponse() (Response, error) {
	if m.ID == nil {
		return Response{}, errors.New("jsonrpc: response missing id")
	}
	return Response{ID: *m.ID, Result: m.Result, Err: m.Error}, nil
}

// EncodeRequest serializes a Request to its wire form.
func EncodeRequest(r Request) ([]byte, error) {
	wire := struct {
		JSONRPC string             `json:"jsonrpc"`
		ID      mcptypes.RequestID `json:"id"`
		Method  string             `json:"method"`
		Params  json.RawMessage    `json:"params,omitempty"`
	}{Version, r.ID, r.Method, r.Params}
	return json.Marshal(wire)
}

// EncodeNotification serializes a Notification to its wire form.
func EncodeNotification(n Notification) ([]byte, error) {
	wire := struct {
		JSONRPC string          `json:"jsonrpc"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params,omitempty"`
	}{Version, n.Method, n.Params}
	return json.Marshal(wire)
}

// EncodeResult serializes a successful Response.
func EncodeResult(id mcptypes.RequestID, result json.RawMessage) ([]byte, error) {
	wire := struct {
		JSONRPC string             `json:"jsonrpc"`
		ID      mcptypes.RequestID `json:"id"`
		Result  json.RawMessage    `json:"result"`
	}{Version, id, result}
	return json.Marshal(wire)
}

// EncodeError serializes an error Response.
func EncodeError(id mcptypes.RequestID, errObj *mcptypes.ErrorObject) ([]byte, error) {
	wire := struct {
		JSONRPC string                `json:"jsonrpc"`
		ID      mcptypes.RequestID    `json:"id"`
		Error   *mcptypes.ErrorObject `json:"error"`
	}{Version, id, errObj}
	return json.Marshal(wire)
}
