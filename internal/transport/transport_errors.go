// Package transport defines interfaces and implementations for sending and
// receiving MCP messages. This file defines the transport layer's error
// vocabulary. It deliberately does not invent a parallel Error/Code/Type
// taxonomy: a framing failure is just another internal/mcperror-categorized
// error, so GetErrorCategory/GetErrorCode/ToJSONRPCError work on it exactly
// the way they work on a tool or resource handler's error.
// file: internal/transport/transport_errors.go
package transport

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/dkoosis/mcpsdk/internal/mcperror"
)

// Sentinel causes, independent of the category/code pair attached for wire
// exposure. Callers test with errors.Is rather than switching on a code.
var (
	ErrFrameTooLarge  = errors.New("frame exceeds the transport's maximum message size")
	ErrMalformedFrame = errors.New("frame is not well-formed JSON")
	ErrClosed         = errors.New("transport is closed")
)

// newFrameTooLargeError reports a frame that crossed limit before framing
// even finished assembling it, carrying a preview rather than echoing the
// whole oversized payload into logs.
func newFrameTooLargeError(size, limit int, frame []byte) error {
	err := errors.Mark(errors.Newf("frame of %d bytes exceeds the %d byte limit", size, limit), ErrFrameTooLarge)
	return mcperror.ErrorWithDetails(err, mcperror.CategoryTransport, mcperror.CodeFrameTooLarge, map[string]interface{}{
		"size": size, "limit": limit, "preview": calculatePreview(frame),
	})
}

// newMalformedFrameError reports a frame that isn't even syntactically
// valid JSON. Anything that parses as JSON but violates the JSON-RPC
// envelope shape is left for internal/jsonrpc.Parse to reject; framing only
// needs to know where one message ends and the next begins.
func newMalformedFrameError(cause error, frame []byte) error {
	var err error
	if cause == nil {
		err = errors.New("malformed frame")
	} else {
		err = errors.Wrap(cause, "malformed frame")
	}
	err = errors.Mark(err, ErrMalformedFrame)
	return mcperror.ErrorWithDetails(err, mcperror.CategoryTransport, mcperror.CodeParseError, map[string]interface{}{
		"preview": calculatePreview(frame),
	})
}

// newClosedError reports an operation attempted after Close.
func newClosedError(operation string) error {
	err := errors.Mark(errors.Newf("cannot %s: transport is closed", operation), ErrClosed)
	return mcperror.ErrorWithDetails(err, mcperror.CategoryTransport, mcperror.CodeConnectionClosed, map[string]interface{}{"operation": operation})
}

// newPeerClosedError reports the peer ending the stream, as distinct from
// this side having called Close itself.
func newPeerClosedError(cause error) error {
	err := errors.Mark(errors.Wrap(cause, "peer closed the connection"), ErrClosed)
	return mcperror.ErrorWithDetails(err, mcperror.CategoryTransport, mcperror.CodeConnectionClosed, nil)
}

// newTimeoutError reports a read or write that lost the race against its
// context.
func newTimeoutError(operation string, cause error) error {
	err := errors.Mark(errors.Wrapf(cause, "%s timed out", operation), mcperror.ErrTimeout)
	return mcperror.ErrorWithDetails(err, mcperror.CategoryTransport, mcperror.CodeTimeoutError, map[string]interface{}{"operation": operation})
}

// newIOError reports any other read/write failure from the underlying
// stream.
func newIOError(operation string, cause error) error {
	err := errors.Wrapf(cause, "%s failed", operation)
	return mcperror.ErrorWithDetails(err, mcperror.CategoryTransport, mcperror.CodeInternalError, map[string]interface{}{"operation": operation})
}

// IsClosedError reports whether err signals that the transport is closed,
// from either side: a local Close call or the peer ending the stream.
func IsClosedError(err error) bool {
	return errors.Is(err, ErrClosed) || errors.Is(err, io.EOF)
}
