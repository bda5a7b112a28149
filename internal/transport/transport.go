// Package transport defines the Transport interface callers frame MCP
// sessions over, plus the NDJSON implementation stdio and pipe transports
// build on. Framing here stops at "where does one JSON value end and the
// next begin" — JSON-RPC envelope semantics (version, id shape, mutually
// exclusive result/error) are internal/jsonrpc's job, not this package's.
// file: internal/transport/transport.go
package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/dkoosis/mcpsdk/internal/logging"
)

// MaxMessageSize is the largest single JSON-RPC message a Transport will
// accept in either direction. Spec floor is 16 MiB; callers needing a
// different ceiling wrap a transport with their own size-aware reader
// rather than editing this constant.
const MaxMessageSize = 16 * 1024 * 1024 // 16MiB.

// Transport moves raw JSON-RPC frames between a Session and its peer.
// Implementations own framing (how a byte stream is split into discrete
// messages) and must be safe for concurrent ReadMessage/WriteMessage/Close.
type Transport interface {
	// ReadMessage blocks for one complete frame, returning its raw bytes.
	// ctx cancellation unblocks a pending read with an error.
	ReadMessage(ctx context.Context) ([]byte, error)

	// WriteMessage sends one complete frame. ctx cancellation unblocks a
	// pending write with an error.
	WriteMessage(ctx context.Context, message []byte) error

	// Close releases the underlying stream. Any blocked Read/Write
	// operation returns an error satisfying IsClosedError.
	Close() error
}

// calculatePreview renders up to 100 bytes of data with control characters
// replaced by '.', for safe inclusion in a log line or error property.
func calculatePreview(data []byte) string {
	const maxPreviewLen = 100
	truncated := len(data) > maxPreviewLen
	if truncated {
		data = data[:maxPreviewLen]
	}
	clean := bytes.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return '.'
		}
		return r
	}, data)
	if truncated {
		return string(clean) + "..."
	}
	return string(clean)
}

// scanFrame reads one newline-delimited frame from r, enforcing limit as
// the line accumulates rather than after the fact: a peer that never sends
// a newline cannot force unbounded buffering past limit bytes before this
// returns ErrFrameTooLarge. bufio.Reader's ReadSlice surfaces a full
// internal buffer as ErrBufferFull without having found the delimiter yet,
// which is the signal to keep accumulating instead of treating it as EOF.
func scanFrame(r *bufio.Reader, limit int) ([]byte, error) {
	var frame []byte
	for {
		chunk, err := r.ReadSlice('\n')
		if len(chunk) > 0 {
			if len(frame)+len(chunk) > limit {
				return nil, newFrameTooLargeError(len(frame)+len(chunk), limit, append(frame, chunk...))
			}
			frame = append(frame, chunk...)
		}
		if err == nil {
			return bytes.TrimRight(frame, "\r\n"), nil
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if err == io.EOF && len(frame) > 0 {
			return bytes.TrimRight(frame, "\r\n"), nil
		}
		return nil, err
	}
}

// NDJSONTransport frames messages as newline-delimited JSON: one complete
// JSON value per line. This is the shape stdio and the in-process pipe
// tests both speak.
type NDJSONTransport struct {
	reader    *bufio.Reader
	writer    io.Writer
	closer    io.Closer
	logger    logging.Logger
	writeLock sync.Mutex
	closeOnce sync.Once
	closed    chan struct{}
}

// NewNDJSONTransport builds a Transport that reads from reader, writes to
// writer, and closes closer on Close.
func NewNDJSONTransport(reader io.Reader, writer io.Writer, closer io.Closer, logger logging.Logger) Transport {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	return &NDJSONTransport{
		reader: bufio.NewReader(reader),
		writer: writer,
		closer: closer,
		logger: logger.WithField("component", "ndjson_transport"),
		closed: make(chan struct{}),
	}
}

func (t *NDJSONTransport) isClosed() bool {
	select {
	case <-t.closed:
		return true
	default:
		return false
	}
}

// ReadMessage reads one line, validates it as syntactically well-formed
// JSON, and returns it with its trailing newline stripped.
func (t *NDJSONTransport) ReadMessage(ctx context.Context) ([]byte, error) {
	if t.isClosed() {
		return nil, newClosedError("read")
	}

	type readResult struct {
		data []byte
		err  error
	}
	resultCh := make(chan readResult, 1)

	go func() {
		frame, err := scanFrame(t.reader, MaxMessageSize)
		if err != nil {
			if err == io.EOF {
				resultCh <- readResult{nil, newPeerClosedError(err)}
				return
			}
			if IsClosedError(err) {
				resultCh <- readResult{nil, err}
				return
			}
			resultCh <- readResult{nil, newIOError("read", err)}
			return
		}
		if len(frame) == 0 {
			resultCh <- readResult{nil, newMalformedFrameError(io.ErrUnexpectedEOF, frame)}
			return
		}
		if !json.Valid(frame) {
			resultCh <- readResult{nil, newMalformedFrameError(nil, frame)}
			return
		}
		t.logger.Debug("Received NDJSON frame.", "size", len(frame), "preview", calculatePreview(frame))
		resultCh <- readResult{frame, nil}
	}()

	select {
	case <-ctx.Done():
		return nil, newTimeoutError("read", ctx.Err())
	case result := <-resultCh:
		return result.data, result.err
	}
}

// WriteMessage appends a trailing newline to message and writes it
// atomically with respect to other writers.
func (t *NDJSONTransport) WriteMessage(ctx context.Context, message []byte) error {
	if t.isClosed() {
		return newClosedError("write")
	}
	if !json.Valid(message) {
		return newMalformedFrameError(nil, message)
	}
	if len(message) > MaxMessageSize {
		return newFrameTooLargeError(len(message), MaxMessageSize, message)
	}

	t.writeLock.Lock()
	defer t.writeLock.Unlock()

	resultCh := make(chan error, 1)
	go func() {
		t.logger.Debug("Writing NDJSON frame.", "size", len(message), "preview", calculatePreview(message))
		if _, err := t.writer.Write(message); err != nil {
			resultCh <- err
			return
		}
		_, err := t.writer.Write([]byte{'\n'})
		resultCh <- err
	}()

	select {
	case <-ctx.Done():
		return newTimeoutError("write", ctx.Err())
	case err := <-resultCh:
		if err != nil {
			return newIOError("write", err)
		}
		return nil
	}
}

// Close marks the transport closed and releases the underlying stream.
// Safe to call more than once; later calls are no-ops.
func (t *NDJSONTransport) Close() error {
	var closeErr error
	t.closeOnce.Do(func() {
		close(t.closed)
		t.logger.Info("Closing NDJSON transport.")
		if t.closer != nil {
			if err := t.closer.Close(); err != nil {
				closeErr = newIOError("close", err)
			}
		}
	})
	return closeErr
}
