// file: internal/transport/lsp.go
package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/dkoosis/mcpsdk/internal/logging"
)

const contentLengthHeader = "Content-Length"

// LSPTransport implements Transport using the Content-Length-prefixed
// framing the Language Server Protocol uses: each message is preceded by
// HTTP-style headers terminated by a blank line, with Content-Length giving
// the exact body size in bytes. Unknown headers are ignored.
type LSPTransport struct {
	reader    *bufio.Reader
	writer    io.Writer
	closer    io.Closer
	logger    logging.Logger
	writeLock sync.Mutex
	closed    bool
	closeLock sync.RWMutex
}

// NewLSPTransport creates a Transport that frames messages LSP-style over
// reader/writer, closing closer on Close.
func NewLSPTransport(reader io.Reader, writer io.Writer, closer io.Closer, logger logging.Logger) Transport {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	return &LSPTransport{
		reader: bufio.NewReader(reader),
		writer: writer,
		closer: closer,
		logger: logger.WithField("component", "lsp_transport"),
	}
}

func (t *LSPTransport) isClosed() bool {
	t.closeLock.RLock()
	defer t.closeLock.RUnlock()
	return t.closed
}

// ReadMessage reads one Content-Length-framed message.
func (t *LSPTransport) ReadMessage(ctx context.Context) ([]byte, error) {
	if t.isClosed() {
		return nil, newClosedError("read")
	}

	type readResult struct {
		data []byte
		err  error
	}
	resultCh := make(chan readResult, 1)

	go func() {
		contentLength := -1
		for {
			line, err := t.reader.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					resultCh <- readResult{nil, newPeerClosedError(err)}
				} else {
					resultCh <- readResult{nil, newIOError("read", err)}
				}
				return
			}
			line = strings.TrimRight(line, "\r\n")
			if line == "" {
				break // blank line: end of headers
			}
			name, value, ok := strings.Cut(line, ":")
			if !ok {
				resultCh <- readResult{nil, newMalformedFrameError(nil, []byte(line))}
				return
			}
			if strings.EqualFold(strings.TrimSpace(name), contentLengthHeader) {
				n, convErr := strconv.Atoi(strings.TrimSpace(value))
				if convErr != nil {
					resultCh <- readResult{nil, newMalformedFrameError(convErr, []byte(line))}
					return
				}
				contentLength = n
			}
			// Unknown headers (e.g. Content-Type) are ignored.
		}

		if contentLength < 0 {
			resultCh <- readResult{nil, newMalformedFrameError(nil, []byte("missing Content-Length header"))}
			return
		}
		if contentLength > MaxMessageSize {
			resultCh <- readResult{nil, newFrameTooLargeError(contentLength, MaxMessageSize, nil)}
			return
		}

		body := make([]byte, contentLength)
		if _, err := io.ReadFull(t.reader, body); err != nil {
			resultCh <- readResult{nil, newIOError("read", err)}
			return
		}

		t.logger.Debug("Received LSP-framed message.", "size", len(body), "contentPreview", calculatePreview(body))

		if !json.Valid(body) {
			resultCh <- readResult{nil, newMalformedFrameError(nil, body)}
			return
		}
		resultCh <- readResult{body, nil}
	}()

	select {
	case <-ctx.Done():
		return nil, newTimeoutError("read", ctx.Err())
	case result := <-resultCh:
		return result.data, result.err
	}
}

// WriteMessage writes a single message framed with a Content-Length header.
func (t *LSPTransport) WriteMessage(ctx context.Context, message []byte) error {
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
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "%s: %d\r\n\r\n", contentLengthHeader, len(message))
		buf.Write(message)
		_, err := t.writer.Write(buf.Bytes())
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

// Close marks the transport closed and closes the underlying stream.
func (t *LSPTransport) Close() error {
	t.closeLock.Lock()
	defer t.closeLock.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if t.closer != nil {
		if err := t.closer.Close(); err != nil {
			return newIOError("close", err)
		}
	}
	return nil
}
