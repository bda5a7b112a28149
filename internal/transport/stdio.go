// file: internal/transport/stdio.go
package transport

import (
	"io"
	"os"

	"github.com/dkoosis/mcpsdk/internal/logging"
)

// stdioCloser closes stdin's read side without touching stdout, since the
// two are independent pipes in the process io model; closing stdout on a
// stdio-bound transport would kill the write side a peer might still be
// draining.
type stdioCloser struct{}

func (stdioCloser) Close() error {
	return os.Stdin.Close()
}

// NewStdioTransport creates an NDJSON Transport bound to the current
// process's stdin (read) and stdout (write). Per §4.1, stderr is
// deliberately not part of the channel: components wanting to log should go
// through internal/logging, which defaults to stderr.
func NewStdioTransport(logger logging.Logger) Transport {
	return NewNDJSONTransport(os.Stdin, os.Stdout, stdioCloser{}, logger)
}

var _ io.Closer = stdioCloser{}
