// file: internal/session/pipe_test.go
package session

import (
	"context"
	"errors"
	"io"
	"sync"
)

// pipeTransport is an in-memory, channel-backed transport.Transport used to
// exercise a Session's handshake and call paths without a real socket or
// pipe. newPipePair returns two ends already wired to each other.
type pipeTransport struct {
	out    chan []byte
	in     chan []byte
	closed chan struct{}
	once   sync.Once
}

func newPipePair() (*pipeTransport, *pipeTransport) {
	ab := make(chan []byte, 64)
	ba := make(chan []byte, 64)
	a := &pipeTransport{out: ab, in: ba, closed: make(chan struct{})}
	b := &pipeTransport{out: ba, in: ab, closed: make(chan struct{})}
	return a, b
}

func (p *pipeTransport) ReadMessage(ctx context.Context) ([]byte, error) {
	select {
	case msg, ok := <-p.in:
		if !ok {
			return nil, io.EOF
		}
		return msg, nil
	case <-p.closed:
		return nil, io.EOF
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *pipeTransport) WriteMessage(ctx context.Context, msg []byte) error {
	cp := append([]byte(nil), msg...)
	select {
	case p.out <- cp:
		return nil
	case <-p.closed:
		return errors.New("pipeTransport: closed")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *pipeTransport) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}
