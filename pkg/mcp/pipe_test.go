// file: pkg/mcp/pipe_test.go
package mcp

import (
	"context"
	"errors"
	"sync"
)

var errClosed = errors.New("pipe closed")

// pipeTransport is an in-memory transport.Transport double, paired with
// another pipeTransport via newPipePair so writes on one side become reads
// on the other. Mirrors internal/session's own test double, kept separate
// since it is unexported there.
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
	case msg := <-p.in:
		return msg, nil
	case <-p.closed:
		return nil, errClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *pipeTransport) WriteMessage(ctx context.Context, message []byte) error {
	select {
	case p.out <- message:
		return nil
	case <-p.closed:
		return errClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *pipeTransport) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}
