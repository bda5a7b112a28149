// file: internal/transport/lsp_test.go
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func TestLSPTransportReadMessage(t *testing.T) {
	body := `{"jsonrpc":"2.0","id":1,"method":"ping"}`
	framed := fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)
	r := bytes.NewBufferString(framed)
	tr := NewLSPTransport(r, io.Discard, nopCloser{}, nil)

	msg, err := tr.ReadMessage(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, body, string(msg))
}

func TestLSPTransportMissingContentLength(t *testing.T) {
	framed := "X-Custom: value\r\n\r\n{}"
	r := bytes.NewBufferString(framed)
	tr := NewLSPTransport(r, io.Discard, nopCloser{}, nil)

	_, err := tr.ReadMessage(context.Background())
	assert.Error(t, err)
}

func TestLSPTransportWriteMessage(t *testing.T) {
	var buf bytes.Buffer
	tr := NewLSPTransport(bytes.NewReader(nil), &buf, nopCloser{}, nil)

	msg := []byte(`{"jsonrpc":"2.0","id":1,"method":"ping"}`)
	require.NoError(t, tr.WriteMessage(context.Background(), msg))

	expected := fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(msg), msg)
	assert.Equal(t, expected, buf.String())
}

func TestLSPTransportWriteThenReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	writer := NewLSPTransport(bytes.NewReader(nil), &buf, nopCloser{}, nil)
	msg := []byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	require.NoError(t, writer.WriteMessage(context.Background(), msg))

	reader := NewLSPTransport(bytes.NewReader(buf.Bytes()), io.Discard, nopCloser{}, nil)
	got, err := reader.ReadMessage(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, string(msg), string(got))
}

func TestLSPTransportCloseIsIdempotent(t *testing.T) {
	tr := NewLSPTransport(bytes.NewReader(nil), io.Discard, nopCloser{}, nil)
	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())

	_, err := tr.ReadMessage(context.Background())
	assert.Error(t, err)
}
