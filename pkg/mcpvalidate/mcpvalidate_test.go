// file: pkg/mcpvalidate/mcpvalidate_test.go
package mcpvalidate

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/mcpsdk/internal/session"
)

// fakeValidator is a minimal schema.ValidatorInterface double so these
// tests don't depend on the embedded schema document's actual contents.
type fakeValidator struct {
	known     map[string]bool
	failNames map[string]bool
}

func (f *fakeValidator) Validate(_ context.Context, messageType string, _ []byte) error {
	if f.failNames[messageType] {
		return errors.New("validation failed")
	}
	return nil
}
func (f *fakeValidator) HasSchema(name string) bool          { return f.known[name] }
func (f *fakeValidator) IsInitialized() bool                 { return true }
func (f *fakeValidator) Initialize(context.Context) error    { return nil }
func (f *fakeValidator) GetLoadDuration() time.Duration      { return 0 }
func (f *fakeValidator) GetCompileDuration() time.Duration   { return 0 }
func (f *fakeValidator) GetSchemaVersion() string            { return "test" }
func (f *fakeValidator) Shutdown() error                     { return nil }

func countingHandler(calls *int) session.RequestHandler {
	return func(_ context.Context, _ json.RawMessage) (interface{}, error) {
		*calls++
		return "ok", nil
	}
}

func TestWrapPassesThroughWhenNoSchemaConfigured(t *testing.T) {
	m := New(&fakeValidator{known: map[string]bool{}})
	var calls int
	wrapped := m.Wrap("ping", countingHandler(&calls))

	result, err := wrapped(context.Background(), json.RawMessage(`{"name":"echo"}`))
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
}

func TestWrapPassesThroughWhenValidatorLacksDefinition(t *testing.T) {
	m := New(&fakeValidator{known: map[string]bool{}})
	var calls int
	wrapped := m.Wrap("tools/call", countingHandler(&calls))

	_, err := wrapped(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWrapRejectsInvalidParams(t *testing.T) {
	m := New(&fakeValidator{
		known:     map[string]bool{"CallToolRequest": true},
		failNames: map[string]bool{"CallToolRequest": true},
	})
	var calls int
	wrapped := m.Wrap("tools/call", countingHandler(&calls))

	_, err := wrapped(context.Background(), json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Equal(t, 0, calls)
}

func TestWrapAllOnlyWrapsConfiguredMethods(t *testing.T) {
	m := New(&fakeValidator{
		known:     map[string]bool{"CallToolRequest": true},
		failNames: map[string]bool{"CallToolRequest": true},
	})
	var toolCalls, pingCalls int
	handlers := map[string]session.RequestHandler{
		"tools/call": countingHandler(&toolCalls),
		"ping":       countingHandler(&pingCalls),
	}
	wrapped := m.WrapAll(handlers)

	_, err := wrapped["tools/call"](context.Background(), json.RawMessage(`{}`))
	require.Error(t, err)

	_, err = wrapped["ping"](context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Equal(t, 1, pingCalls)
}

func TestWithMethodSchemaExtendsMapping(t *testing.T) {
	m := New(&fakeValidator{known: map[string]bool{"CustomRequest": true}})
	m.WithMethodSchema("custom/do", "CustomRequest")
	var calls int
	wrapped := m.Wrap("custom/do", countingHandler(&calls))

	_, err := wrapped(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
