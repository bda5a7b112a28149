// file: internal/mcperror/types_test.go
package mcperror

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToolErrorIsDetectable(t *testing.T) {
	err := NewToolError("tool 'fetch' not found", nil, map[string]interface{}{"tool": "fetch"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrToolNotFound))
	assert.True(t, IsToolNotFoundError(err))
}

func TestNewProtocolMismatchError(t *testing.T) {
	err := NewProtocolMismatchError("no common protocol version", map[string]interface{}{
		"offered":   "2024-11-05",
		"supported": "2023-01-01",
	})
	assert.True(t, errors.Is(err, ErrProtocolMismatch))
}

func TestToJSONRPCErrorNilIsNil(t *testing.T) {
	assert.Nil(t, ToJSONRPCError(nil))
}

func TestToJSONRPCErrorCarriesCode(t *testing.T) {
	err := NewMethodNotFoundError("bogus/method", nil)
	obj := ToJSONRPCError(err)
	require.NotNil(t, obj)
	assert.Equal(t, CodeMethodNotFound, obj.Code)
	assert.Equal(t, "Method not found", obj.Message)
}
