// File: internal/schema/validator_test.go.
package schema

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dkoosis/mcpsdk/internal/config"
	"github.com/dkoosis/mcpsdk/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minValidOverrideSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "TestSchema",
  "type": "object",
  "properties": {
    "jsonrpc": { "const": "2.0" },
    "method": { "type": "string" },
    "id": { "type": ["string", "integer", "null"] }
  },
  "required": ["jsonrpc", "method"]
}`

const invalidOverrideSchemaSyntax = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "InvalidSchema",
  "type": "object",
  "properties": {
    "jsonrpc": { "const": "2.0" },
`

func writeTempSchemaFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test_schema.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewValidatorStartsUninitialized(t *testing.T) {
	v := NewValidator(config.SchemaConfig{}, logging.GetNoopLogger())
	assert.NotNil(t, v.compiler)
	assert.NotNil(t, v.schemas)
	assert.NotNil(t, v.httpClient)
	assert.False(t, v.IsInitialized())
}

func TestInitializeUsesEmbeddedSchemaByDefault(t *testing.T) {
	v := NewValidator(config.SchemaConfig{}, logging.GetNoopLogger())
	require.NoError(t, v.Initialize(context.Background()))
	assert.True(t, v.IsInitialized())
	assert.True(t, v.HasSchema("JSONRPCRequest"))
	assert.True(t, v.HasSchema("request"))
	assert.Equal(t, "2024-11-05", v.GetSchemaVersion())
	assert.NotZero(t, v.GetLoadDuration())
	assert.NotZero(t, v.GetCompileDuration())
}

func TestInitializeFromFileOverride(t *testing.T) {
	path := writeTempSchemaFile(t, minValidOverrideSchema)
	v := NewValidator(config.SchemaConfig{SchemaOverrideURI: "file://" + path}, logging.GetNoopLogger())
	require.NoError(t, v.Initialize(context.Background()))
	assert.True(t, v.IsInitialized())
	assert.True(t, v.HasSchema("base"))
}

func TestInitializeOverrideNotFoundFallsBackToEmbedded(t *testing.T) {
	v := NewValidator(config.SchemaConfig{SchemaOverrideURI: "file:///no/such/schema.json"}, logging.GetNoopLogger())
	require.NoError(t, v.Initialize(context.Background()))
	assert.True(t, v.IsInitialized())
	assert.True(t, v.HasSchema("JSONRPCRequest"))
}

func TestInitializeRejectsInvalidOverrideSyntax(t *testing.T) {
	path := writeTempSchemaFile(t, invalidOverrideSchemaSyntax)
	v := NewValidator(config.SchemaConfig{SchemaOverrideURI: "file://" + path}, logging.GetNoopLogger())
	err := v.Initialize(context.Background())
	require.Error(t, err)
	assert.False(t, v.IsInitialized())
}

func TestInitializeTwiceIsANoop(t *testing.T) {
	v := NewValidator(config.SchemaConfig{}, logging.GetNoopLogger())
	require.NoError(t, v.Initialize(context.Background()))
	require.NoError(t, v.Initialize(context.Background()))
	assert.True(t, v.IsInitialized())
}

func TestValidateSucceedsAgainstRequestSchema(t *testing.T) {
	v := NewValidator(config.SchemaConfig{}, logging.GetNoopLogger())
	require.NoError(t, v.Initialize(context.Background()))

	msg := `{"jsonrpc":"2.0","id":1,"method":"ping"}`
	assert.NoError(t, v.Validate(context.Background(), "JSONRPCRequest", []byte(msg)))
}

func TestValidateFailsOnMissingRequiredField(t *testing.T) {
	v := NewValidator(config.SchemaConfig{}, logging.GetNoopLogger())
	require.NoError(t, v.Initialize(context.Background()))

	msg := `{"jsonrpc":"2.0","id":1}`
	err := v.Validate(context.Background(), "JSONRPCRequest", []byte(msg))
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, ErrValidationFailed, validationErr.Code)
}

func TestValidateFailsOnInvalidJSON(t *testing.T) {
	v := NewValidator(config.SchemaConfig{}, logging.GetNoopLogger())
	require.NoError(t, v.Initialize(context.Background()))

	err := v.Validate(context.Background(), "JSONRPCRequest", []byte(`{"jsonrpc":`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, ErrInvalidJSONFormat, validationErr.Code)
}

func TestValidateBeforeInitializeErrors(t *testing.T) {
	v := NewValidator(config.SchemaConfig{}, logging.GetNoopLogger())
	err := v.Validate(context.Background(), "JSONRPCRequest", []byte(`{}`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, ErrSchemaNotFound, validationErr.Code)
}

func TestShutdownClearsInitializedState(t *testing.T) {
	v := NewValidator(config.SchemaConfig{}, logging.GetNoopLogger())
	require.NoError(t, v.Initialize(context.Background()))

	require.NoError(t, v.Shutdown())
	assert.False(t, v.IsInitialized())
	assert.False(t, v.HasSchema("JSONRPCRequest"))

	require.NoError(t, v.Shutdown())
}
