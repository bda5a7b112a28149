// Package schema handles loading, compiling, and validating MCP JSON
// schemas. A Validator owns one compiled schema document — either the
// default embedded copy or an operator-supplied override — and answers
// Validate/HasSchema calls against it for the lifetime of a session.
// file: internal/schema/validator.go
package schema

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dkoosis/mcpsdk/internal/config"
	"github.com/dkoosis/mcpsdk/internal/logging"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var embeddedSchema []byte

// ValidatorInterface is the schema-checking surface pkg/mcpvalidate and
// pkg/mcp's WithSchemaValidation depend on.
// Exported as an interface so tests can substitute a fake without pulling
// in the jsonschema compiler.
type ValidatorInterface interface {
	// Validate reports whether data conforms to the schema registered for
	// messageType, after first confirming data is syntactically valid JSON.
	Validate(ctx context.Context, messageType string, data []byte) error
	// HasSchema reports whether a compiled definition exists under name.
	HasSchema(name string) bool
	// IsInitialized reports whether Initialize has completed successfully.
	IsInitialized() bool
	// Initialize loads and compiles the configured schema source. Must
	// succeed before Validate or HasSchema return meaningful results.
	Initialize(ctx context.Context) error
	GetLoadDuration() time.Duration
	GetCompileDuration() time.Duration
	GetSchemaVersion() string
	Shutdown() error
}

// Validator compiles an MCP JSON schema document once and serves Validate
// calls against the cached, per-definition compiled schemas.
type Validator struct {
	cfg    config.SchemaConfig
	logger logging.Logger

	mu          sync.RWMutex
	compiler    *jsonschema.Compiler
	schemas     map[string]*jsonschema.Schema
	initialized bool
	version     string

	httpClient     *http.Client
	loadDuration   time.Duration
	compileElapsed time.Duration
}

var _ ValidatorInterface = (*Validator)(nil)

func newCompiler() *jsonschema.Compiler {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	c.AssertFormat = true
	c.AssertContent = true
	return c
}

// NewValidator builds a Validator bound to cfg; it holds no schema until
// Initialize is called.
func NewValidator(cfg config.SchemaConfig, logger logging.Logger) *Validator {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	return &Validator{
		cfg:        cfg,
		compiler:   newCompiler(),
		schemas:    make(map[string]*jsonschema.Schema),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.WithField("component", "schema_validator"),
	}
}

// Initialize is idempotent: a second call after a successful first is a
// no-op, matching the Session lifecycle where handshake retries must not
// recompile the schema.
func (v *Validator) Initialize(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.initialized {
		v.logger.Debug("Schema validator already initialized.")
		return nil
	}

	start := time.Now()
	data, source, err := v.loadSchemaDocument(ctx)
	if err != nil {
		return err
	}
	v.loadDuration = time.Since(start)
	v.logger.Info("Schema source loaded.", "source", source, "sizeBytes", len(data), "duration", v.loadDuration)

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return NewValidationError(ErrSchemaLoadFailed, "failed to parse schema JSON", err).
			WithContext("source", source)
	}
	v.version = detectSchemaVersion(data)

	compileStart := time.Now()
	schemas, err := v.compile(data, doc)
	v.compileElapsed = time.Since(compileStart)
	if err != nil {
		v.logger.Error("Schema compilation failed.", "duration", v.compileElapsed, "error", err)
		return err
	}

	v.schemas = schemas
	v.initialized = true
	v.logger.Info("Schema validator initialized.",
		"loadDuration", v.loadDuration, "compileDuration", v.compileElapsed,
		"schemaVersion", v.version, "definitionCount", len(v.schemas), "source", source)
	return nil
}

// loadSchemaDocument resolves which bytes to compile: the override URI if
// one is configured and reachable, falling back to the embedded default
// when the override is specifically missing (not for other load failures,
// which remain fatal).
func (v *Validator) loadSchemaDocument(ctx context.Context) (data []byte, source string, err error) {
	if v.cfg.SchemaOverrideURI == "" {
		return v.embedded()
	}

	loaded, loadErr := loadSchemaFromURI(ctx, v.cfg.SchemaOverrideURI, v.logger, v.httpClient)
	if loadErr == nil {
		return loaded, "override:" + v.cfg.SchemaOverrideURI, nil
	}

	if !isNotFoundError(loadErr) {
		return nil, "", errors.Wrapf(loadErr, "failed to load schema override %q", v.cfg.SchemaOverrideURI)
	}
	v.logger.Warn("Schema override not found, falling back to embedded schema.", "uri", v.cfg.SchemaOverrideURI)
	return v.embedded()
}

func (v *Validator) embedded() ([]byte, string, error) {
	if len(embeddedSchema) == 0 {
		return nil, "", NewValidationError(ErrSchemaLoadFailed, "embedded schema is empty", nil)
	}
	return embeddedSchema, "embedded", nil
}

func isNotFoundError(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) && ve.Code == ErrSchemaNotFound {
		return true
	}
	return os.IsNotExist(errors.Cause(err))
}

// compile registers data as a compiler resource, compiles the base document
// plus every "definitions" entry, and layers in the generic aliases
// (addGenericMappings).
func (v *Validator) compile(data []byte, doc map[string]interface{}) (map[string]*jsonschema.Schema, error) {
	v.compiler = newCompiler()
	const resourceID = "mcp://schema.json"
	if err := v.compiler.AddResource(resourceID, bytes.NewReader(data)); err != nil {
		return nil, NewValidationError(ErrSchemaLoadFailed, "failed to register schema resource", err)
	}

	compiled := make(map[string]*jsonschema.Schema)
	base, err := v.compiler.Compile(resourceID)
	if err != nil {
		return nil, NewValidationError(ErrSchemaCompileFailed, "failed to compile base schema", err)
	}
	compiled["base"] = base

	defs, _ := doc["definitions"].(map[string]interface{})
	var firstDefErr error
	for name := range defs {
		pointer := resourceID + "#/definitions/" + name
		schema, err := v.compiler.Compile(pointer)
		if err != nil {
			v.logger.Warn("Failed to compile schema definition.", "name", name, "error", err)
			if firstDefErr == nil {
				firstDefErr = NewValidationError(ErrSchemaCompileFailed,
					fmt.Sprintf("failed to compile definition %q", name), err)
			}
			continue
		}
		compiled[name] = schema
	}

	addGenericMappings(compiled, v.logger)
	return compiled, firstDefErr
}

// genericAliases maps a convenience name to the definition names (tried in
// order) it should resolve to when present in a compiled schema set.
var genericAliases = map[string][]string{
	"success_response":        {"JSONRPCResponse", "Response"},
	"error_response":          {"JSONRPCError", "Error"},
	"ping_notification":       {"PingRequest", "PingNotification", "JSONRPCNotification"},
	"notification":            {"JSONRPCNotification", "Notification"},
	"request":                 {"JSONRPCRequest", "Request"},
	"CallToolResult":          {"CallToolResult", "ToolResult"},
	"initialize_response":     {"InitializeResult"},
	"tools/list_response":     {"ListToolsResult"},
	"resources/list_response": {"ListResourcesResult"},
	"prompts/list_response":   {"ListPromptsResult"},
}

func addGenericMappings(compiled map[string]*jsonschema.Schema, logger logging.Logger) {
	var added []string
	for alias, targets := range genericAliases {
		if _, exists := compiled[alias]; exists {
			continue
		}
		for _, target := range targets {
			if schema, ok := compiled[target]; ok {
				compiled[alias] = schema
				added = append(added, alias+"->"+target)
				break
			}
		}
	}
	if len(added) > 0 {
		logger.Debug("Registered generic schema aliases.", "aliases", added)
	}
}

func (v *Validator) GetLoadDuration() time.Duration {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loadDuration
}

func (v *Validator) GetCompileDuration() time.Duration {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.compileElapsed
}

// Shutdown releases the HTTP client's idle connections and clears the
// compiled schema cache. A subsequent Initialize call recompiles from
// scratch.
func (v *Validator) Shutdown() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.initialized {
		return nil
	}
	v.httpClient.CloseIdleConnections()
	v.schemas = nil
	v.initialized = false
	v.version = ""
	v.logger.Info("Schema validator shut down.")
	return nil
}

func (v *Validator) IsInitialized() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.initialized
}

// Validate parses data as JSON, resolves the compiled schema for
// messageType (falling back through resolveSchema's chain), and validates
// the parsed instance against it.
func (v *Validator) Validate(_ context.Context, messageType string, data []byte) error {
	if !v.IsInitialized() {
		return NewValidationError(ErrSchemaNotFound, "schema validator not initialized", nil)
	}

	var instance interface{}
	if err := json.Unmarshal(data, &instance); err != nil {
		return NewValidationError(ErrInvalidJSONFormat, "invalid JSON", err).
			WithContext("messageType", messageType).
			WithContext("dataPreview", calculatePreview(data))
	}

	schema, usedKey, ok := v.resolveSchema(messageType)
	if !ok {
		v.mu.RLock()
		keys := schemaKeys(v.schemas)
		v.mu.RUnlock()
		return NewValidationError(ErrSchemaNotFound,
			fmt.Sprintf("no schema definition for message type %q", messageType), nil).
			WithContext("messageType", messageType).WithContext("availableSchemas", keys)
	}

	start := time.Now()
	err := schema.Validate(instance)
	elapsed := time.Since(start)

	if err == nil {
		v.logger.Debug("Validated message.", "messageType", messageType, "schema", usedKey, "duration", elapsed)
		return nil
	}

	var jsErr *jsonschema.ValidationError
	if errors.As(err, &jsErr) {
		v.logger.Debug("Message failed schema validation.", "messageType", messageType, "schema", usedKey, "error", jsErr.Message)
		return convertValidationError(jsErr, messageType, data)
	}
	v.logger.Error("Unexpected error from schema.Validate.", "messageType", messageType, "schema", usedKey, "error", err)
	return NewValidationError(ErrValidationFailed, "validation failed unexpectedly", err).
		WithContext("messageType", messageType).WithContext("dataPreview", calculatePreview(data))
}

// resolveSchema picks the compiled definition for messageType: an exact
// match first, then a fallback keyed off naming convention
// (notifications/*, *Response/*Result, else request), then "base".
func (v *Validator) resolveSchema(messageType string) (*jsonschema.Schema, string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if schema, ok := v.schemas[messageType]; ok {
		return schema, messageType, true
	}

	for _, key := range fallbackChain(messageType) {
		if schema, ok := v.schemas[key]; ok {
			v.logger.Debug("Using fallback schema.", "messageType", messageType, "fallback", key)
			return schema, key, true
		}
	}
	return nil, "", false
}

// fallbackChain returns, in preference order, the generic schema keys worth
// trying for messageType before giving up. "base" is always last.
func fallbackChain(messageType string) []string {
	switch {
	case strings.HasSuffix(messageType, "_notification"), strings.HasPrefix(messageType, "notifications/"):
		return []string{"JSONRPCNotification", "base"}
	case strings.Contains(messageType, "Error"), strings.HasSuffix(messageType, "_error"):
		return []string{"JSONRPCError", "JSONRPCResponse", "base"}
	case strings.Contains(messageType, "Response"), strings.Contains(messageType, "Result"),
		strings.HasSuffix(messageType, "_response"), strings.HasSuffix(messageType, "_result"):
		return []string{"JSONRPCResponse", "base"}
	default:
		return []string{"JSONRPCRequest", "base"}
	}
}

func (v *Validator) HasSchema(name string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.schemas[name]
	return ok
}

func schemaKeys(schemas map[string]*jsonschema.Schema) []string {
	keys := make([]string, 0, len(schemas))
	for k := range schemas {
		keys = append(keys, k)
	}
	return keys
}

// GetSchemaVersion returns the detected schema revision, or "[unknown]" if
// detection failed or Initialize hasn't run.
func (v *Validator) GetSchemaVersion() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.version == "" {
		return unknownSchemaVersion
	}
	return v.version
}
