// Package mcperror defines error types, codes, and utilities for MCP and JSON-RPC.
// file: internal/mcperror/codes.go
package mcperror

// Categories for grouping similar errors.
const (
	CategoryResource  = "resource"  // Resource-related errors.
	CategoryTool      = "tool"      // Tool-related errors.
	CategoryPrompt    = "prompt"    // Prompt-related errors.
	CategoryRPC       = "rpc"       // JSON-RPC envelope errors.
	CategoryTransport = "transport" // Framing/transport errors.
	CategoryProtocol  = "protocol"  // Handshake/version negotiation errors.
	CategorySession   = "session"   // Session lifecycle/state errors.
	CategoryGroup     = "group"     // Session group aggregation errors.
	CategoryConfig    = "config"    // Configuration errors.
	CategorySchema    = "schema"    // Schema loading/compilation/validation errors.
)

// Error codes aligned with JSON-RPC 2.0 and the MCP extensions to it.
const (
	// Standard JSON-RPC 2.0 error codes (-32768 to -32000 reserved).
	CodeParseError     = -32700 // Invalid JSON received.
	CodeInvalidRequest = -32600 // Invalid request object.
	CodeMethodNotFound = -32601 // Method not found.
	CodeInvalidParams  = -32602 // Invalid method parameters.
	CodeInternalError  = -32603 // Internal JSON-RPC error.

	// MCP-specific codes, per spec.md §6.
	CodeServerNotInitialized = -32002 // Request received before handshake completed.
	CodeRequestCancelled     = -32001 // Outbound call was cancelled locally.

	// Implementation-reserved range (-32000 to -32099).
	CodeResourceNotFound = -32000 // Requested resource not found.
	CodeToolNotFound     = -32010 // Requested tool not found.
	CodePromptNotFound   = -32011 // Requested prompt not found.
	CodeInvalidArguments = -32020 // Invalid arguments provided to a tool/prompt call.
	CodeTimeoutError     = -32030 // Operation timed out.
	CodeProtocolMismatch = -32040 // Handshake protocol version negotiation failed.
	CodeConnectionClosed = -32050 // Session is closed; pending call failed.
	CodeNameCollision    = -32060 // Duplicate registration (session name, prefixed tool name, method).
	CodeFrameTooLarge    = -32070 // Inbound/outbound frame exceeded the transport's size limit.

	// Schema stage codes (-32080 to -32089).
	CodeSchemaNotFound     = -32080 // No compiled schema definition for the requested message type.
	CodeSchemaLoadFailed   = -32081 // Schema source could not be read.
	CodeSchemaCompileFailed = -32082 // Schema source failed to compile.
	CodeValidationFailed   = -32083 // Instance data violated the compiled schema.
	CodeInvalidJSONFormat  = -32084 // Instance data was not syntactically valid JSON.
)

// UserFacingMessage returns a short, non-sensitive message for a given code,
// suitable for the "message" field of a JSON-RPC error response.
func UserFacingMessage(code int) string {
	switch code {
	case CodeParseError:
		return "Parse error"
	case CodeInvalidRequest:
		return "Invalid Request"
	case CodeMethodNotFound:
		return "Method not found"
	case CodeInvalidParams:
		return "Invalid params"
	case CodeServerNotInitialized:
		return "Server not initialized"
	case CodeRequestCancelled:
		return "Request cancelled"
	case CodeResourceNotFound:
		return "Resource not found"
	case CodeToolNotFound:
		return "Tool not found"
	case CodePromptNotFound:
		return "Prompt not found"
	case CodeInvalidArguments:
		return "Invalid arguments"
	case CodeTimeoutError:
		return "Request timed out"
	case CodeProtocolMismatch:
		return "Protocol version mismatch"
	case CodeConnectionClosed:
		return "Connection closed"
	case CodeNameCollision:
		return "Name collision"
	case CodeFrameTooLarge:
		return "Frame too large"
	case CodeSchemaNotFound:
		return "Schema not found"
	case CodeSchemaLoadFailed:
		return "Schema load failed"
	case CodeSchemaCompileFailed:
		return "Schema compile failed"
	case CodeValidationFailed:
		return "Schema validation failed"
	case CodeInvalidJSONFormat:
		return "Invalid JSON format"
	default:
		return "Internal error"
	}
}
