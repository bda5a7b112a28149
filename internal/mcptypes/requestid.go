// Package mcptypes defines the wire-visible envelope and MCP parameter/result
// shapes shared by the transport, session, and session group packages.
// file: internal/mcptypes/requestid.go
package mcptypes

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// RequestID is the sum type JSON-RPC 2.0 uses for request/response
// correlation: either a number or a string. The zero value is the number 0,
// which the handshake uses as its id by convention.
//
// A plain interface{} (or json.RawMessage) id works but scatters type
// switches everywhere an id is compared or logged; RequestID centralizes
// that once, at the marshal boundary.
type RequestID struct {
	isString bool
	num      int64
	str      string
}

// NewNumberID builds a numeric RequestID.
func NewNumberID(n int64) RequestID {
	return RequestID{num: n}
}

// NewStringID builds a string RequestID.
func NewStringID(s string) RequestID {
	return RequestID{isString: true, str: s}
}

// IsString reports whether the id was carried as a JSON string.
func (id RequestID) IsString() bool { return id.isString }

// Int64 returns the numeric value. Only meaningful when IsString is false.
func (id RequestID) Int64() int64 { return id.num }

// String returns the string value when IsString is true, otherwise the
// decimal rendering of the numeric value. Used for map keys and log fields.
func (id RequestID) String() string {
	if id.isString {
		return id.str
	}
	return strconv.FormatInt(id.num, 10)
}

// MarshalJSON preserves the variant: numeric ids are emitted as JSON
// numbers, string ids as JSON strings.
func (id RequestID) MarshalJSON() ([]byte, error) {
	if id.isString {
		return json.Marshal(id.str)
	}
	return json.Marshal(id.num)
}

// UnmarshalJSON accepts a JSON number or JSON string. JSON numbers without a
// fractional part decode as int64; numbers with a fractional part are
// rejected, since JSON-RPC ids are never fractional.
func (id *RequestID) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		id.isString = true
		id.str = v
		id.num = 0
		return nil
	case float64:
		if v != float64(int64(v)) {
			return fmt.Errorf("mcptypes: request id %v is not an integer", v)
		}
		id.isString = false
		id.num = int64(v)
		id.str = ""
		return nil
	case nil:
		return fmt.Errorf("mcptypes: request id must not be null")
	default:
		return fmt.Errorf("mcptypes: request id must be a string or number, got %T", raw)
	}
}

// Equal reports whether two ids have the same variant and value.
func (id RequestID) Equal(other RequestID) bool {
	if id.isString != other.isString {
		return false
	}
	if id.isString {
		return id.str == other.str
	}
	return id.num == other.num
}
