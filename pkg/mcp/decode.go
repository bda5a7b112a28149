// file: pkg/mcp/decode.go
package mcp

import (
	"encoding/json"

	"github.com/dkoosis/mcpsdk/internal/mcperror"
)

// decodeResult unmarshals a Session.Call result into dst, wrapping any
// malformed payload as an invalid-arguments error rather than leaking a raw
// encoding/json error to callers of this façade.
func decodeResult(raw json.RawMessage, dst interface{}) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return mcperror.NewInvalidArgumentsError("malformed result payload", map[string]interface{}{"cause": err.Error()})
	}
	return nil
}
