// file: internal/jsonrpc/peek.go
package jsonrpc

import (
	"encoding/json"

	"github.com/dkoosis/mcpsdk/internal/mcptypes"
)

// PeekID makes a best-effort attempt to recover the id field from bytes that
// failed full envelope parsing, so the session can still reply with a
// protocol-error Response instead of silently dropping the message, per
// §4.2: "If the message cannot be attributed to an id, log and drop."
func PeekID(data []byte) (mcptypes.RequestID, bool) {
	var partial struct {
		ID *mcptypes.RequestID `json:"id"`
	}
	if err := json.Unmarshal(data, &partial); err != nil || partial.ID == nil {
		return mcptypes.RequestID{}, false
	}
	return *partial.ID, true
}
