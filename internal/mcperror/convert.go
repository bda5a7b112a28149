// file: internal/mcperror/convert.go
package mcperror

import (
	"encoding/json"

	"github.com/dkoosis/mcpsdk/internal/mcptypes"
)

// ToJSONRPCError converts an internal error into the wire-level error
// object, the same category/code/properties extraction ErrorToMap performs,
// re-expressed against mcptypes.ErrorObject so session dispatch can embed it
// directly in a Response without re-deriving the map shape.
func ToJSONRPCError(err error) *mcptypes.ErrorObject {
	if err == nil {
		return nil
	}

	code := GetErrorCode(err)
	obj := &mcptypes.ErrorObject{
		Code:    code,
		Message: UserFacingMessage(code),
	}

	dataProps := make(map[string]interface{})
	for k, v := range GetErrorProperties(err) {
		if k == "category" || k == "code" || k == "stack" || containsSensitiveKeyword(k) {
			continue
		}
		dataProps[k] = v
	}
	if len(dataProps) > 0 {
		if raw, marshalErr := json.Marshal(dataProps); marshalErr == nil {
			obj.Data = raw
		}
	}
	return obj
}
