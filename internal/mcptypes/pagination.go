// file: internal/mcptypes/pagination.go
package mcptypes

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// EncodeCursor produces an opaque cursor token for an offset into a list.
// The spec defines the Paginated wire shape but not how a cursor is
// produced; this SDK encodes it as a base64 offset token rather than
// exposing the raw integer, so a host can change the encoding later
// without breaking the wire contract.
func EncodeCursor(offset int) string {
	if offset <= 0 {
		return ""
	}
	raw := strconv.Itoa(offset)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor recovers the offset encoded by EncodeCursor. An empty cursor
// decodes to offset 0 (first page).
func DecodeCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, errors.Wrap(err, "mcptypes: malformed cursor")
	}
	offset, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, errors.Wrap(err, "mcptypes: malformed cursor")
	}
	if offset < 0 {
		return 0, errors.Newf("mcptypes: cursor decodes to negative offset %d", offset)
	}
	return offset, nil
}
