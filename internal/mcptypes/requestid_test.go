// file: internal/mcptypes/requestid_test.go
package mcptypes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDRoundTripNumber(t *testing.T) {
	id := NewNumberID(42)
	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, "42", string(data))

	var decoded RequestID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, id.Equal(decoded))
	assert.False(t, decoded.IsString())
	assert.Equal(t, int64(42), decoded.Int64())
}

func TestRequestIDRoundTripString(t *testing.T) {
	id := NewStringID("req-7")
	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"req-7"`, string(data))

	var decoded RequestID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, id.Equal(decoded))
	assert.True(t, decoded.IsString())
	assert.Equal(t, "req-7", decoded.String())
}

func TestRequestIDRejectsFractional(t *testing.T) {
	var decoded RequestID
	err := json.Unmarshal([]byte("1.5"), &decoded)
	assert.Error(t, err)
}

func TestRequestIDRejectsNull(t *testing.T) {
	var decoded RequestID
	err := json.Unmarshal([]byte("null"), &decoded)
	assert.Error(t, err)
}

func TestRequestIDNotEqualAcrossVariants(t *testing.T) {
	num := NewNumberID(7)
	str := NewStringID("7")
	assert.False(t, num.Equal(str))
}

func TestEncodeDecodeCursor(t *testing.T) {
	assert.Equal(t, "", EncodeCursor(0))
	cursor := EncodeCursor(20)
	assert.NotEmpty(t, cursor)

	offset, err := DecodeCursor(cursor)
	require.NoError(t, err)
	assert.Equal(t, 20, offset)

	offset, err = DecodeCursor("")
	require.NoError(t, err)
	assert.Equal(t, 0, offset)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	_, err := DecodeCursor("not-valid-base64!!")
	assert.Error(t, err)
}

func TestContentBlockValidate(t *testing.T) {
	assert.NoError(t, NewTextContent("hi").Validate())
	assert.Error(t, ContentBlock{Type: ContentTypeImage}.Validate())
	assert.NoError(t, NewImageContent("YQ==", "image/png").Validate())
	assert.Error(t, ContentBlock{Type: "bogus"}.Validate())
}

func TestContentBlockMarshalOmitsOtherVariants(t *testing.T) {
	data, err := json.Marshal(NewTextContent("hi"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"text","text":"hi"}`, string(data))
}
