// file: internal/mcptypes/content.go
package mcptypes

import (
	"encoding/json"
	"fmt"
)

// Content block discriminator values.
const (
	ContentTypeText     = "text"
	ContentTypeImage    = "image"
	ContentTypeResource = "resource"
)

// ContentBlock is a tagged union over text, image, and embedded-resource
// content. Type is the discriminator; exactly the fields matching Type are
// meaningful. A real SDK would model this as separate structs with a common
// interface, but the wire shape is flat with a "type" field, so that is how
// it round-trips through JSON.
type ContentBlock struct {
	Type string `json:"type"`

	// Present when Type == ContentTypeText.
	Text string `json:"text,omitempty"`

	// Present when Type == ContentTypeImage.
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mimeType,omitempty"`

	// Present when Type == ContentTypeResource.
	Resource *ResourceContentsRef `json:"resource,omitempty"`
}

// ResourceContentsRef embeds a resource's contents inline within a
// ContentBlock of type "resource".
type ResourceContentsRef struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"`
}

// NewTextContent builds a text ContentBlock.
func NewTextContent(text string) ContentBlock {
	return ContentBlock{Type: ContentTypeText, Text: text}
}

// NewImageContent builds an image ContentBlock; data is base64-encoded.
func NewImageContent(data, mimeType string) ContentBlock {
	return ContentBlock{Type: ContentTypeImage, Data: data, MimeType: mimeType}
}

// NewResourceContent builds a resource ContentBlock.
func NewResourceContent(ref ResourceContentsRef) ContentBlock {
	return ContentBlock{Type: ContentTypeResource, Resource: &ref}
}

// Validate reports an error if the discriminator doesn't match a known
// variant or the corresponding fields are absent.
func (c ContentBlock) Validate() error {
	switch c.Type {
	case ContentTypeText:
		return nil
	case ContentTypeImage:
		if c.Data == "" {
			return fmt.Errorf("mcptypes: image content block missing data")
		}
		return nil
	case ContentTypeResource:
		if c.Resource == nil {
			return fmt.Errorf("mcptypes: resource content block missing resource")
		}
		return nil
	default:
		return fmt.Errorf("mcptypes: unknown content block type %q", c.Type)
	}
}

var _ json.Marshaler = ContentBlock{}

// MarshalJSON omits variant fields that don't belong to the block's type, so
// a text block never serializes an empty "data" key, etc.
func (c ContentBlock) MarshalJSON() ([]byte, error) {
	type wire struct {
		Type     string               `json:"type"`
		Text     string               `json:"text,omitempty"`
		Data     string               `json:"data,omitempty"`
		MimeType string               `json:"mimeType,omitempty"`
		Resource *ResourceContentsRef `json:"resource,omitempty"`
	}
	w := wire{Type: c.Type}
	switch c.Type {
	case ContentTypeText:
		w.Text = c.Text
	case ContentTypeImage:
		w.Data = c.Data
		w.MimeType = c.MimeType
	case ContentTypeResource:
		w.Resource = c.Resource
	}
	return json.Marshal(w)
}
