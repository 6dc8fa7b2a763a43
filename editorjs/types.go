package editorjs

import (
	"encoding/json"
	"fmt"
)

// Document is one legacy editor export: an ordered list of typed blocks.
// Documents are read-only once decoded; the converter never mutates them.
type Document struct {
	Time    *int64  `json:"time,omitempty"`
	Blocks  []Block `json:"blocks"`
	Version string  `json:"version,omitempty"`
}

// Block carries one unit of legacy content. Data is a tagged variant resolved
// from the block type during decoding; exports occasionally contain block
// types this package never supported, those decode to UnknownData and are
// skipped by the converter.
type Block struct {
	ID   string
	Type string
	Data BlockData
}

// BlockData is the per-type payload of a legacy block.
type BlockData interface {
	blockData()
}

// HeaderData backs "header" blocks.
type HeaderData struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// ParagraphData backs "paragraph" blocks.
type ParagraphData struct {
	Text string `json:"text"`
}

// ImageData backs "image" blocks.
type ImageData struct {
	File    ImageFile `json:"file"`
	Caption string    `json:"caption,omitempty"`
}

// ImageFile carries the uploaded file reference of an image block.
type ImageFile struct {
	URL string `json:"url"`
}

// EmbedData backs "embed" blocks.
type EmbedData struct {
	Embed   string `json:"embed"`
	Caption string `json:"caption,omitempty"`
}

// ListData backs "list" blocks. Meta.Start is only present on ordered lists
// that do not begin at 1.
type ListData struct {
	Style string     `json:"style"`
	Items []ListItem `json:"items"`
	Meta  *ListMeta  `json:"meta,omitempty"`
}

// ListMeta carries optional list numbering metadata.
type ListMeta struct {
	Start *int `json:"start,omitempty"`
}

// ListItem is one list entry. Two legacy item shapes exist: plain strings and
// objects with their own nested items; both decode into this struct.
type ListItem struct {
	Content string     `json:"content"`
	Items   []ListItem `json:"items,omitempty"`
}

// UnknownData preserves the raw payload of unsupported block types.
type UnknownData struct {
	Raw json.RawMessage
}

func (HeaderData) blockData()     {}
func (ParagraphData) blockData()  {}
func (ImageData) blockData()      {}
func (EmbedData) blockData()      {}
func (ListData) blockData()       {}
func (UnknownData) blockData()    {}

type blockEnvelope struct {
	ID   string          `json:"id,omitempty"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// UnmarshalJSON decodes the block envelope and resolves the payload variant
// from the block type.
func (b *Block) UnmarshalJSON(data []byte) error {
	var envelope blockEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	b.ID = envelope.ID
	b.Type = envelope.Type

	payload, err := decodeBlockData(envelope.Type, envelope.Data)
	if err != nil {
		return fmt.Errorf("editorjs: block %q data: %w", envelope.Type, err)
	}
	b.Data = payload
	return nil
}

// MarshalJSON re-emits the block in the legacy envelope shape.
func (b Block) MarshalJSON() ([]byte, error) {
	payload := any(b.Data)
	if unknown, ok := b.Data.(UnknownData); ok {
		payload = unknown.Raw
	}
	return json.Marshal(blockEnvelope{
		ID:   b.ID,
		Type: b.Type,
		Data: mustRaw(payload),
	})
}

func decodeBlockData(blockType string, raw json.RawMessage) (BlockData, error) {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	switch blockType {
	case "header":
		var data HeaderData
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
		return data, nil
	case "paragraph":
		var data ParagraphData
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
		return data, nil
	case "image":
		var data ImageData
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
		return data, nil
	case "embed":
		var data EmbedData
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
		return data, nil
	case "list":
		var data ListData
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
		return data, nil
	default:
		return UnknownData{Raw: append(json.RawMessage(nil), raw...)}, nil
	}
}

// UnmarshalJSON accepts both legacy item shapes: a bare string or an object
// with content plus nested items.
func (li *ListItem) UnmarshalJSON(data []byte) error {
	var content string
	if err := json.Unmarshal(data, &content); err == nil {
		li.Content = content
		li.Items = nil
		return nil
	}

	type itemObject ListItem
	var obj itemObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("editorjs: list item: %w", err)
	}
	*li = ListItem(obj)
	return nil
}

func mustRaw(payload any) json.RawMessage {
	if raw, ok := payload.(json.RawMessage); ok {
		return raw
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return json.RawMessage("{}")
	}
	return encoded
}
