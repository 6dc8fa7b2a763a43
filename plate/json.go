package plate

import (
	"encoding/json"
	"fmt"
)

// The wire shape is the flat object format the editor runtime expects: text
// runs are {"text": ...} plus boolean mark keys, elements are {"type": ...,
// "children": [...]} plus inline attributes. encoding/json sorts map keys, so
// marshalling is deterministic.

// MarshalJSON encodes the run as a flat object with inline mark flags.
func (t *TextRun) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(t.Marks)+1)
	obj["text"] = t.Text
	for mark, on := range t.Marks {
		if on {
			obj[mark] = true
		}
	}
	return json.Marshal(obj)
}

// UnmarshalJSON decodes a flat text object; every true boolean key other than
// "text" is treated as a mark flag.
func (t *TextRun) UnmarshalJSON(data []byte) error {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	text, _ := obj["text"].(string)
	t.Text = text
	t.Marks = nil
	for key, value := range obj {
		if key == "text" {
			continue
		}
		if on, ok := value.(bool); ok && on {
			t.SetMark(key)
		}
	}
	return nil
}

// MarshalJSON encodes the element with its attributes inlined next to type
// and children.
func (e *Element) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(e.Attrs)+2)
	obj["type"] = e.Type
	children := e.Children
	if len(children) == 0 {
		children = []Node{&TextRun{Text: ""}}
	}
	obj["children"] = children
	for name, value := range e.Attrs {
		if name == "type" || name == "children" {
			continue
		}
		obj[name] = value
	}
	return json.Marshal(obj)
}

// UnmarshalJSON decodes an element object, recursing into children and keeping
// every remaining key as an attribute.
func (e *Element) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	if raw, ok := obj["type"]; ok {
		if err := json.Unmarshal(raw, &e.Type); err != nil {
			return fmt.Errorf("plate: element type: %w", err)
		}
	}

	e.Children = nil
	if raw, ok := obj["children"]; ok {
		children, err := decodeNodes(raw)
		if err != nil {
			return err
		}
		e.Children = children
	}
	if len(e.Children) == 0 {
		e.Children = []Node{&TextRun{Text: ""}}
	}

	e.Attrs = nil
	for key, raw := range obj {
		if key == "type" || key == "children" {
			continue
		}
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("plate: element attribute %q: %w", key, err)
		}
		e.SetAttr(key, value)
	}
	return nil
}

// UnmarshalJSON decodes a document tree from its array form.
func (v *Value) UnmarshalJSON(data []byte) error {
	nodes, err := decodeNodes(data)
	if err != nil {
		return err
	}
	*v = nodes
	return nil
}

func decodeNodes(data []byte) ([]Node, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	nodes := make([]Node, 0, len(raws))
	for _, raw := range raws {
		node, err := decodeNode(raw)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// decodeNode inspects the object for a "type" key to decide between element
// and text run.
func decodeNode(data []byte) (Node, error) {
	var probe struct {
		Type *string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	if probe.Type != nil {
		element := &Element{}
		if err := element.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return element, nil
	}
	run := &TextRun{}
	if err := run.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return run, nil
}
