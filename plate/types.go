package plate

import "sort"

// Node is one vertex of a document tree: either an *Element or a *TextRun.
type Node interface {
	node()
}

// Value is an ordered forest of nodes, the canonical rich-text representation
// the editor runtime deserializes. Top-level entries are always elements.
type Value []Node

// TextRun is a leaf carrying text plus boolean style marks (bold, italic,
// underline, superscript, subscript).
type TextRun struct {
	Text  string
	Marks map[string]bool
}

// Element is an interior node. Attrs holds type-specific attributes such as
// url, indent, listStyleType, listStart, listRestart or caption. Children is
// never empty: empty content is a single empty TextRun.
type Element struct {
	Type     string
	Children []Node
	Attrs    map[string]any
}

func (*TextRun) node() {}
func (*Element) node() {}

// NewText builds a text run with the supplied marks enabled.
func NewText(text string, marks ...string) *TextRun {
	run := &TextRun{Text: text}
	for _, mark := range marks {
		run.SetMark(mark)
	}
	return run
}

// NewElement builds an element; when no children are supplied it gets a single
// empty text run so the non-empty-children invariant holds by construction.
func NewElement(elementType string, children ...Node) *Element {
	if len(children) == 0 {
		children = []Node{&TextRun{Text: ""}}
	}
	return &Element{Type: elementType, Children: children}
}

// SetMark enables a style mark on the run.
func (t *TextRun) SetMark(mark string) {
	if mark == "" {
		return
	}
	if t.Marks == nil {
		t.Marks = map[string]bool{}
	}
	t.Marks[mark] = true
}

// HasMark reports whether the mark is enabled.
func (t *TextRun) HasMark(mark string) bool {
	return t.Marks[mark]
}

// MarkNames returns the enabled marks in stable order.
func (t *TextRun) MarkNames() []string {
	if len(t.Marks) == 0 {
		return nil
	}
	names := make([]string, 0, len(t.Marks))
	for mark, on := range t.Marks {
		if on {
			names = append(names, mark)
		}
	}
	sort.Strings(names)
	return names
}

// SameMarks reports whether both runs carry an identical mark set.
func (t *TextRun) SameMarks(other *TextRun) bool {
	if other == nil {
		return false
	}
	if len(t.Marks) != len(other.Marks) {
		return false
	}
	for mark, on := range t.Marks {
		if other.Marks[mark] != on {
			return false
		}
	}
	return true
}

// SetAttr sets a type-specific attribute on the element.
func (e *Element) SetAttr(name string, value any) {
	if name == "" {
		return
	}
	if e.Attrs == nil {
		e.Attrs = map[string]any{}
	}
	e.Attrs[name] = value
}

// Attr returns a type-specific attribute and whether it is present.
func (e *Element) Attr(name string) (any, bool) {
	value, ok := e.Attrs[name]
	return value, ok
}

// Text concatenates the text of every run in the sequence, descending into
// elements. Link wrapping and marks are ignored.
func Text(nodes []Node) string {
	var out string
	for _, node := range nodes {
		switch typed := node.(type) {
		case *TextRun:
			out += typed.Text
		case *Element:
			out += Text(typed.Children)
		}
	}
	return out
}
