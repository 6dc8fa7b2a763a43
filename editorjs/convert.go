package editorjs

import (
	"errors"
	"strconv"

	"github.com/jknm/migrate/plate"
)

// ErrNilDocument is returned when the converter receives no document.
var ErrNilDocument = errors.New("editorjs: document is required")

// Convert maps a legacy block document onto the document-tree format. Unknown
// block types are skipped, legacy exports are full of plugins that never made
// it to the new editor and losing them is the intended behaviour.
func Convert(doc *Document) (plate.Value, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	var value plate.Value
	for _, block := range doc.Blocks {
		switch data := block.Data.(type) {
		case HeaderData:
			value = append(value, &plate.Element{
				Type:     "h" + strconv.Itoa(data.Level),
				Children: ParseInline(data.Text),
			})
		case ParagraphData:
			value = append(value, &plate.Element{
				Type:     "p",
				Children: ParseInline(data.Text),
			})
		case ImageData:
			value = append(value, captionedMedia("img", data.File.URL, data.Caption))
		case EmbedData:
			value = append(value, captionedMedia("media_embed", data.Embed, data.Caption))
		case ListData:
			value = append(value, convertList(data)...)
		case UnknownData:
			// Unsupported block type: skip.
		}
	}
	return value, nil
}

func captionedMedia(elementType, url, caption string) *plate.Element {
	element := plate.NewElement(elementType)
	element.SetAttr("url", url)
	if caption != "" {
		element.SetAttr("caption", ParseInline(caption))
	}
	return element
}

// convertList flattens a (possibly nested) list block into indented paragraph
// elements. Numbering attributes are sparse on purpose: an item whose number
// follows from default top-to-bottom numbering starting at 1 carries none,
// the first item of an offset ordered list carries listRestart, and every
// other explicitly numbered item carries listStart. Nested items restart at 1
// one indent level deeper.
func convertList(data ListData) []plate.Node {
	ordered := data.Style == "ordered"
	styleType := "disc"
	if ordered {
		styleType = "decimal"
	}

	start := 1
	if data.Meta != nil && data.Meta.Start != nil {
		start = *data.Meta.Start
	}

	var out []plate.Node
	var walk func(items []ListItem, indent, start int)
	walk = func(items []ListItem, indent, start int) {
		for index, item := range items {
			element := &plate.Element{Type: "p", Children: ParseInline(item.Content)}
			element.SetAttr("indent", indent)
			element.SetAttr("listStyleType", styleType)

			number := start + index
			if ordered {
				if index == 0 && start != 1 {
					element.SetAttr("listRestart", number)
				} else if index > 0 || start > 1 {
					element.SetAttr("listStart", number)
				}
			} else if index > 0 {
				element.SetAttr("listStart", index+1)
			}

			out = append(out, element)
			if len(item.Items) > 0 {
				walk(item.Items, indent+1, 1)
			}
		}
	}
	walk(data.Items, 1, start)
	return out
}
