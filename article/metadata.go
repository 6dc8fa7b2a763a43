package article

import (
	"regexp"
	"strings"

	"github.com/jknm/migrate/editorjs"
)

const (
	wordsPerMinute = 200

	excerptLimit   = 497
	metaMaxLength  = 160
	metaTruncateAt = 157
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// ReadingTime estimates the reading time of a legacy block document in whole
// minutes at 200 words per minute, rounded up, never less than one minute
// when the document holds any text. Headers, paragraphs and list items all
// count.
func ReadingTime(doc *editorjs.Document) int {
	words := 0
	for _, block := range blockTexts(doc, true) {
		words += len(strings.Fields(block))
	}
	if words == 0 {
		return 0
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// ContentLength counts the characters of tag-stripped header and paragraph
// text. List items are deliberately excluded here even though ReadingTime
// counts them; the stored analytics were always computed this way and the
// asymmetry is preserved.
func ContentLength(doc *editorjs.Document) int {
	length := 0
	for _, block := range blockTexts(doc, false) {
		length += len([]rune(block))
	}
	return length
}

// Excerpt returns the first non-empty header or paragraph text, tag-stripped
// and trimmed, capped at 497 characters plus an ellipsis. Nil when the
// document has no such block.
func Excerpt(doc *editorjs.Document) *string {
	for _, block := range blockTexts(doc, false) {
		text := strings.TrimSpace(block)
		if text == "" {
			continue
		}
		if runes := []rune(text); len(runes) > excerptLimit {
			text = string(runes[:excerptLimit]) + "..."
		}
		return &text
	}
	return nil
}

// MetaDescription derives the SEO description from an excerpt, truncating to
// 157 characters plus an ellipsis when the excerpt exceeds the 160-character
// column. Nil excerpt yields nil.
func MetaDescription(excerpt *string) *string {
	if excerpt == nil {
		return nil
	}
	text := *excerpt
	if runes := []rune(text); len(runes) > metaMaxLength {
		text = string(runes[:metaTruncateAt]) + "..."
	}
	return &text
}

// blockTexts yields the tag-stripped text of each header and paragraph block
// in document order, plus every list item when includeLists is set.
func blockTexts(doc *editorjs.Document, includeLists bool) []string {
	if doc == nil {
		return nil
	}
	var out []string
	for _, block := range doc.Blocks {
		switch data := block.Data.(type) {
		case editorjs.HeaderData:
			out = append(out, stripTags(data.Text))
		case editorjs.ParagraphData:
			out = append(out, stripTags(data.Text))
		case editorjs.ListData:
			if includeLists {
				out = append(out, listTexts(data.Items)...)
			}
		}
	}
	return out
}

func listTexts(items []editorjs.ListItem) []string {
	var out []string
	for _, item := range items {
		out = append(out, stripTags(item.Content))
		if len(item.Items) > 0 {
			out = append(out, listTexts(item.Items)...)
		}
	}
	return out
}

func stripTags(text string) string {
	stripped := tagPattern.ReplaceAllString(text, "")
	return strings.ReplaceAll(stripped, "&nbsp;", " ")
}
