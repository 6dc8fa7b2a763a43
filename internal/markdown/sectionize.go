package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Section is one heading-delimited slice of a Markdown document. Heading is
// the plain text of the section's H1 or H2; Content is the section's Markdown
// including the heading line itself. Text before the first heading becomes a
// section with an empty Heading.
type Section struct {
	Heading string `json:"heading_text"`
	Content string `json:"content_markdown"`
}

// Sectionize strips frontmatter and splits the document at every level 1 and
// level 2 heading. Deeper headings stay inside their enclosing section.
// Because sections are sliced straight out of the source bytes, concatenating
// the contents reproduces the body (up to surrounding whitespace).
func Sectionize(source []byte) ([]Section, error) {
	body, err := StripFrontMatter(source)
	if err != nil {
		return nil, err
	}

	root := engine.Parser().Parse(text.NewReader(body))

	type boundary struct {
		heading string
		start   int
	}
	var boundaries []boundary

	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		heading, ok := node.(*ast.Heading)
		if !ok || heading.Level > 2 {
			continue
		}
		if heading.Lines().Len() == 0 {
			// A bare "#" line carries no text segment to anchor on.
			continue
		}
		boundaries = append(boundaries, boundary{
			heading: string(heading.Text(body)),
			start:   lineStart(body, heading.Lines().At(0).Start),
		})
	}

	var sections []Section

	preambleEnd := len(body)
	if len(boundaries) > 0 {
		preambleEnd = boundaries[0].start
	}
	if preamble := strings.TrimSpace(string(body[:preambleEnd])); preamble != "" {
		sections = append(sections, Section{Content: preamble})
	}

	for i, b := range boundaries {
		end := len(body)
		if i+1 < len(boundaries) {
			end = boundaries[i+1].start
		}
		sections = append(sections, Section{
			Heading: b.heading,
			Content: strings.TrimSpace(string(body[b.start:end])),
		})
	}

	return sections, nil
}

// lineStart walks back from a text segment offset to the beginning of the
// line holding it. Heading segments start after the "#" markers, so the
// markers are recovered this way.
func lineStart(source []byte, offset int) int {
	for offset > 0 && source[offset-1] != '\n' {
		offset--
	}
	return offset
}
