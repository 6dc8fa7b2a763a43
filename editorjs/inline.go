package editorjs

import (
	"regexp"
	"strings"

	"github.com/jknm/migrate/plate"
)

// markByTag maps the fixed inline tag set onto text run mark names. The table
// is the whole vocabulary: anything else is either an anchor (handled
// separately) or stripped as an unknown tag.
var markByTag = map[string]string{
	"b":      "bold",
	"strong": "bold",
	"i":      "italic",
	"em":     "italic",
	"u":      "underline",
	"sup":    "superscript",
	"sub":    "subscript",
}

var (
	breakPattern  = regexp.MustCompile(`(?i)<br\s*/?>`)
	anchorPattern = regexp.MustCompile(`(?is)<a\s+href="([^"]+)"[^>]*>(.*?)</a>`)
)

// ParseInline converts a legacy inline-markup string into a flat node
// sequence: text runs with mark flags plus "a" elements for anchors. The
// supported markup is the fixed legacy tag set only; tags are assumed
// well-formed and non-nested per kind, and anchors never contain other
// anchors. Concatenating the text of the result reproduces the tag-stripped
// input, with &nbsp; turned into spaces and <br> into newlines.
func ParseInline(input string) []plate.Node {
	if input == "" {
		return []plate.Node{&plate.TextRun{Text: ""}}
	}

	var nodes []plate.Node
	rest := input
	for {
		loc := anchorPattern.FindStringSubmatchIndex(rest)
		if loc == nil {
			nodes = append(nodes, parseMarks(rest)...)
			break
		}
		if before := rest[:loc[0]]; before != "" {
			nodes = append(nodes, parseMarks(before)...)
		}

		href := rest[loc[2]:loc[3]]
		inner := rest[loc[4]:loc[5]]
		link := &plate.Element{Type: "a", Children: parseMarks(inner)}
		if len(link.Children) == 0 {
			link.Children = []plate.Node{&plate.TextRun{Text: ""}}
		}
		link.SetAttr("url", href)
		nodes = append(nodes, link)

		rest = rest[loc[1]:]
	}

	if len(nodes) == 0 {
		return []plate.Node{&plate.TextRun{Text: ""}}
	}
	return mergeRuns(nodes)
}

// parseMarks scans a fragment without anchors, toggling marks as tags open
// and close. Unknown opening tags push nothing; any closing tag pops, which
// keeps the stack balanced for the supported well-formed input.
func parseMarks(fragment string) []plate.Node {
	text := strings.ReplaceAll(fragment, "&nbsp;", " ")
	text = breakPattern.ReplaceAllString(text, "\n")

	var runs []plate.Node
	var active []string

	for i := 0; i < len(text); {
		if text[i] == '<' {
			close := strings.IndexByte(text[i:], '>')
			if close < 0 {
				// Dangling '<' with no tag end: keep the remainder as text.
				runs = append(runs, newRun(text[i:], active))
				break
			}
			tag := text[i : i+close+1]
			if strings.HasPrefix(tag, "</") {
				if len(active) > 0 {
					active = active[:len(active)-1]
				}
			} else if mark, ok := markByTag[tagName(tag)]; ok {
				active = append(active, mark)
			}
			i += close + 1
			continue
		}

		next := strings.IndexByte(text[i:], '<')
		if next < 0 {
			runs = append(runs, newRun(text[i:], active))
			break
		}
		runs = append(runs, newRun(text[i:i+next], active))
		i += next
	}

	return runs
}

func newRun(text string, marks []string) *plate.TextRun {
	run := &plate.TextRun{Text: text}
	for _, mark := range marks {
		run.SetMark(mark)
	}
	return run
}

func tagName(tag string) string {
	name := strings.TrimPrefix(tag, "<")
	name = strings.TrimSuffix(name, ">")
	if cut := strings.IndexAny(name, " \t/"); cut >= 0 {
		name = name[:cut]
	}
	return strings.ToLower(name)
}

// mergeRuns joins adjacent text runs that carry identical mark sets so the
// output matches what the editor itself would produce.
func mergeRuns(nodes []plate.Node) []plate.Node {
	merged := make([]plate.Node, 0, len(nodes))
	for _, node := range nodes {
		current, ok := node.(*plate.TextRun)
		if !ok || len(merged) == 0 {
			merged = append(merged, node)
			continue
		}
		previous, ok := merged[len(merged)-1].(*plate.TextRun)
		if !ok || !previous.SameMarks(current) {
			merged = append(merged, node)
			continue
		}
		previous.Text += current.Text
	}
	return merged
}
