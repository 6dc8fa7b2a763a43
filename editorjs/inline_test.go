package editorjs

import (
	"strings"
	"testing"

	"github.com/jknm/migrate/plate"
)

func TestParseInlineEmpty(t *testing.T) {
	nodes := ParseInline("")
	if len(nodes) != 1 {
		t.Fatalf("expected single node, got %d", len(nodes))
	}
	run, ok := nodes[0].(*plate.TextRun)
	if !ok || run.Text != "" || len(run.Marks) != 0 {
		t.Fatalf("expected empty text run, got %#v", nodes[0])
	}
}

func TestParseInlineMarks(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []*plate.TextRun
	}{
		{
			name:  "bold prefix",
			input: "<b>Hi</b> there",
			want:  []*plate.TextRun{plate.NewText("Hi", "bold"), plate.NewText(" there")},
		},
		{
			name:  "strong and em aliases",
			input: "<strong>264,27 m</strong> je <em>rekord</em>",
			want: []*plate.TextRun{
				plate.NewText("264,27 m", "bold"),
				plate.NewText(" je "),
				plate.NewText("rekord", "italic"),
			},
		},
		{
			name:  "superscript",
			input: "m<sup>2</sup>",
			want:  []*plate.TextRun{plate.NewText("m"), plate.NewText("2", "superscript")},
		},
		{
			name:  "nbsp and br substitution",
			input: "prva&nbsp;vrsta<br>druga<br/>tretja",
			want:  []*plate.TextRun{plate.NewText("prva vrsta\ndruga\ntretja")},
		},
		{
			name:  "underline",
			input: "<u>jama</u>",
			want:  []*plate.TextRun{plate.NewText("jama", "underline")},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			nodes := ParseInline(tc.input)
			if len(nodes) != len(tc.want) {
				t.Fatalf("node count mismatch: got %d want %d (%#v)", len(nodes), len(tc.want), nodes)
			}
			for i, want := range tc.want {
				run, ok := nodes[i].(*plate.TextRun)
				if !ok {
					t.Fatalf("node %d is not a text run: %#v", i, nodes[i])
				}
				if run.Text != want.Text || !run.SameMarks(want) {
					t.Fatalf("node %d mismatch: got %q %v want %q %v",
						i, run.Text, run.MarkNames(), want.Text, want.MarkNames())
				}
			}
		})
	}
}

func TestParseInlineAnchor(t *testing.T) {
	nodes := ParseInline(`obisk <a href="https://www.jknm.si" target="_blank"><b>kluba</b></a> danes`)
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d: %#v", len(nodes), nodes)
	}

	link, ok := nodes[1].(*plate.Element)
	if !ok || link.Type != "a" {
		t.Fatalf("expected link element, got %#v", nodes[1])
	}
	if url, _ := link.Attr("url"); url != "https://www.jknm.si" {
		t.Fatalf("unexpected link url: %v", url)
	}
	inner, ok := link.Children[0].(*plate.TextRun)
	if !ok || inner.Text != "kluba" || !inner.HasMark("bold") {
		t.Fatalf("unexpected link children: %#v", link.Children)
	}
}

func TestParseInlineMergesAdjacentRuns(t *testing.T) {
	// The two bold spans sit directly next to each other and must collapse
	// into one run; the plain tail stays separate.
	nodes := ParseInline("<b>ab</b><b>cd</b>ef")
	if len(nodes) != 2 {
		t.Fatalf("expected merged output of 2 nodes, got %d: %#v", len(nodes), nodes)
	}
	first := nodes[0].(*plate.TextRun)
	if first.Text != "abcd" || !first.HasMark("bold") {
		t.Fatalf("unexpected first run: %q %v", first.Text, first.MarkNames())
	}
	second := nodes[1].(*plate.TextRun)
	if second.Text != "ef" || len(second.Marks) != 0 {
		t.Fatalf("unexpected second run: %q %v", second.Text, second.MarkNames())
	}
}

func TestParseInlineStripConcatenationGuarantee(t *testing.T) {
	inputs := []string{
		"<b>Hi</b> there",
		"a<sup>2</sup>b<sub>3</sub>c",
		`pred <a href="https://example.com">sredina</a> za`,
		"prva&nbsp;vrsta<br>druga",
		"<i>vse</i> <u>označeno</u> <strong>besedilo</strong>",
	}

	for _, input := range inputs {
		got := plate.Text(ParseInline(input))
		want := stripForGuarantee(input)
		if got != want {
			t.Fatalf("concatenation guarantee broken for %q: got %q want %q", input, got, want)
		}
	}
}

// stripForGuarantee removes tags and applies the entity/break substitutions
// independently of the parser.
func stripForGuarantee(input string) string {
	text := strings.ReplaceAll(input, "&nbsp;", " ")
	text = breakPattern.ReplaceAllString(text, "\n")
	var b strings.Builder
	inTag := false
	for _, r := range text {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
