// Preview inspects a single input without touching the database: it
// sectionizes a markdown file the way the search indexer would, or
// converts an EditorJS export into the block tree the importer stores.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jknm/migrate/editorjs"
	"github.com/jknm/migrate/internal/markdown"
)

func main() {
	var (
		filePath = flag.String("file", "", "Input file to preview")
		mode     = flag.String("mode", "sections", "Preview mode: sections (markdown) or blocks (EditorJS JSON)")
	)

	flag.Parse()

	if *filePath == "" {
		log.Fatalf("--file is required")
	}

	raw, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}

	var out any
	switch *mode {
	case "sections":
		sections, err := markdown.Sectionize(raw)
		if err != nil {
			log.Fatalf("sectionize: %v", err)
		}
		out = sections
	case "blocks":
		var doc editorjs.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			log.Fatalf("decode document: %v", err)
		}
		tree, err := editorjs.Convert(&doc)
		if err != nil {
			log.Fatalf("convert document: %v", err)
		}
		out = tree
	default:
		log.Fatalf("unknown mode %q", *mode)
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("encode preview: %v", err)
	}
	fmt.Fprintln(os.Stdout, string(encoded))
}
