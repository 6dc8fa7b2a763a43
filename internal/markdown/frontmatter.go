package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"
)

// Meta is the YAML frontmatter envelope of an exported Markdown article.
// Exports written by hand often omit most of it; every field is optional.
type Meta struct {
	Title  string         `yaml:"title"`
	Slug   string         `yaml:"slug"`
	Status string         `yaml:"status"`
	Date   time.Time      `yaml:"date"`
	Custom map[string]any `yaml:",inline"`
}

// ParseFrontMatter extracts the frontmatter envelope and returns the Markdown
// body without delimiters. Documents without frontmatter come back unchanged
// with a zero Meta.
func ParseFrontMatter(source []byte) (Meta, []byte, error) {
	var meta Meta
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return Meta{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return meta, body, nil
}

// StripFrontMatter discards the frontmatter envelope and returns only the
// Markdown body.
func StripFrontMatter(source []byte) ([]byte, error) {
	_, body, err := ParseFrontMatter(source)
	return body, err
}
