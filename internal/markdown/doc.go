// Package markdown splits flat Markdown documents into heading-delimited
// sections for search indexing, strips YAML frontmatter, and renders
// Markdown bodies to HTML.
package markdown
